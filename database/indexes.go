/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// IndexSpec describes a secondary index. Columns are plain column names;
// Expr, when set, replaces Columns with a single raw expression such as
// "lower(email)" for case-insensitive uniqueness.
type IndexSpec struct {
	Table   string
	Name    string
	Columns []string
	Expr    string
	Unique  bool
}

// NewIndex returns a non-unique index over columns.
func NewIndex(table, name string, columns ...string) IndexSpec {
	return IndexSpec{Table: table, Name: name, Columns: columns}
}

// NewUniqueIndex returns a unique index over columns.
func NewUniqueIndex(table, name string, columns ...string) IndexSpec {
	return IndexSpec{Table: table, Name: name, Columns: columns, Unique: true}
}

// NewUniqueExprIndex returns a unique index over a raw expression.
func NewUniqueExprIndex(table, name, expr string) IndexSpec {
	return IndexSpec{Table: table, Name: name, Expr: expr, Unique: true}
}

// Create issues CREATE INDEX against db using the syntax of its dialect.
// MySQL lacks IF NOT EXISTS for indexes and wants expressions wrapped in an
// extra pair of parentheses; version tracking keeps the statement from
// running twice there.
func (ix IndexSpec) Create(ctx context.Context, db bun.IDB) error {
	mysql := db.Dialect().Name() == dialect.MySQL

	var b strings.Builder
	b.WriteString("CREATE ")
	if ix.Unique {
		b.WriteString("UNIQUE ")
	}
	b.WriteString("INDEX ")
	if !mysql {
		b.WriteString("IF NOT EXISTS ")
	}
	b.WriteString("? ON ? (")

	args := []interface{}{bun.Ident(ix.Name), bun.Ident(ix.Table)}
	if ix.Expr != "" {
		if mysql {
			b.WriteString("(" + ix.Expr + ")")
		} else {
			b.WriteString(ix.Expr)
		}
	} else {
		placeholders := make([]string, len(ix.Columns))
		for i, c := range ix.Columns {
			placeholders[i] = "?"
			args = append(args, bun.Ident(c))
		}
		b.WriteString(strings.Join(placeholders, ", "))
	}
	b.WriteString(")")

	if _, err := db.NewRaw(b.String(), args...).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create index %s on %s: %w", ix.Name, ix.Table, err)
	}
	return nil
}
