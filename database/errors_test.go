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
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsSqlError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		is   bool
		kind SQLError
	}{
		{"mysql duplicate", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, true, DuplicateKeyErr},
		{"mysql fk", fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1452}), true, ForeignKeyViolationErr},
		{"mysql other", &mysql.MySQLError{Number: 1205}, true, UnknownErr},
		{"postgres unique", &pq.Error{Code: "23505"}, true, DuplicateKeyErr},
		{"postgres not null", &pq.Error{Code: "23502"}, true, NotNullViolationErr},
		{"sqlite unique", errors.New("constraint failed: UNIQUE constraint failed: users.email (2067)"), true, DuplicateKeyErr},
		{"sqlite fk", errors.New("FOREIGN KEY constraint failed"), true, ForeignKeyViolationErr},
		{"sqlite missing table", errors.New("SQL logic error: no such table: users (1)"), true, NoTableErr},
		{"no rows", fmt.Errorf("get: %w", sql.ErrNoRows), true, NoRowsErr},
		{"unrelated", errors.New("boom"), false, UnknownErr},
		{"nil", nil, false, UnknownErr},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			is, kind := IsSqlError(tc.err)
			assert.Equal(t, tc.is, is)
			assert.Equal(t, tc.kind, kind)
		})
	}
	assert.True(t, DuplicateKeyErr.IsConstraint())
	assert.False(t, NoTableErr.IsConstraint())
}

func TestIsUnavailable(t *testing.T) {
	assert.True(t, IsUnavailable(fmt.Errorf("exec: %w", driver.ErrBadConn)))
	assert.True(t, IsUnavailable(sql.ErrConnDone))
	assert.True(t, IsUnavailable(context.DeadlineExceeded))
	assert.True(t, IsUnavailable(&net.OpError{Op: "dial", Net: "tcp", Err: errors.New("refused")}))
	assert.True(t, IsUnavailable(errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")))
	assert.True(t, IsUnavailable(errors.New("database is locked (5) (SQLITE_BUSY)")))
	assert.False(t, IsUnavailable(errors.New("UNIQUE constraint failed: users.email")))
	assert.False(t, IsUnavailable(nil))
}
