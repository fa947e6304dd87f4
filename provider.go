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

package estate

import (
	"context"
	"fmt"

	"github.com/tomoncle/estate/repository"
	"github.com/uptrace/bun"
)

// AfterCommitFunc runs once the unit of work has committed. Its failure is
// logged and never undoes the commit.
type AfterCommitFunc func(ctx context.Context) error

// Provider opens one UnitOfWork per logical operation over a shared pool.
type Provider struct {
	db   *bun.DB
	opts options
}

func NewProvider(db *bun.DB, opts ...Option) *Provider {
	return &Provider{db: db, opts: newOptions(opts)}
}

// Begin opens a unit of work. The caller must Close it.
func (p *Provider) Begin(ctx context.Context) (*UnitOfWork, error) {
	return newUnitOfWork(ctx, p.db, p.opts)
}

// Do runs fn inside an explicit transaction on a fresh unit of work. The
// transaction commits when fn returns nil and rolls back otherwise; the unit
// is always closed. afterCommit hooks run only after a successful commit.
func (p *Provider) Do(ctx context.Context, fn func(ctx context.Context, uow *UnitOfWork) error, afterCommit ...AfterCommitFunc) (err error) {
	uow, err := p.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := uow.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := uow.BeginTransaction(ctx); err != nil {
		return err
	}
	if err := fn(ctx, uow); err != nil {
		if rbErr := uow.RollbackTransaction(ctx); rbErr != nil {
			p.opts.logger.Error("Failed to rollback transaction", "uow", uow.ID(), "error", rbErr)
		}
		return err
	}
	if err := uow.CommitTransaction(ctx); err != nil {
		return err
	}

	for _, hook := range afterCommit {
		if herr := hook(ctx); herr != nil {
			p.opts.logger.Warn("After-commit hook failed", "uow", uow.ID(), "error", herr)
		}
	}
	return nil
}

// Require turns an absent lookup result into repository.ErrNotFound.
func Require[T any](v *T, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	if v == nil {
		var zero T
		return nil, fmt.Errorf("%T: %w", zero, repository.ErrNotFound)
	}
	return v, nil
}
