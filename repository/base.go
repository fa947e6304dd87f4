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

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tomoncle/estate/model"
	"github.com/tomoncle/estate/types"
	"github.com/uptrace/bun"
)

// visibleClause hides logically deleted rows; every read goes through it.
const visibleClause = "?TableAlias.is_deleted = ?"

// QueryBuilder refines a select over visible rows.
type QueryBuilder func(q *bun.SelectQuery) *bun.SelectQuery

type baseRepositoryImpl[T any, P Entity[T]] struct {
	session *Session
}

// NewRepository returns a generic repository bound to s.
func NewRepository[T any, P Entity[T]](s *Session) Repository[T] {
	return newBaseRepository[T, P](s)
}

func newBaseRepository[T any, P Entity[T]](s *Session) *baseRepositoryImpl[T, P] {
	return &baseRepositoryImpl[T, P]{session: s}
}

func (r *baseRepositoryImpl[T, P]) selectQuery(ctx context.Context, dest interface{}) (*bun.SelectQuery, error) {
	db, err := r.session.Reader(ctx)
	if err != nil {
		return nil, err
	}
	return db.NewSelect().Model(dest).Where(visibleClause, false), nil
}

func withFilter(q *bun.SelectQuery, filter *types.QueryFilter) *bun.SelectQuery {
	if filter.IsEmpty() {
		return q
	}
	return q.Where(filter.Schema, filter.Args...)
}

// find scans every visible row matching build.
func (r *baseRepositoryImpl[T, P]) find(ctx context.Context, build QueryBuilder) ([]*T, error) {
	items := make([]*T, 0)
	q, err := r.selectQuery(ctx, &items)
	if err != nil {
		return nil, err
	}
	if build != nil {
		q = build(q)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, translate(err)
	}
	return items, nil
}

// findOne scans the first visible row matching build, nil when none does.
func (r *baseRepositoryImpl[T, P]) findOne(ctx context.Context, build QueryBuilder) (*T, error) {
	entity := new(T)
	q, err := r.selectQuery(ctx, entity)
	if err != nil {
		return nil, err
	}
	if build != nil {
		q = build(q)
	}
	if err := q.Limit(1).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, translate(err)
	}
	return entity, nil
}

func (r *baseRepositoryImpl[T, P]) count(ctx context.Context, build QueryBuilder) (int, error) {
	q, err := r.selectQuery(ctx, (*T)(nil))
	if err != nil {
		return 0, err
	}
	if build != nil {
		q = build(q)
	}
	n, err := q.Count(ctx)
	return n, translate(err)
}

func byID(id int64) QueryBuilder {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.id = ?", id)
	}
}

func byFilter(filter *types.QueryFilter) QueryBuilder {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return withFilter(q, filter)
	}
}

func (r *baseRepositoryImpl[T, P]) GetAll(ctx context.Context) ([]*T, error) {
	return r.find(ctx, nil)
}

func (r *baseRepositoryImpl[T, P]) GetByID(ctx context.Context, id int64) (*T, error) {
	return r.findOne(ctx, byID(id))
}

func (r *baseRepositoryImpl[T, P]) GetMany(ctx context.Context, filter *types.QueryFilter) ([]*T, error) {
	return r.find(ctx, byFilter(filter))
}

func (r *baseRepositoryImpl[T, P]) GetFirst(ctx context.Context, filter *types.QueryFilter) (*T, error) {
	return r.findOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return withFilter(q, filter).OrderExpr("?TableAlias.id ASC")
	})
}

func (r *baseRepositoryImpl[T, P]) Exists(ctx context.Context, filter *types.QueryFilter) (bool, error) {
	q, err := r.selectQuery(ctx, (*T)(nil))
	if err != nil {
		return false, err
	}
	ok, err := withFilter(q, filter).Exists(ctx)
	return ok, translate(err)
}

func (r *baseRepositoryImpl[T, P]) Count(ctx context.Context) (int, error) {
	return r.count(ctx, nil)
}

func (r *baseRepositoryImpl[T, P]) CountWhere(ctx context.Context, filter *types.QueryFilter) (int, error) {
	return r.count(ctx, byFilter(filter))
}

// GetPaged counts the filtered set, then orders and windows it. Without
// explicit orders rows come back by ascending id.
func (r *baseRepositoryImpl[T, P]) GetPaged(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error) {
	if page == nil {
		page = types.NewDefaultPageRequest(1, 0)
	}
	return r.paged(ctx, page, byFilter(page.GetFilter()), func(q *bun.SelectQuery) *bun.SelectQuery {
		if orders := page.GetOrders(); len(orders) > 0 {
			return q.Order(orders...)
		}
		return q.OrderExpr("?TableAlias.id ASC")
	})
}

// paged applies where before counting and window after it, so ordering and
// relations never affect Total.
func (r *baseRepositoryImpl[T, P]) paged(ctx context.Context, page *types.PageRequest, where, window QueryBuilder) (*types.Pagination[T], error) {
	items := make([]*T, 0)
	q, err := r.selectQuery(ctx, &items)
	if err != nil {
		return nil, err
	}
	if where != nil {
		q = where(q)
	}

	pagination := types.NewDefaultPagination[T](page.GetPage(), page.GetPageSize())
	total, err := q.Count(ctx)
	if err != nil {
		return nil, translate(err)
	}
	pagination.Total = total
	if total <= page.GetOffset() {
		return pagination, nil
	}

	if window != nil {
		q = window(q)
	}
	if err := q.Offset(page.GetOffset()).Limit(page.GetPageSize()).Scan(ctx); err != nil {
		return nil, translate(err)
	}
	pagination.Items = items
	return pagination, nil
}

// Add stages an insert. Identity is assigned by the store at flush.
func (r *baseRepositoryImpl[T, P]) Add(_ context.Context, entity *T) error {
	if entity == nil {
		return nil
	}
	base := P(entity).Base()
	base.ID = 0
	if d, ok := any(entity).(model.Defaulter); ok {
		d.ApplyDefaults()
	}
	return r.session.stage(change{kind: changeInsert, model: entity, base: base})
}

func (r *baseRepositoryImpl[T, P]) AddMany(ctx context.Context, entities ...*T) error {
	for _, e := range entities {
		if err := r.Add(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// Update stages a full-row update of a visible row.
func (r *baseRepositoryImpl[T, P]) Update(_ context.Context, entity *T) error {
	if entity == nil {
		return nil
	}
	return r.session.stage(change{kind: changeUpdate, model: entity, base: P(entity).Base()})
}

// Delete stages a logical delete.
func (r *baseRepositoryImpl[T, P]) Delete(_ context.Context, entity *T) error {
	if entity == nil {
		return nil
	}
	return r.session.stage(change{kind: changeDelete, model: entity, base: P(entity).Base()})
}

// DeleteByID stages a logical delete of the visible row with id, if any.
func (r *baseRepositoryImpl[T, P]) DeleteByID(ctx context.Context, id int64) error {
	entity, err := r.GetByID(ctx, id)
	if err != nil || entity == nil {
		return err
	}
	return r.Delete(ctx, entity)
}

func (r *baseRepositoryImpl[T, P]) DeleteMany(ctx context.Context, entities ...*T) error {
	for _, e := range entities {
		if err := r.Delete(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// restore stages the revival of a logically deleted row.
func (r *baseRepositoryImpl[T, P]) restore(entity *T) error {
	return r.session.stage(change{kind: changeRestore, model: entity, base: P(entity).Base()})
}

// findUnscoped looks a row up regardless of its deletion flag.
func (r *baseRepositoryImpl[T, P]) findUnscoped(ctx context.Context, build QueryBuilder) (*T, error) {
	db, err := r.session.Reader(ctx)
	if err != nil {
		return nil, err
	}
	entity := new(T)
	if err := build(db.NewSelect().Model(entity)).Limit(1).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, translate(err)
	}
	return entity, nil
}
