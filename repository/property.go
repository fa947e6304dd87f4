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
	"time"

	"github.com/tomoncle/estate/model"
	"github.com/tomoncle/estate/types"
	"github.com/uptrace/bun"
)

// similarity price band around the target price, inclusive
const (
	similarPriceLow  = 0.8
	similarPriceHigh = 1.2
)

type propertyRepositoryImpl struct {
	*baseRepositoryImpl[model.Property, *model.Property]
}

func NewPropertyRepository(s *Session) PropertyRepository {
	return &propertyRepositoryImpl{newBaseRepository[model.Property, *model.Property](s)}
}

// withImages loads the visible images of each property in display order.
func withImages(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Relation("Images", func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where(visibleClause, false).
			OrderExpr("?TableAlias.display_order ASC, ?TableAlias.id ASC")
	})
}

func published(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Where("?TableAlias.is_published = ?", true)
}

func newestFirst(q *bun.SelectQuery) *bun.SelectQuery {
	return q.OrderExpr("?TableAlias.created_at DESC, ?TableAlias.id DESC")
}

func cityIs(q *bun.SelectQuery, city string) *bun.SelectQuery {
	return q.Where("LOWER(?TableAlias.city) = LOWER(?)", city)
}

func (r *propertyRepositoryImpl) GetWithImages(ctx context.Context, id int64) (*model.Property, error) {
	return r.findOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return withImages(q.Where("?TableAlias.id = ?", id))
	})
}

// GetPublished pages the published listings matching filter, newest first.
// Total counts every match regardless of the page window.
func (r *propertyRepositoryImpl) GetPublished(ctx context.Context, filter ListingFilter, page, size int) (*types.Pagination[model.Property], error) {
	where := func(q *bun.SelectQuery) *bun.SelectQuery {
		q = published(q)
		if filter.City != "" {
			q = cityIs(q, filter.City)
		}
		if filter.Type != 0 {
			q = q.Where("?TableAlias.type = ?", filter.Type)
		}
		if filter.Status != 0 {
			q = q.Where("?TableAlias.status = ?", filter.Status)
		}
		if filter.MinPrice != nil {
			q = q.Where("?TableAlias.price >= ?", *filter.MinPrice)
		}
		if filter.MaxPrice != nil {
			q = q.Where("?TableAlias.price <= ?", *filter.MaxPrice)
		}
		return q
	}
	window := func(q *bun.SelectQuery) *bun.SelectQuery {
		return withImages(newestFirst(q))
	}
	return r.paged(ctx, types.NewDefaultPageRequest(page, size), where, window)
}

// top returns at most count published rows in the given order.
func (r *propertyRepositoryImpl) top(ctx context.Context, count int, build QueryBuilder) ([]*model.Property, error) {
	if count <= 0 {
		return make([]*model.Property, 0), nil
	}
	return r.find(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return withImages(build(published(q))).Limit(count)
	})
}

func (r *propertyRepositoryImpl) GetFeatured(ctx context.Context, count int) ([]*model.Property, error) {
	return r.top(ctx, count, func(q *bun.SelectQuery) *bun.SelectQuery {
		return newestFirst(q.Where("?TableAlias.is_featured = ?", true))
	})
}

func (r *propertyRepositoryImpl) GetMostViewed(ctx context.Context, count int) ([]*model.Property, error) {
	return r.top(ctx, count, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr("?TableAlias.view_count DESC, ?TableAlias.id ASC")
	})
}

func (r *propertyRepositoryImpl) GetLatest(ctx context.Context, count int) ([]*model.Property, error) {
	return r.top(ctx, count, newestFirst)
}

// GetSimilar returns published properties of the same city and type priced
// within the band around the target, closest price first. An absent target
// yields an empty result.
func (r *propertyRepositoryImpl) GetSimilar(ctx context.Context, id int64, count int) ([]*model.Property, error) {
	target, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return make([]*model.Property, 0), nil
	}
	return r.top(ctx, count, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.
			Where("?TableAlias.id <> ?", target.ID).
			Where("?TableAlias.city = ?", target.City).
			Where("?TableAlias.type = ?", target.Type).
			Where("?TableAlias.price >= ?", target.Price*similarPriceLow).
			Where("?TableAlias.price <= ?", target.Price*similarPriceHigh).
			OrderExpr("ABS(?TableAlias.price - ?) ASC, ?TableAlias.id ASC", target.Price)
	})
}

func (r *propertyRepositoryImpl) GetByUserID(ctx context.Context, userID int64) ([]*model.Property, error) {
	return r.find(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return withImages(newestFirst(q.Where("?TableAlias.user_id = ?", userID)))
	})
}

func (r *propertyRepositoryImpl) GetByCity(ctx context.Context, city string) ([]*model.Property, error) {
	return r.find(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return withImages(newestFirst(cityIs(published(q), city)))
	})
}

func (r *propertyRepositoryImpl) GetByTypeAndStatus(ctx context.Context, typ model.PropertyType, status model.PropertyStatus) ([]*model.Property, error) {
	return r.find(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		q = published(q).
			Where("?TableAlias.type = ?", typ).
			Where("?TableAlias.status = ?", status)
		return withImages(newestFirst(q))
	})
}

// GetByPriceRange lists published properties priced in [minPrice, maxPrice],
// cheapest first. An empty city matches every city.
func (r *propertyRepositoryImpl) GetByPriceRange(ctx context.Context, minPrice, maxPrice float64, city string) ([]*model.Property, error) {
	return r.find(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		q = published(q).
			Where("?TableAlias.price >= ?", minPrice).
			Where("?TableAlias.price <= ?", maxPrice)
		if city != "" {
			q = cityIs(q, city)
		}
		return withImages(q.OrderExpr("?TableAlias.price ASC, ?TableAlias.id ASC"))
	})
}

// IncrementViewCount stages an atomic view_count + 1 on the visible row.
// A missing id updates nothing.
func (r *propertyRepositoryImpl) IncrementViewCount(_ context.Context, id int64) error {
	return r.session.StageExec(func(ctx context.Context, db bun.IDB, now time.Time) (sql.Result, error) {
		return db.NewUpdate().
			Model((*model.Property)(nil)).
			Set("view_count = view_count + 1").
			Set("updated_at = ?", now).
			Where("id = ?", id).
			Where("is_deleted = ?", false).
			Exec(ctx)
	})
}
