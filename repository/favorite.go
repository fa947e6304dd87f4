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

	"github.com/tomoncle/estate/model"
	"github.com/uptrace/bun"
)

type favoriteRepositoryImpl struct {
	*baseRepositoryImpl[model.Favorite, *model.Favorite]
}

func NewFavoriteRepository(s *Session) FavoriteRepository {
	return &favoriteRepositoryImpl{newBaseRepository[model.Favorite, *model.Favorite](s)}
}

func pairOf(userID, propertyID int64) QueryBuilder {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.user_id = ?", userID).
			Where("?TableAlias.property_id = ?", propertyID)
	}
}

// Toggle removes the visible favorite of the pair or creates it. The pair
// owns a single row: a previously removed favorite is revived rather than
// inserted again, so the unique pair index holds across soft deletes.
func (r *favoriteRepositoryImpl) Toggle(ctx context.Context, userID, propertyID int64) (ToggleResult, error) {
	current, err := r.findOne(ctx, pairOf(userID, propertyID))
	if err != nil {
		return 0, err
	}
	if current != nil {
		if err := r.Delete(ctx, current); err != nil {
			return 0, err
		}
		return FavoriteRemoved, nil
	}

	removed, err := r.findUnscoped(ctx, pairOf(userID, propertyID))
	if err != nil {
		return 0, err
	}
	if removed != nil {
		if err := r.restore(removed); err != nil {
			return 0, err
		}
		return FavoriteAdded, nil
	}
	if err := r.Add(ctx, &model.Favorite{UserID: userID, PropertyID: propertyID}); err != nil {
		return 0, err
	}
	return FavoriteAdded, nil
}

func (r *favoriteRepositoryImpl) GetByUserID(ctx context.Context, userID int64) ([]*model.Favorite, error) {
	return r.find(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return newestFirst(q.Where("?TableAlias.user_id = ?", userID))
	})
}

func (r *favoriteRepositoryImpl) IsFavorite(ctx context.Context, userID, propertyID int64) (bool, error) {
	n, err := r.count(ctx, pairOf(userID, propertyID))
	return n > 0, err
}

// GetFavoriteProperties lists the visible properties the user saved, with
// their images, in id order.
func (r *favoriteRepositoryImpl) GetFavoriteProperties(ctx context.Context, userID int64) ([]*model.Property, error) {
	db, err := r.session.Reader(ctx)
	if err != nil {
		return nil, err
	}
	saved := db.NewSelect().
		Model((*model.Favorite)(nil)).
		Column("property_id").
		Where("?TableAlias.user_id = ?", userID).
		Where(visibleClause, false)

	properties := make([]*model.Property, 0)
	err = withImages(db.NewSelect().Model(&properties)).
		Where(visibleClause, false).
		// a subquery argument supplies its own named args, so the outer
		// column is spelled with the properties alias
		Where("p.id IN (?)", saved).
		OrderExpr("?TableAlias.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, translate(err)
	}
	return properties, nil
}
