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

type propertyImageRepositoryImpl struct {
	*baseRepositoryImpl[model.PropertyImage, *model.PropertyImage]
}

func NewPropertyImageRepository(s *Session) PropertyImageRepository {
	return &propertyImageRepositoryImpl{newBaseRepository[model.PropertyImage, *model.PropertyImage](s)}
}

func imagesOf(propertyID int64) QueryBuilder {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.property_id = ?", propertyID)
	}
}

func (r *propertyImageRepositoryImpl) GetByPropertyID(ctx context.Context, propertyID int64) ([]*model.PropertyImage, error) {
	return r.find(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return imagesOf(propertyID)(q).OrderExpr("?TableAlias.display_order ASC, ?TableAlias.id ASC")
	})
}

// GetCover returns the image flagged as cover, or nil.
func (r *propertyImageRepositoryImpl) GetCover(ctx context.Context, propertyID int64) (*model.PropertyImage, error) {
	return r.findOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return imagesOf(propertyID)(q).
			Where("?TableAlias.is_cover = ?", true).
			OrderExpr("?TableAlias.display_order ASC, ?TableAlias.id ASC")
	})
}

// DeleteByPropertyID stages a logical delete of every visible image of the property.
func (r *propertyImageRepositoryImpl) DeleteByPropertyID(ctx context.Context, propertyID int64) error {
	images, err := r.find(ctx, imagesOf(propertyID))
	if err != nil {
		return err
	}
	return r.DeleteMany(ctx, images...)
}
