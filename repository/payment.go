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
	"github.com/uptrace/bun"
)

type paymentRepositoryImpl struct {
	*baseRepositoryImpl[model.Payment, *model.Payment]
}

func NewPaymentRepository(s *Session) PaymentRepository {
	return &paymentRepositoryImpl{newBaseRepository[model.Payment, *model.Payment](s)}
}

func (r *paymentRepositoryImpl) newestWhere(ctx context.Context, query string, arg interface{}) ([]*model.Payment, error) {
	return r.find(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return newestFirst(q.Where(query, arg))
	})
}

func (r *paymentRepositoryImpl) GetByUserID(ctx context.Context, userID int64) ([]*model.Payment, error) {
	return r.newestWhere(ctx, "?TableAlias.user_id = ?", userID)
}

func (r *paymentRepositoryImpl) GetByPropertyID(ctx context.Context, propertyID int64) ([]*model.Payment, error) {
	return r.newestWhere(ctx, "?TableAlias.property_id = ?", propertyID)
}

func (r *paymentRepositoryImpl) GetByStatus(ctx context.Context, status model.PaymentStatus) ([]*model.Payment, error) {
	return r.newestWhere(ctx, "?TableAlias.status = ?", status)
}

func (r *paymentRepositoryImpl) GetByTransactionID(ctx context.Context, transactionID string) (*model.Payment, error) {
	return r.findOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.transaction_id = ?", transactionID)
	})
}

// GetTotalByUserID sums the completed payments of the user.
func (r *paymentRepositoryImpl) GetTotalByUserID(ctx context.Context, userID int64) (float64, error) {
	q, err := r.selectQuery(ctx, (*model.Payment)(nil))
	if err != nil {
		return 0, err
	}
	var total sql.NullFloat64
	err = q.ColumnExpr("SUM(?TableAlias.amount)").
		Where("?TableAlias.user_id = ?", userID).
		Where("?TableAlias.status = ?", model.PaymentCompleted).
		Scan(ctx, &total)
	if err != nil {
		return 0, translate(err)
	}
	return total.Float64, nil
}

// GetByDateRange lists payments created within [start, end], newest first.
func (r *paymentRepositoryImpl) GetByDateRange(ctx context.Context, start, end time.Time) ([]*model.Payment, error) {
	return r.find(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		q = q.Where("?TableAlias.created_at >= ?", start.UTC()).
			Where("?TableAlias.created_at <= ?", end.UTC())
		return newestFirst(q)
	})
}
