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

type userRepositoryImpl struct {
	*baseRepositoryImpl[model.User, *model.User]
}

func NewUserRepository(s *Session) UserRepository {
	return &userRepositoryImpl{newBaseRepository[model.User, *model.User](s)}
}

func emailIs(email string) QueryBuilder {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("LOWER(?TableAlias.email) = LOWER(?)", email)
	}
}

// GetByEmail matches the address case-insensitively.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, emailIs(email))
}

func (r *userRepositoryImpl) GetByEmailVerificationToken(ctx context.Context, token string) (*model.User, error) {
	return r.findOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.email_verification_token = ?", token)
	})
}

// GetByPasswordResetToken ignores tokens whose expiry has passed.
func (r *userRepositoryImpl) GetByPasswordResetToken(ctx context.Context, token string) (*model.User, error) {
	now := r.session.timestamp()
	return r.findOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.password_reset_token = ?", token).
			Where("?TableAlias.password_reset_token_expiry > ?", now)
	})
}

func (r *userRepositoryImpl) IsEmailExists(ctx context.Context, email string) (bool, error) {
	n, err := r.count(ctx, emailIs(email))
	return n > 0, err
}

func (r *userRepositoryImpl) GetByRole(ctx context.Context, role model.UserRole) ([]*model.User, error) {
	return r.find(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.role = ?", role).
			OrderExpr("?TableAlias.first_name ASC, ?TableAlias.id ASC")
	})
}

func (r *userRepositoryImpl) GetUnverified(ctx context.Context) ([]*model.User, error) {
	return r.find(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return newestFirst(q.Where("?TableAlias.is_email_verified = ?", false))
	})
}
