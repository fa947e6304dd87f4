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
	"time"

	"github.com/tomoncle/estate/model"
	"github.com/tomoncle/estate/types"
)

// Entity is satisfied by pointers to the model structs embedding model.Record.
type Entity[T any] interface {
	*T
	Base() *model.Record
}

// ReadRepository lists visible rows. Absence is reported with a nil record
// or an empty slice, never with an error.
type ReadRepository[T any] interface {
	GetAll(ctx context.Context) ([]*T, error)
	GetByID(ctx context.Context, id int64) (*T, error)
	GetMany(ctx context.Context, filter *types.QueryFilter) ([]*T, error)
	GetFirst(ctx context.Context, filter *types.QueryFilter) (*T, error)
	Exists(ctx context.Context, filter *types.QueryFilter) (bool, error)
	Count(ctx context.Context) (int, error)
	CountWhere(ctx context.Context, filter *types.QueryFilter) (int, error)
}

// WriteRepository stages changes applied by the session at flush time.
type WriteRepository[T any] interface {
	Add(ctx context.Context, entity *T) error
	AddMany(ctx context.Context, entities ...*T) error
	Update(ctx context.Context, entity *T) error
	Delete(ctx context.Context, entity *T) error
	DeleteByID(ctx context.Context, id int64) error
	DeleteMany(ctx context.Context, entities ...*T) error
}

// PageQueryRepository defines pagination over the visible rows.
type PageQueryRepository[T any] interface {
	GetPaged(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error)
}

// Repository is the generic per-entity repository bound to one session.
type Repository[T any] interface {
	ReadRepository[T]
	WriteRepository[T]
	PageQueryRepository[T]
}

// ListingFilter narrows the published listing search. Zero values disable a
// criterion; prices are inclusive bounds.
type ListingFilter struct {
	City     string
	Type     model.PropertyType
	Status   model.PropertyStatus
	MinPrice *float64
	MaxPrice *float64
}

type UserRepository interface {
	Repository[model.User]
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByEmailVerificationToken(ctx context.Context, token string) (*model.User, error)
	GetByPasswordResetToken(ctx context.Context, token string) (*model.User, error)
	IsEmailExists(ctx context.Context, email string) (bool, error)
	GetByRole(ctx context.Context, role model.UserRole) ([]*model.User, error)
	GetUnverified(ctx context.Context) ([]*model.User, error)
}

type PropertyRepository interface {
	Repository[model.Property]
	GetWithImages(ctx context.Context, id int64) (*model.Property, error)
	GetPublished(ctx context.Context, filter ListingFilter, page, size int) (*types.Pagination[model.Property], error)
	GetFeatured(ctx context.Context, count int) ([]*model.Property, error)
	GetMostViewed(ctx context.Context, count int) ([]*model.Property, error)
	GetLatest(ctx context.Context, count int) ([]*model.Property, error)
	GetSimilar(ctx context.Context, id int64, count int) ([]*model.Property, error)
	GetByUserID(ctx context.Context, userID int64) ([]*model.Property, error)
	GetByCity(ctx context.Context, city string) ([]*model.Property, error)
	GetByTypeAndStatus(ctx context.Context, typ model.PropertyType, status model.PropertyStatus) ([]*model.Property, error)
	GetByPriceRange(ctx context.Context, minPrice, maxPrice float64, city string) ([]*model.Property, error)
	IncrementViewCount(ctx context.Context, id int64) error
}

type PropertyImageRepository interface {
	Repository[model.PropertyImage]
	GetByPropertyID(ctx context.Context, propertyID int64) ([]*model.PropertyImage, error)
	GetCover(ctx context.Context, propertyID int64) (*model.PropertyImage, error)
	DeleteByPropertyID(ctx context.Context, propertyID int64) error
}

// ToggleResult reports what FavoriteRepository.Toggle did.
type ToggleResult int

const (
	FavoriteAdded ToggleResult = iota + 1
	FavoriteRemoved
)

func (r ToggleResult) String() string {
	switch r {
	case FavoriteAdded:
		return "added"
	case FavoriteRemoved:
		return "removed"
	}
	return "unknown"
}

type FavoriteRepository interface {
	Repository[model.Favorite]
	Toggle(ctx context.Context, userID, propertyID int64) (ToggleResult, error)
	GetByUserID(ctx context.Context, userID int64) ([]*model.Favorite, error)
	IsFavorite(ctx context.Context, userID, propertyID int64) (bool, error)
	GetFavoriteProperties(ctx context.Context, userID int64) ([]*model.Property, error)
}

type PaymentRepository interface {
	Repository[model.Payment]
	GetByUserID(ctx context.Context, userID int64) ([]*model.Payment, error)
	GetByPropertyID(ctx context.Context, propertyID int64) ([]*model.Payment, error)
	GetByStatus(ctx context.Context, status model.PaymentStatus) ([]*model.Payment, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*model.Payment, error)
	GetTotalByUserID(ctx context.Context, userID int64) (float64, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*model.Payment, error)
}

type ContactMessageRepository interface {
	Repository[model.ContactMessage]
	GetUnread(ctx context.Context) ([]*model.ContactMessage, error)
	GetUnreplied(ctx context.Context) ([]*model.ContactMessage, error)
	GetByUserID(ctx context.Context, userID int64) ([]*model.ContactMessage, error)
	GetByPropertyID(ctx context.Context, propertyID int64) ([]*model.ContactMessage, error)
	MarkAsRead(ctx context.Context, id int64) error
	Reply(ctx context.Context, id int64, reply string, byUserID int64) error
}
