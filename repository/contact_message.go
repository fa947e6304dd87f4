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

type contactMessageRepositoryImpl struct {
	*baseRepositoryImpl[model.ContactMessage, *model.ContactMessage]
}

func NewContactMessageRepository(s *Session) ContactMessageRepository {
	return &contactMessageRepositoryImpl{newBaseRepository[model.ContactMessage, *model.ContactMessage](s)}
}

func (r *contactMessageRepositoryImpl) newestWhere(ctx context.Context, query string, arg interface{}) ([]*model.ContactMessage, error) {
	return r.find(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return newestFirst(q.Where(query, arg))
	})
}

func (r *contactMessageRepositoryImpl) GetUnread(ctx context.Context) ([]*model.ContactMessage, error) {
	return r.newestWhere(ctx, "?TableAlias.is_read = ?", false)
}

func (r *contactMessageRepositoryImpl) GetUnreplied(ctx context.Context) ([]*model.ContactMessage, error) {
	return r.newestWhere(ctx, "?TableAlias.is_replied = ?", false)
}

func (r *contactMessageRepositoryImpl) GetByUserID(ctx context.Context, userID int64) ([]*model.ContactMessage, error) {
	return r.newestWhere(ctx, "?TableAlias.user_id = ?", userID)
}

func (r *contactMessageRepositoryImpl) GetByPropertyID(ctx context.Context, propertyID int64) ([]*model.ContactMessage, error) {
	return r.newestWhere(ctx, "?TableAlias.property_id = ?", propertyID)
}

// MarkAsRead stages the read flag for the message. A missing id is a no-op.
func (r *contactMessageRepositoryImpl) MarkAsRead(ctx context.Context, id int64) error {
	msg, err := r.GetByID(ctx, id)
	if err != nil || msg == nil {
		return err
	}
	now := r.session.timestamp()
	msg.IsRead = true
	msg.ReadAt = &now
	return r.Update(ctx, msg)
}

// Reply records the reply and who sent it. A missing id is a no-op.
func (r *contactMessageRepositoryImpl) Reply(ctx context.Context, id int64, reply string, byUserID int64) error {
	msg, err := r.GetByID(ctx, id)
	if err != nil || msg == nil {
		return err
	}
	now := r.session.timestamp()
	msg.IsReplied = true
	msg.ReplyMessage = &reply
	msg.RepliedAt = &now
	msg.RepliedByUserID = &byUserID
	return r.Update(ctx, msg)
}
