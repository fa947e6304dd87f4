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

package model

import (
	"time"

	"github.com/uptrace/bun"
)

type ContactMessage struct {
	bun.BaseModel `bun:"table:contact_messages,alias:cm"`
	Record

	UserID          *int64     `bun:"user_id" json:"user_id,omitempty"`
	PropertyID      *int64     `bun:"property_id" json:"property_id,omitempty"`
	Name            string     `bun:"name,type:varchar(100),notnull" json:"name"`
	Email           string     `bun:"email,type:varchar(255),notnull" json:"email"`
	PhoneNumber     *string    `bun:"phone_number" json:"phone_number,omitempty"`
	Subject         string     `bun:"subject,type:varchar(200),notnull" json:"subject"`
	Message         string     `bun:"message,type:varchar(2000),notnull" json:"message"`
	IsRead          bool       `bun:"is_read,notnull" json:"is_read"`
	ReadAt          *time.Time `bun:"read_at" json:"read_at,omitempty"`
	IsReplied       bool       `bun:"is_replied,notnull" json:"is_replied"`
	ReplyMessage    *string    `bun:"reply_message" json:"reply_message,omitempty"`
	RepliedAt       *time.Time `bun:"replied_at" json:"replied_at,omitempty"`
	RepliedByUserID *int64     `bun:"replied_by_user_id" json:"replied_by_user_id,omitempty"`
}
