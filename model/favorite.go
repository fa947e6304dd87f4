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

import "github.com/uptrace/bun"

// Favorite marks a property saved by a user. A pair has at most one row;
// removing a favorite soft deletes it and saving it again revives the row.
type Favorite struct {
	bun.BaseModel `bun:"table:favorites,alias:f"`
	Record

	UserID     int64   `bun:"user_id,notnull" json:"user_id"`
	PropertyID int64   `bun:"property_id,notnull" json:"property_id"`
	Note       *string `bun:"note" json:"note,omitempty"`
}
