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

type PropertyImage struct {
	bun.BaseModel `bun:"table:property_images,alias:pi"`
	Record

	ImageURL     string  `bun:"image_url,type:varchar(500),notnull" json:"image_url"`
	AltText      *string `bun:"alt_text" json:"alt_text,omitempty"`
	DisplayOrder int     `bun:"display_order,notnull" json:"display_order"`
	IsCover      bool    `bun:"is_cover,notnull" json:"is_cover"`
	PropertyID   *int64  `bun:"property_id" json:"property_id,omitempty"`
}
