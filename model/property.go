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
	"strings"

	"github.com/uptrace/bun"
)

type Property struct {
	bun.BaseModel `bun:"table:properties,alias:p"`
	Record

	Title        string         `bun:"title,type:varchar(200),notnull" json:"title"`
	Description  string         `bun:"description,type:varchar(5000),notnull" json:"description"`
	Type         PropertyType   `bun:"type,notnull" json:"type"`
	Status       PropertyStatus `bun:"status,notnull" json:"status"`
	Price        float64        `bun:"price,notnull" json:"price"`
	Currency     string         `bun:"currency,type:varchar(3),notnull" json:"currency"`
	Area         float64        `bun:"area,notnull" json:"area"`
	Bedrooms     int            `bun:"bedrooms,notnull" json:"bedrooms"`
	Bathrooms    int            `bun:"bathrooms,notnull" json:"bathrooms"`
	LivingRooms  int            `bun:"living_rooms,notnull" json:"living_rooms"`
	Floor        *int           `bun:"floor" json:"floor,omitempty"`
	TotalFloor   *int           `bun:"total_floor" json:"total_floor,omitempty"`
	BuildYear    *int           `bun:"build_year" json:"build_year,omitempty"`
	HasBalcony   bool           `bun:"has_balcony,notnull" json:"has_balcony"`
	HasElevator  bool           `bun:"has_elevator,notnull" json:"has_elevator"`
	HasParking   bool           `bun:"has_parking,notnull" json:"has_parking"`
	IsFurnished  bool           `bun:"is_furnished,notnull" json:"is_furnished"`
	Country      string         `bun:"country,type:varchar(100),notnull" json:"country"`
	City         string         `bun:"city,type:varchar(100),notnull" json:"city"`
	District     string         `bun:"district,type:varchar(100),notnull" json:"district"`
	Neighborhood *string        `bun:"neighborhood" json:"neighborhood,omitempty"`
	Address      string         `bun:"address,type:varchar(500),notnull" json:"address"`
	PostalCode   *string        `bun:"postal_code" json:"postal_code,omitempty"`
	Latitude     *float64       `bun:"latitude" json:"latitude,omitempty"`
	Longitude    *float64       `bun:"longitude" json:"longitude,omitempty"`
	ViewCount    int            `bun:"view_count,notnull" json:"view_count"`
	IsFeatured   bool           `bun:"is_featured,notnull" json:"is_featured"`
	IsPublished  bool           `bun:"is_published,notnull" json:"is_published"`
	VideoURL     *string        `bun:"video_url" json:"video_url,omitempty"`
	UserID       *int64         `bun:"user_id" json:"user_id,omitempty"`

	Images []*PropertyImage `bun:"rel:has-many,join:id=property_id" json:"images,omitempty"`
}

// FullLocation joins neighborhood, district and city, skipping empty parts.
func (p *Property) FullLocation() string {
	parts := make([]string, 0, 3)
	if p.Neighborhood != nil && strings.TrimSpace(*p.Neighborhood) != "" {
		parts = append(parts, strings.TrimSpace(*p.Neighborhood))
	}
	for _, s := range []string{p.District, p.City} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// PricePerSquareMeter is zero when the area is unknown.
func (p *Property) PricePerSquareMeter() float64 {
	if p.Area <= 0 {
		return 0
	}
	return p.Price / p.Area
}

// CoverImage returns the loaded image flagged as cover, falling back to the
// first by display order.
func (p *Property) CoverImage() *PropertyImage {
	for _, img := range p.Images {
		if img.IsCover {
			return img
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return nil
}

func (p *Property) ApplyDefaults() {
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}
}
