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

// DefaultCurrency is assigned to prices and payments created without one.
const DefaultCurrency = "TRY"

type Payment struct {
	bun.BaseModel `bun:"table:payments,alias:pay"`
	Record

	UserID        *int64        `bun:"user_id" json:"user_id,omitempty"`
	PropertyID    *int64        `bun:"property_id" json:"property_id,omitempty"`
	Amount        float64       `bun:"amount,notnull" json:"amount"`
	Currency      string        `bun:"currency,type:varchar(3),notnull" json:"currency"`
	Type          PaymentType   `bun:"type,notnull" json:"type"`
	Status        PaymentStatus `bun:"status,notnull" json:"status"`
	PaymentMethod string        `bun:"payment_method,type:varchar(50),notnull" json:"payment_method"`
	TransactionID string        `bun:"transaction_id,notnull" json:"transaction_id"`
	Description   *string       `bun:"description" json:"description,omitempty"`
	PaidAt        *time.Time    `bun:"paid_at" json:"paid_at,omitempty"`
	ErrorMessage  *string       `bun:"error_message" json:"error_message,omitempty"`
}

func (p *Payment) ApplyDefaults() {
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}
	if p.Status == 0 {
		p.Status = PaymentPending
	}
}
