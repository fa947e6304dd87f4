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
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`
	Record

	FirstName                string     `bun:"first_name,type:varchar(100),notnull" json:"first_name"`
	LastName                 string     `bun:"last_name,type:varchar(100),notnull" json:"last_name"`
	Email                    string     `bun:"email,type:varchar(255),notnull" json:"email"`
	PasswordHash             string     `bun:"password_hash,notnull" json:"-"`
	PhoneNumber              *string    `bun:"phone_number,type:varchar(20)" json:"phone_number,omitempty"`
	ProfileImageURL          *string    `bun:"profile_image_url" json:"profile_image_url,omitempty"`
	Role                     UserRole   `bun:"role,notnull" json:"role"`
	IsEmailVerified          bool       `bun:"is_email_verified,notnull" json:"is_email_verified"`
	EmailVerificationToken   *string    `bun:"email_verification_token" json:"-"`
	PasswordResetToken       *string    `bun:"password_reset_token" json:"-"`
	PasswordResetTokenExpiry *time.Time `bun:"password_reset_token_expiry" json:"-"`
	LastLoginAt              *time.Time `bun:"last_login_at" json:"last_login_at,omitempty"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

func (u *User) IsAgent() bool { return u.Role == RoleAgent }

// ApplyDefaults assigns the User role to accounts created without one.
func (u *User) ApplyDefaults() {
	if u.Role == 0 {
		u.Role = RoleUser
	}
}
