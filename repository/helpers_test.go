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
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tomoncle/estate/database"
	"github.com/tomoncle/estate/model"
	"github.com/uptrace/bun"
)

type clock struct {
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time { return c.now }

func (c *clock) Advance(d time.Duration) time.Time {
	c.now = c.now.Add(d)
	return c.now
}

// newTestDB opens a migrated SQLite store in a temporary directory.
func newTestDB(t *testing.T) *bun.DB {
	t.Helper()
	cfg := database.DefaultConfig()
	cfg.ConnectionConfig.DBName = filepath.Join(t.TempDir(), "estate")
	cfg.ConnectionConfig.HealthCheckInterval = 0
	cfg.ConnectionConfig.SlowQueryTime = 0

	manager, err := database.Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = manager.Disconnect() })
	return manager.GetDB()
}

func newTestSession(t *testing.T, db *bun.DB, clk *clock) *Session {
	t.Helper()
	opts := []SessionOption{}
	if clk != nil {
		opts = append(opts, WithClock(clk.Now))
	}
	s, err := NewSession(context.Background(), db, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newUser(email string) *model.User {
	return &model.User{
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		PasswordHash: "hash",
	}
}

func seedUser(t *testing.T, s *Session, email string) *model.User {
	t.Helper()
	ctx := context.Background()
	u := newUser(email)
	require.NoError(t, NewUserRepository(s).Add(ctx, u))
	_, err := s.SaveChanges(ctx)
	require.NoError(t, err)
	require.NotZero(t, u.ID)
	return u
}

type listing struct {
	city      string
	typ       model.PropertyType
	status    model.PropertyStatus
	price     float64
	published bool
	featured  bool
	views     int
}

func newProperty(owner *model.User, l listing) *model.Property {
	p := &model.Property{
		Title:       fmt.Sprintf("%s %s", l.city, l.typ.Name()),
		Description: "listing",
		Type:        l.typ,
		Status:      l.status,
		Price:       l.price,
		Area:        100,
		Country:     "TR",
		City:        l.city,
		District:    "Center",
		Address:     "Main St 1",
		IsPublished: l.published,
		IsFeatured:  l.featured,
		ViewCount:   l.views,
	}
	if p.Status == 0 {
		p.Status = model.StatusForSale
	}
	if owner != nil {
		p.UserID = &owner.ID
	}
	return p
}

// seedProperties saves each listing in its own flush, one minute apart.
func seedProperties(t *testing.T, s *Session, clk *clock, owner *model.User, listings ...listing) []*model.Property {
	t.Helper()
	ctx := context.Background()
	repo := NewPropertyRepository(s)
	out := make([]*model.Property, 0, len(listings))
	for _, l := range listings {
		clk.Advance(time.Minute)
		p := newProperty(owner, l)
		require.NoError(t, repo.Add(ctx, p))
		_, err := s.SaveChanges(ctx)
		require.NoError(t, err)
		out = append(out, p)
	}
	return out
}

func ids[T any, P Entity[T]](items []*T) []int64 {
	out := make([]int64, 0, len(items))
	for _, item := range items {
		out = append(out, P(item).Base().ID)
	}
	return out
}
