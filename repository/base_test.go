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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/estate/model"
	"github.com/tomoncle/estate/types"
)

func TestLogicalDeleteHidesRows(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	s := newTestSession(t, db, nil)
	users := NewUserRepository(s)

	require.NoError(t, users.AddMany(ctx,
		newUser("keep@example.com"), newUser("drop@example.com"), newUser("also@example.com")))
	_, err := s.SaveChanges(ctx)
	require.NoError(t, err)

	dropped, err := users.GetByEmail(ctx, "drop@example.com")
	require.NoError(t, err)
	require.NoError(t, users.DeleteByID(ctx, dropped.ID))
	require.NoError(t, users.DeleteByID(ctx, 4242), "deleting a missing id is a no-op")
	n, err := s.SaveChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := users.GetByID(ctx, dropped.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	all, err := users.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	count, err := users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// the row itself survives with the deletion marker set
	raw := new(model.User)
	require.NoError(t, db.NewSelect().Model(raw).Where("id = ?", dropped.ID).Scan(ctx))
	assert.True(t, raw.IsDeleted)
	assert.NotNil(t, raw.DeletedAt)
}

func TestAuditTimestamps(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	clk := newClock()
	s := newTestSession(t, db, clk)
	users := NewUserRepository(s)

	created := clk.Now()
	u := seedUser(t, s, "audit@example.com")
	assert.True(t, u.CreatedAt.Equal(created))
	assert.True(t, u.UpdatedAt.Equal(created))
	assert.Equal(t, model.RoleUser, u.Role)

	updated := clk.Advance(time.Hour)
	u.FirstName = "Changed"
	u.CreatedAt = updated // never written by an update
	require.NoError(t, users.Update(ctx, u))
	_, err := s.SaveChanges(ctx)
	require.NoError(t, err)

	got, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Changed", got.FirstName)
	assert.True(t, got.CreatedAt.Equal(created), "created_at is set once: %v", got.CreatedAt)
	assert.True(t, got.UpdatedAt.Equal(updated), "updated_at follows the last save: %v", got.UpdatedAt)
	assert.False(t, got.IsDeleted)
	assert.Nil(t, got.DeletedAt)

	deleted := clk.Advance(time.Hour)
	require.NoError(t, users.Delete(ctx, got))
	_, err = s.SaveChanges(ctx)
	require.NoError(t, err)

	raw := new(model.User)
	require.NoError(t, db.NewSelect().Model(raw).Where("id = ?", u.ID).Scan(ctx))
	require.NotNil(t, raw.DeletedAt)
	assert.True(t, raw.DeletedAt.Equal(deleted))
	assert.True(t, raw.UpdatedAt.Equal(deleted))
	assert.True(t, raw.CreatedAt.Equal(created))
}

func TestUpdateIgnoresDeletedRows(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, newTestDB(t), nil)
	users := NewUserRepository(s)
	u := seedUser(t, s, "gone@example.com")

	require.NoError(t, users.Delete(ctx, u))
	_, err := s.SaveChanges(ctx)
	require.NoError(t, err)

	u.FirstName = "Ghost"
	require.NoError(t, users.Update(ctx, u))
	n, err := s.SaveChanges(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestGetPagedWindows(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, newTestDB(t), nil)
	users := NewUserRepository(s)
	for i := 1; i <= 25; i++ {
		require.NoError(t, users.Add(ctx, newUser(fmt.Sprintf("user%02d@example.com", i))))
	}
	_, err := s.SaveChanges(ctx)
	require.NoError(t, err)

	cases := []struct {
		page, size, items int
	}{
		{1, 10, 10},
		{3, 10, 5},
		{4, 10, 0},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("page-%d", tc.page), func(t *testing.T) {
			page, err := users.GetPaged(ctx, types.NewDefaultPageRequest(tc.page, tc.size))
			require.NoError(t, err)
			assert.Equal(t, 25, page.Total)
			assert.Len(t, page.Items, tc.items)
			assert.Equal(t, 3, page.TotalPages())
		})
	}

	first, err := users.GetPaged(ctx, types.NewDefaultPageRequest(1, 10))
	require.NoError(t, err)
	second, err := users.GetPaged(ctx, types.NewDefaultPageRequest(2, 10))
	require.NoError(t, err)
	assert.Less(t, first.Items[9].ID, second.Items[0].ID, "default order is ascending id")
}

func TestGetPagedFilterAndOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, newTestDB(t), nil)
	users := NewUserRepository(s)
	for i := 1; i <= 6; i++ {
		u := newUser(fmt.Sprintf("agent%d@example.com", i))
		if i%2 == 0 {
			u.Role = model.RoleAgent
		}
		require.NoError(t, users.Add(ctx, u))
	}
	_, err := s.SaveChanges(ctx)
	require.NoError(t, err)

	agents := types.NewQueryFilter("role = ?", model.RoleAgent)
	page, err := users.GetPaged(ctx, types.NewPageRequest(1, 2, agents, []string{"id DESC"}))
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Items, 2)
	assert.Greater(t, page.Items[0].ID, page.Items[1].ID)
	for _, u := range page.Items {
		assert.True(t, u.IsAgent())
	}

	n, err := users.CountWhere(ctx, agents)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	ok, err := users.Exists(ctx, agents.And(types.NewQueryFilter("email = ?", "agent2@example.com")))
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = users.Exists(ctx, agents.And(types.NewQueryFilter("email = ?", "agent1@example.com")))
	require.NoError(t, err)
	assert.False(t, ok)

	firstAgent, err := users.GetFirst(ctx, agents)
	require.NoError(t, err)
	require.NotNil(t, firstAgent)
	assert.Equal(t, "agent2@example.com", firstAgent.Email)

	many, err := users.GetMany(ctx, agents)
	require.NoError(t, err)
	assert.Len(t, many, 3)
}

func TestAddIgnoresCallerIdentity(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, newTestDB(t), nil)
	payments := NewPaymentRepository(s)

	p := &model.Payment{Amount: 10, PaymentMethod: "card", TransactionID: "tx-1", Type: model.PaymentPurchase}
	p.ID = 777
	require.NoError(t, payments.Add(ctx, p))
	_, err := s.SaveChanges(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, int64(777), p.ID)
	assert.Equal(t, model.DefaultCurrency, p.Currency)
	assert.Equal(t, model.PaymentPending, p.Status)
}

func TestGenericRepository(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, newTestDB(t), nil)
	msgs := NewRepository[model.ContactMessage](s)

	require.NoError(t, msgs.Add(ctx, &model.ContactMessage{Name: "Ada", Email: "ada@example.com", Subject: "Hi", Message: "Hello"}))
	_, err := s.SaveChanges(ctx)
	require.NoError(t, err)

	all, err := msgs.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.NoError(t, msgs.DeleteMany(ctx, all...))
	_, err = s.SaveChanges(ctx)
	require.NoError(t, err)

	n, err := msgs.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
