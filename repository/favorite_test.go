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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/estate/model"
)

func TestFavoriteToggle(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	clk := newClock()
	s := newTestSession(t, db, clk)
	user := seedUser(t, s, "fan@example.com")
	props := seedProperties(t, s, clk, nil, listing{city: "A", typ: model.PropertyHouse, price: 1, published: true})
	favorites := NewFavoriteRepository(s)

	for i, want := range []ToggleResult{FavoriteAdded, FavoriteRemoved, FavoriteAdded} {
		got, err := favorites.Toggle(ctx, user.ID, props[0].ID)
		require.NoError(t, err)
		assert.Equal(t, want, got, "toggle %d", i+1)
		_, err = s.SaveChanges(ctx)
		require.NoError(t, err)

		visible, err := favorites.CountWhere(ctx, nil)
		require.NoError(t, err)
		assert.LessOrEqual(t, visible, 1)
	}

	ok, err := favorites.IsFavorite(ctx, user.ID, props[0].ID)
	require.NoError(t, err)
	assert.True(t, ok)

	rows, err := db.NewSelect().Model((*model.Favorite)(nil)).
		Where("user_id = ?", user.ID).
		Where("property_id = ?", props[0].ID).
		Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, rows, "the pair keeps a single row across toggles")
}

func TestFavoriteToggleWithinOneUnit(t *testing.T) {
	ctx := context.Background()
	clk := newClock()
	s := newTestSession(t, newTestDB(t), clk)
	user := seedUser(t, s, "fan@example.com")
	props := seedProperties(t, s, clk, nil, listing{city: "A", typ: model.PropertyHouse, price: 1, published: true})
	favorites := NewFavoriteRepository(s)

	got, err := favorites.Toggle(ctx, user.ID, props[0].ID)
	require.NoError(t, err)
	assert.Equal(t, FavoriteAdded, got)
	got, err = favorites.Toggle(ctx, user.ID, props[0].ID)
	require.NoError(t, err)
	assert.Equal(t, FavoriteRemoved, got, "the staged insert is visible to the second toggle")
	_, err = s.SaveChanges(ctx)
	require.NoError(t, err)

	ok, err := favorites.IsFavorite(ctx, user.ID, props[0].ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFavoritePairIsUnique(t *testing.T) {
	ctx := context.Background()
	clk := newClock()
	s := newTestSession(t, newTestDB(t), clk)
	user := seedUser(t, s, "fan@example.com")
	props := seedProperties(t, s, clk, nil, listing{city: "A", typ: model.PropertyHouse, price: 1, published: true})
	favorites := NewFavoriteRepository(s)

	require.NoError(t, favorites.AddMany(ctx,
		&model.Favorite{UserID: user.ID, PropertyID: props[0].ID},
		&model.Favorite{UserID: user.ID, PropertyID: props[0].ID},
	))
	_, err := s.SaveChanges(ctx)
	assert.ErrorIs(t, err, ErrConstraintViolation)

	require.NoError(t, favorites.Add(ctx, &model.Favorite{UserID: user.ID, PropertyID: 4242}))
	_, err = s.SaveChanges(ctx)
	assert.ErrorIs(t, err, ErrConstraintViolation, "favorites reference existing properties")
}

func TestFavoriteProperties(t *testing.T) {
	ctx := context.Background()
	clk := newClock()
	s := newTestSession(t, newTestDB(t), clk)
	user := seedUser(t, s, "fan@example.com")
	props := seedProperties(t, s, clk, nil,
		listing{city: "A", typ: model.PropertyHouse, price: 1, published: true},
		listing{city: "B", typ: model.PropertyHouse, price: 2, published: true},
		listing{city: "C", typ: model.PropertyHouse, price: 3, published: true},
	)
	pid := props[0].ID
	require.NoError(t, NewPropertyImageRepository(s).Add(ctx, &model.PropertyImage{ImageURL: "/a.jpg", PropertyID: &pid}))
	favorites := NewFavoriteRepository(s)
	for _, p := range []*model.Property{props[0], props[2]} {
		clk.Advance(time.Minute)
		_, err := favorites.Toggle(ctx, user.ID, p.ID)
		require.NoError(t, err)
		_, err = s.SaveChanges(ctx)
		require.NoError(t, err)
	}

	saved, err := favorites.GetFavoriteProperties(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{props[0].ID, props[2].ID}, ids(saved))
	assert.Len(t, saved[0].Images, 1)

	list, err := favorites.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, props[2].ID, list[0].PropertyID, "newest first")

	// removing the property hides it from the favorites list
	require.NoError(t, NewPropertyRepository(s).Delete(ctx, props[2]))
	_, err = s.SaveChanges(ctx)
	require.NoError(t, err)
	saved, err = favorites.GetFavoriteProperties(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{props[0].ID}, ids(saved))
}
