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
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/estate/model"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func TestSessionReadsItsOwnStagedWrites(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	s := newTestSession(t, db, nil)
	users := NewUserRepository(s)

	u := newUser("staged@example.com")
	require.NoError(t, users.Add(ctx, u))
	assert.Equal(t, 1, s.Pending())

	got, err := users.GetByEmail(ctx, "staged@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
	assert.Zero(t, s.Pending())

	other := newTestSession(t, db, nil)
	seen, err := NewUserRepository(other).GetByEmail(ctx, "staged@example.com")
	require.NoError(t, err)
	assert.Nil(t, seen, "uncommitted rows must stay private to the session")
	require.NoError(t, other.Close())

	n, err := s.SaveChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	after := newTestSession(t, db, nil)
	seen, err = NewUserRepository(after).GetByEmail(ctx, "staged@example.com")
	require.NoError(t, err)
	assert.NotNil(t, seen)
}

func TestSessionTransactionStates(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, newTestDB(t), nil)

	assert.ErrorIs(t, s.Commit(ctx), ErrInvalidState)
	assert.NoError(t, s.Rollback(ctx), "rollback without a transaction is a no-op")

	require.NoError(t, s.Begin(ctx))
	assert.True(t, s.InTransaction())
	assert.ErrorIs(t, s.Begin(ctx), ErrInvalidState)
	require.NoError(t, s.Commit(ctx))
	assert.False(t, s.InTransaction())

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.True(t, s.Closed())

	_, err := s.SaveChanges(ctx)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.ErrorIs(t, s.Begin(ctx), ErrInvalidState)
	assert.ErrorIs(t, s.Rollback(ctx), ErrInvalidState)
	assert.ErrorIs(t, NewUserRepository(s).Add(ctx, newUser("late@example.com")), ErrInvalidState)
	_, err = NewUserRepository(s).GetAll(ctx)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestSessionRollbackDiscardsSavedChanges(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	s := newTestSession(t, db, nil)
	users := NewUserRepository(s)

	require.NoError(t, s.Begin(ctx))
	require.NoError(t, users.Add(ctx, newUser("first@example.com")))
	n, err := s.SaveChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.True(t, s.InTransaction(), "saving inside a transaction keeps it open")

	require.NoError(t, users.Add(ctx, newUser("second@example.com")))
	require.NoError(t, s.Rollback(ctx))
	assert.False(t, s.InTransaction())
	assert.Zero(t, s.Pending())

	count, err := NewUserRepository(newTestSession(t, db, nil)).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSessionCommitPersistsTransaction(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	s := newTestSession(t, db, nil)
	users := NewUserRepository(s)

	require.NoError(t, s.Begin(ctx))
	require.NoError(t, users.AddMany(ctx, newUser("a@example.com"), newUser("b@example.com")))
	require.NoError(t, s.Commit(ctx))

	count, err := NewUserRepository(newTestSession(t, db, nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSessionFailedSaveLeavesNothing(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	s := newTestSession(t, db, nil)
	users := NewUserRepository(s)
	seedUser(t, s, "taken@example.com")

	require.NoError(t, users.Add(ctx, newUser("fresh@example.com")))
	require.NoError(t, users.Add(ctx, newUser("TAKEN@example.com")))
	_, err := s.SaveChanges(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConstraintViolation)
	assert.Equal(t, "constraint_violation", ErrorKind(err))
	assert.Zero(t, s.Pending())

	exists, err := users.IsEmailExists(ctx, "fresh@example.com")
	require.NoError(t, err)
	assert.False(t, exists, "a failed save must not persist any part of the batch")

	// the session stays usable
	seedUser(t, s, "later@example.com")
	count, err := users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSessionFailedCommitRollsBackTransaction(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	s := newTestSession(t, db, nil)
	users := NewUserRepository(s)
	seedUser(t, s, "taken@example.com")

	require.NoError(t, s.Begin(ctx))
	require.NoError(t, users.Add(ctx, newUser("inside@example.com")))
	_, err := s.SaveChanges(ctx)
	require.NoError(t, err)
	require.NoError(t, users.Add(ctx, newUser("taken@EXAMPLE.com")))

	err = s.Commit(ctx)
	assert.ErrorIs(t, err, ErrConstraintViolation)
	assert.False(t, s.InTransaction())

	exists, err := NewUserRepository(newTestSession(t, db, nil)).IsEmailExists(ctx, "inside@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSessionFailedFlushKeepsTransactionFailed(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	s := newTestSession(t, db, nil)
	users := NewUserRepository(s)
	seedUser(t, s, "taken@example.com")

	require.NoError(t, s.Begin(ctx))
	require.NoError(t, users.Add(ctx, newUser("inside@example.com")))
	_, err := s.SaveChanges(ctx)
	require.NoError(t, err)
	require.NoError(t, users.Add(ctx, newUser("Taken@example.com")))

	// a read flushes the duplicate and aborts the transaction
	_, err = users.Count(ctx)
	assert.ErrorIs(t, err, ErrConstraintViolation)
	assert.True(t, s.InTransaction())
	assert.ErrorIs(t, s.Failed(), ErrConstraintViolation)

	assert.ErrorIs(t, users.Add(ctx, newUser("later@example.com")), ErrInvalidState)
	_, err = s.SaveChanges(ctx)
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = users.GetAll(ctx)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.ErrorIs(t, s.Begin(ctx), ErrInvalidState)

	require.NoError(t, s.Rollback(ctx))
	assert.False(t, s.InTransaction())
	assert.NoError(t, s.Failed())

	other := newTestSession(t, db, nil)
	for _, email := range []string{"inside@example.com", "later@example.com"} {
		exists, err := NewUserRepository(other).IsEmailExists(ctx, email)
		require.NoError(t, err)
		assert.False(t, exists, email)
	}
	require.NoError(t, other.Close())

	// usable again once rolled back
	seedUser(t, s, "after@example.com")
	count, err := users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSessionCommitReportsFailedTransaction(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	s := newTestSession(t, db, nil)
	users := NewUserRepository(s)
	seedUser(t, s, "taken@example.com")

	require.NoError(t, s.Begin(ctx))
	require.NoError(t, users.AddMany(ctx, newUser("inside@example.com"), newUser("TAKEN@example.com")))
	_, err := s.SaveChanges(ctx)
	require.ErrorIs(t, err, ErrConstraintViolation)
	assert.True(t, s.InTransaction())

	err = s.Commit(ctx)
	assert.ErrorIs(t, err, ErrConstraintViolation)
	assert.False(t, s.InTransaction())
	assert.NoError(t, s.Rollback(ctx))

	exists, err := NewUserRepository(newTestSession(t, db, nil)).IsEmailExists(ctx, "inside@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSessionTranslatesConnectivityFailures(t *testing.T) {
	ctx := context.Background()
	sqldb, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = sqldb.Close() }()
	db := bun.NewDB(sqldb, sqlitedialect.New())

	mock.ExpectBegin().WillReturnError(errors.New("dial tcp 10.0.0.1:5432: connect: connection refused"))

	s, err := NewSession(ctx, db)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	require.NoError(t, NewUserRepository(s).Add(ctx, newUser("offline@example.com")))
	_, err = s.SaveChanges(ctx)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Equal(t, "store_unavailable", ErrorKind(err))
	assert.Zero(t, s.Pending())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionStagesRawStatements(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	s := newTestSession(t, db, nil)
	u := seedUser(t, s, "verify@example.com")

	require.NoError(t, s.StageExec(func(ctx context.Context, db bun.IDB, _ time.Time) (sql.Result, error) {
		return db.NewUpdate().
			Model((*model.User)(nil)).
			Set("is_email_verified = ?", true).
			Where("id = ?", u.ID).
			Exec(ctx)
	}))
	n, err := s.SaveChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := NewUserRepository(s).GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.IsEmailVerified)
}
