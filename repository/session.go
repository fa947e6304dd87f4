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
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/tomoncle/estate/database"
	"github.com/tomoncle/estate/model"
	"github.com/uptrace/bun"
)

type changeKind int

const (
	changeInsert changeKind = iota
	changeUpdate
	changeDelete
	changeRestore
	changeExec
)

func (k changeKind) String() string {
	switch k {
	case changeInsert:
		return "insert"
	case changeUpdate:
		return "update"
	case changeDelete:
		return "delete"
	case changeRestore:
		return "restore"
	default:
		return "exec"
	}
}

// ExecFunc is a staged statement applied at flush time.
type ExecFunc func(ctx context.Context, db bun.IDB, now time.Time) (sql.Result, error)

type change struct {
	kind  changeKind
	model interface{}
	base  *model.Record
	exec  ExecFunc
}

// columns never written by a regular update
var protectedColumns = map[string]bool{
	"created_at": true,
	"is_deleted": true,
	"deleted_at": true,
}

var updateColumnsCache sync.Map // reflect.Type -> []string

// SessionOption customizes a Session.
type SessionOption func(*Session)

// WithClock replaces the time source used to stamp audit columns.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger used for flush and transaction events.
func WithLogger(logger database.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Session pins one pooled connection and stages inserts, updates, logical
// deletes and statements until they are flushed. Flushing opens a working
// transaction on the connection lazily, so reads made through the session
// observe its own staged writes while other connections do not see them
// until commit. A Session is not safe for concurrent use.
type Session struct {
	db     *bun.DB
	conn   bun.Conn
	tx     *bun.Tx
	logger database.Logger
	now    func() time.Time

	pending  []change
	affected int64
	explicit bool
	closed   bool
	// failed holds the error that rolled back the explicit transaction;
	// the transaction stays nominally open until Rollback or Commit.
	failed error
}

// NewSession acquires a dedicated connection from db.
func NewSession(ctx context.Context, db *bun.DB, opts ...SessionOption) (*Session, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, translate(fmt.Errorf("failed to acquire connection: %w", err))
	}
	s := &Session{
		db:     db,
		conn:   conn,
		logger: database.NopLogger{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// DB returns the database the session was opened on.
func (s *Session) DB() *bun.DB { return s.db }

// InTransaction reports whether an explicit transaction is open.
func (s *Session) InTransaction() bool { return s.explicit }

// Closed reports whether Close was called.
func (s *Session) Closed() bool { return s.closed }

// Failed returns the error that aborted the explicit transaction, if any.
func (s *Session) Failed() error { return s.failed }

// Pending returns the number of staged, unflushed changes.
func (s *Session) Pending() int { return len(s.pending) }

func (s *Session) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func (s *Session) handle() bun.IDB {
	if s.tx != nil {
		return *s.tx
	}
	return s.conn
}

// usable rejects work on a closed session or inside an aborted transaction.
func (s *Session) usable() error {
	if s.closed {
		return ErrInvalidState
	}
	if s.failed != nil {
		return fmt.Errorf("%w: transaction aborted: %v", ErrInvalidState, s.failed)
	}
	return nil
}

func (s *Session) stage(c change) error {
	if err := s.usable(); err != nil {
		return err
	}
	s.pending = append(s.pending, c)
	return nil
}

// StageExec stages a raw statement applied in order with the other changes.
func (s *Session) StageExec(fn ExecFunc) error {
	return s.stage(change{kind: changeExec, exec: fn})
}

// Reader flushes staged changes and returns the handle reads must use.
func (s *Session) Reader(ctx context.Context) (bun.IDB, error) {
	if err := s.usable(); err != nil {
		return nil, err
	}
	if err := s.flushOrAbort(ctx); err != nil {
		return nil, err
	}
	return s.handle(), nil
}

func (s *Session) ensureTx(ctx context.Context) error {
	if s.tx != nil {
		return nil
	}
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return translate(fmt.Errorf("failed to begin transaction: %w", err))
	}
	s.tx = &tx
	return nil
}

// flushOrAbort applies every staged change inside the working transaction.
// On failure the working transaction is rolled back and staged changes are
// discarded. Outside an explicit transaction the session is idle again;
// inside one it is left failed until Rollback or Commit.
func (s *Session) flushOrAbort(ctx context.Context) error {
	if len(s.pending) == 0 {
		return nil
	}
	if err := s.ensureTx(ctx); err != nil {
		s.fail(err)
		return err
	}
	now := s.timestamp()
	for len(s.pending) > 0 {
		c := s.pending[0]
		n, err := s.apply(ctx, c, now)
		if err != nil {
			s.logger.Warn("Flush failed, rolling back", "kind", c.kind.String(), "error", err)
			err = translate(fmt.Errorf("failed to flush %s: %w", c.kind, err))
			s.fail(err)
			return err
		}
		s.affected += n
		s.pending = s.pending[1:]
	}
	s.pending = nil
	return nil
}

func (s *Session) apply(ctx context.Context, c change, now time.Time) (int64, error) {
	db := *s.tx
	var (
		res sql.Result
		err error
	)
	switch c.kind {
	case changeInsert:
		c.base.CreatedAt = now
		c.base.UpdatedAt = now
		c.base.IsDeleted = false
		c.base.DeletedAt = nil
		res, err = db.NewInsert().Model(c.model).Exec(ctx)
	case changeUpdate:
		c.base.UpdatedAt = now
		res, err = db.NewUpdate().
			Model(c.model).
			Column(s.updateColumns(c.model)...).
			WherePK().
			Where("is_deleted = ?", false).
			Exec(ctx)
	case changeDelete:
		c.base.IsDeleted = true
		c.base.DeletedAt = &now
		c.base.UpdatedAt = now
		res, err = db.NewUpdate().
			Model(c.model).
			Column("is_deleted", "deleted_at", "updated_at").
			WherePK().
			Where("is_deleted = ?", false).
			Exec(ctx)
	case changeRestore:
		c.base.IsDeleted = false
		c.base.DeletedAt = nil
		c.base.UpdatedAt = now
		cols := append(s.updateColumns(c.model), "is_deleted", "deleted_at")
		res, err = db.NewUpdate().
			Model(c.model).
			Column(cols...).
			WherePK().
			Exec(ctx)
	case changeExec:
		res, err = c.exec(ctx, db, now)
	}
	if err != nil {
		return 0, err
	}
	if res == nil {
		return 0, nil
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// updateColumns lists the data columns of the model's table minus the
// audit columns an update must never write.
func (s *Session) updateColumns(m interface{}) []string {
	typ := reflect.TypeOf(m)
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if cols, ok := updateColumnsCache.Load(typ); ok {
		return append([]string(nil), cols.([]string)...)
	}
	table := s.db.Table(typ)
	cols := make([]string, 0, len(table.DataFields))
	for _, f := range table.DataFields {
		if !protectedColumns[f.Name] {
			cols = append(cols, f.Name)
		}
	}
	updateColumnsCache.Store(typ, cols)
	return append([]string(nil), cols...)
}

// fail rolls back after a flush error, keeping an explicit transaction open
// in the failed state.
func (s *Session) fail(err error) {
	explicit := s.explicit
	s.abort()
	if explicit {
		s.explicit = true
		s.failed = err
	}
}

func (s *Session) abort() {
	if s.tx != nil {
		if err := s.tx.Rollback(); err != nil {
			s.logger.Error("Failed to rollback transaction", "error", err)
		}
	}
	s.tx = nil
	s.explicit = false
	s.failed = nil
	s.pending = nil
	s.affected = 0
}

// SaveChanges flushes every staged change and reports the rows affected
// since the previous save point. Outside an explicit transaction the
// working transaction is committed; inside one it stays open.
func (s *Session) SaveChanges(ctx context.Context) (int64, error) {
	if err := s.usable(); err != nil {
		return 0, err
	}
	if err := s.flushOrAbort(ctx); err != nil {
		return 0, err
	}
	n := s.affected
	s.affected = 0
	if s.explicit || s.tx == nil {
		return n, nil
	}
	tx := s.tx
	s.tx = nil
	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return 0, translate(fmt.Errorf("failed to commit changes: %w", err))
	}
	s.logger.Debug("Changes saved", "rows_affected", n)
	return n, nil
}

// Begin opens an explicit transaction. A working transaction already opened
// by an earlier flush is adopted.
func (s *Session) Begin(ctx context.Context) error {
	if s.closed || s.explicit {
		return ErrInvalidState
	}
	if err := s.ensureTx(ctx); err != nil {
		return err
	}
	s.explicit = true
	return nil
}

// Commit flushes and commits the explicit transaction. Any failure rolls
// everything back; the original error is returned. Committing a failed
// transaction reports the error that aborted it and ends the transaction.
func (s *Session) Commit(ctx context.Context) error {
	if s.closed || !s.explicit {
		return ErrInvalidState
	}
	if err := s.failed; err != nil {
		s.abort()
		return err
	}
	if err := s.flushOrAbort(ctx); err != nil {
		s.abort()
		return err
	}
	tx := s.tx
	s.tx = nil
	s.explicit = false
	s.affected = 0
	if err := tx.Commit(); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			s.logger.Error("Failed to rollback transaction", "error", rbErr)
		}
		return translate(fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

// Rollback discards the explicit transaction and every staged change, and
// clears a failed transaction. It is a no-op when no explicit transaction is
// open.
func (s *Session) Rollback(_ context.Context) error {
	if s.closed {
		return ErrInvalidState
	}
	if !s.explicit {
		return nil
	}
	s.abort()
	return nil
}

// Close rolls back any open transaction, discards staged changes and
// returns the connection to the pool. It never commits and is idempotent.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.abort()
	s.closed = true
	if err := s.conn.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("failed to release connection: %w", err)
	}
	return nil
}
