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

package estate

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tomoncle/estate/database"
	"github.com/tomoncle/estate/metrics"
	"github.com/tomoncle/estate/repository"
	"github.com/uptrace/bun"
)

type repoKind int

const (
	usersRepo repoKind = iota
	propertiesRepo
	propertyImagesRepo
	favoritesRepo
	paymentsRepo
	contactMessagesRepo
)

// Option customizes a UnitOfWork or a Provider.
type Option func(*options)

type options struct {
	logger  database.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func newOptions(opts []Option) options {
	o := options{logger: database.GetLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger for unit-of-work events.
func WithLogger(logger database.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics records unit-of-work outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithClock replaces the time source used for audit columns.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// UnitOfWork groups the repositories of one logical operation around a
// single session. Every repository handed out shares the session, so their
// staged writes are saved or discarded together. A UnitOfWork is not safe
// for concurrent use.
type UnitOfWork struct {
	id      string
	session *repository.Session
	logger  database.Logger
	metrics *metrics.Metrics
	repos   map[repoKind]interface{}
}

// NewUnitOfWork acquires a dedicated connection from db.
func NewUnitOfWork(ctx context.Context, db *bun.DB, opts ...Option) (*UnitOfWork, error) {
	return newUnitOfWork(ctx, db, newOptions(opts))
}

func newUnitOfWork(ctx context.Context, db *bun.DB, o options) (*UnitOfWork, error) {
	sessionOpts := []repository.SessionOption{repository.WithLogger(o.logger)}
	if o.now != nil {
		sessionOpts = append(sessionOpts, repository.WithClock(o.now))
	}
	session, err := repository.NewSession(ctx, db, sessionOpts...)
	if err != nil {
		o.metrics.ObserveError(repository.ErrorKind(err))
		return nil, err
	}
	return &UnitOfWork{
		id:      uuid.NewString(),
		session: session,
		logger:  o.logger,
		metrics: o.metrics,
		repos:   make(map[repoKind]interface{}),
	}, nil
}

// ID identifies the unit in logs.
func (u *UnitOfWork) ID() string { return u.id }

// InTransaction reports whether an explicit transaction is open.
func (u *UnitOfWork) InTransaction() bool { return u.session.InTransaction() }

func lazy[R any](u *UnitOfWork, kind repoKind, build func(*repository.Session) R) R {
	if r, ok := u.repos[kind]; ok {
		return r.(R)
	}
	r := build(u.session)
	u.repos[kind] = r
	return r
}

func (u *UnitOfWork) Users() repository.UserRepository {
	return lazy(u, usersRepo, repository.NewUserRepository)
}

func (u *UnitOfWork) Properties() repository.PropertyRepository {
	return lazy(u, propertiesRepo, repository.NewPropertyRepository)
}

func (u *UnitOfWork) PropertyImages() repository.PropertyImageRepository {
	return lazy(u, propertyImagesRepo, repository.NewPropertyImageRepository)
}

func (u *UnitOfWork) Favorites() repository.FavoriteRepository {
	return lazy(u, favoritesRepo, repository.NewFavoriteRepository)
}

func (u *UnitOfWork) Payments() repository.PaymentRepository {
	return lazy(u, paymentsRepo, repository.NewPaymentRepository)
}

func (u *UnitOfWork) ContactMessages() repository.ContactMessageRepository {
	return lazy(u, contactMessagesRepo, repository.NewContactMessageRepository)
}

func (u *UnitOfWork) fail(msg string, err error) error {
	u.metrics.ObserveError(repository.ErrorKind(err))
	u.logger.Warn(msg, "uow", u.id, "error", err)
	return err
}

// SaveChanges applies every staged change and returns the rows affected.
// Outside an explicit transaction the batch commits atomically; inside one
// it is only flushed.
func (u *UnitOfWork) SaveChanges(ctx context.Context) (int64, error) {
	n, err := u.session.SaveChanges(ctx)
	u.metrics.ObserveSave(n, err)
	if err != nil {
		return 0, u.fail("Save changes failed", err)
	}
	u.logger.Debug("Changes saved", "uow", u.id, "rows", n)
	return n, nil
}

// BeginTransaction opens an explicit transaction.
func (u *UnitOfWork) BeginTransaction(ctx context.Context) error {
	if err := u.session.Begin(ctx); err != nil {
		return u.fail("Begin transaction failed", err)
	}
	u.logger.Debug("Transaction started", "uow", u.id)
	return nil
}

// CommitTransaction flushes and commits. On failure everything is rolled
// back and the original error is returned.
func (u *UnitOfWork) CommitTransaction(ctx context.Context) error {
	open := u.session.InTransaction()
	if err := u.session.Commit(ctx); err != nil {
		if open {
			u.metrics.ObserveTransaction(metrics.OutcomeFailed)
		}
		return u.fail("Commit transaction failed", err)
	}
	u.metrics.ObserveTransaction(metrics.OutcomeCommitted)
	u.logger.Debug("Transaction committed", "uow", u.id)
	return nil
}

// RollbackTransaction discards the explicit transaction and staged changes.
// It is a no-op when no transaction is open.
func (u *UnitOfWork) RollbackTransaction(ctx context.Context) error {
	open := u.session.InTransaction()
	if err := u.session.Rollback(ctx); err != nil {
		return u.fail("Rollback transaction failed", err)
	}
	if open {
		u.metrics.ObserveTransaction(metrics.OutcomeRolledBack)
		u.logger.Debug("Transaction rolled back", "uow", u.id)
	}
	return nil
}

// Close rolls back whatever is still open and releases the connection.
// It never commits and may be called more than once.
func (u *UnitOfWork) Close() error {
	if u.session.Closed() {
		return nil
	}
	if u.session.InTransaction() {
		u.metrics.ObserveTransaction(metrics.OutcomeRolledBack)
	}
	if pending := u.session.Pending(); pending > 0 {
		u.logger.Debug("Discarding unsaved changes", "uow", u.id, "pending", pending)
	}
	return u.session.Close()
}
