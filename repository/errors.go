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
	"errors"
	"fmt"

	"github.com/tomoncle/estate/database"
)

var (
	// ErrNotFound is returned by helpers that require a row to exist. Plain
	// reads report absence with a nil result instead.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidState reports an operation not allowed in the current
	// transaction state, or any call on a closed unit of work.
	ErrInvalidState = errors.New("invalid unit of work state")
	// ErrConstraintViolation wraps unique, foreign key, not-null and check
	// violations raised by the store.
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrStoreUnavailable wraps connectivity failures and timeouts.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// translate maps a store error onto the sentinels above, keeping the driver
// error reachable through errors.As.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrInvalidState),
		errors.Is(err, ErrConstraintViolation),
		errors.Is(err, ErrStoreUnavailable),
		errors.Is(err, ErrNotFound):
		return err
	case database.IsUnavailable(err):
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if is, kind := database.IsSqlError(err); is && kind.IsConstraint() {
		return fmt.Errorf("%w: %w", ErrConstraintViolation, err)
	}
	return err
}

// ErrorKind names the sentinel err wraps, for logs and metric labels.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrConstraintViolation):
		return "constraint_violation"
	case errors.Is(err, ErrStoreUnavailable):
		return "store_unavailable"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	}
	return "other"
}
