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

package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecordOutcomes(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveSave(3, nil)
	m.ObserveSave(0, nil)
	m.ObserveSave(0, errors.New("boom"))
	m.ObserveTransaction(OutcomeCommitted)
	m.ObserveTransaction(OutcomeFailed)
	m.ObserveTransaction(OutcomeFailed)
	m.ObserveError("constraint_violation")
	m.ObserveError("")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SaveChanges.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SaveChanges.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transactions.WithLabelValues(OutcomeCommitted)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Transactions.WithLabelValues(OutcomeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreErrors.WithLabelValues("constraint_violation")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.StoreErrors))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RowsAffected))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveSave(1, nil)
		m.ObserveTransaction(OutcomeRolledBack)
		m.ObserveError("other")
	})
}
