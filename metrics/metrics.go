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

// Package metrics exposes Prometheus collectors for unit-of-work outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Transaction outcomes.
const (
	OutcomeCommitted  = "committed"
	OutcomeRolledBack = "rolled_back"
	OutcomeFailed     = "failed"
)

// Metrics holds the unit-of-work collectors. A nil *Metrics records nothing.
type Metrics struct {
	SaveChanges  *prometheus.CounterVec // save calls by status (ok, error)
	Transactions *prometheus.CounterVec // explicit transactions by outcome
	RowsAffected prometheus.Histogram   // rows written per successful save
	StoreErrors  *prometheus.CounterVec // failures by error kind
}

// New registers the collectors on reg, or on the default registerer when reg is nil.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		SaveChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "estate_uow_save_changes_total",
				Help: "Total number of SaveChanges calls by status",
			},
			[]string{"status"},
		),
		Transactions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "estate_uow_transactions_total",
				Help: "Total number of explicit transactions by outcome (committed, rolled_back, failed)",
			},
			[]string{"outcome"},
		),
		RowsAffected: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "estate_uow_rows_affected",
				Help:    "Rows affected per successful SaveChanges",
				Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 500},
			},
		),
		StoreErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "estate_store_errors_total",
				Help: "Total number of store failures by error kind",
			},
			[]string{"kind"},
		),
	}
}

// ObserveSave records a SaveChanges call and, on success, its row count.
func (m *Metrics) ObserveSave(rows int64, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.SaveChanges.WithLabelValues("error").Inc()
		return
	}
	m.SaveChanges.WithLabelValues("ok").Inc()
	m.RowsAffected.Observe(float64(rows))
}

// ObserveTransaction counts an explicit transaction ending with outcome.
func (m *Metrics) ObserveTransaction(outcome string) {
	if m == nil {
		return
	}
	m.Transactions.WithLabelValues(outcome).Inc()
}

// ObserveError counts a store failure. Empty kinds are ignored.
func (m *Metrics) ObserveError(kind string) {
	if m == nil || kind == "" {
		return
	}
	m.StoreErrors.WithLabelValues(kind).Inc()
}
