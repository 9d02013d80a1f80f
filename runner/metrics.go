/*
 * Copyright 2025 The RuleGo Authors.
 *
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


package runner

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Phase labels
const (
	PhaseComplete = "complete"
	PhaseMap      = "map"
	PhaseCombine  = "combine"
	PhaseReduce   = "reduce"
)

// Metrics counts the work done by a Runner. Counters are exported to
// prometheus when a Registerer is given and always kept as plain totals.
type Metrics struct {
	rows     prometheus.Counter
	tasks    *prometheus.CounterVec
	partials *prometheus.CounterVec

	rowCount     int64
	taskCount    int64
	partialCount int64
}

// NewMetrics creates the runner metrics and registers them with reg.
// A nil reg keeps them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		rows: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "hiveudf",
			Subsystem: "runner",
			Name:      "rows_total",
			Help:      "Rows fed to aggregate evaluators.",
		}),
		tasks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hiveudf",
			Subsystem: "runner",
			Name:      "tasks_total",
			Help:      "Finished tasks by phase.",
		}, []string{"phase"}),
		partials: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hiveudf",
			Subsystem: "runner",
			Name:      "partials_total",
			Help:      "Partial results emitted by phase.",
		}, []string{"phase"}),
	}
}

func (m *Metrics) incRows() {
	m.rows.Inc()
	atomic.AddInt64(&m.rowCount, 1)
}

func (m *Metrics) incTasks(phase string) {
	m.tasks.WithLabelValues(phase).Inc()
	atomic.AddInt64(&m.taskCount, 1)
}

func (m *Metrics) addPartials(phase string, n int) {
	m.partials.WithLabelValues(phase).Add(float64(n))
	atomic.AddInt64(&m.partialCount, int64(n))
}

// Stats is a point-in-time copy of the totals.
type Stats struct {
	Rows     int64 `json:"rows"`
	Tasks    int64 `json:"tasks"`
	Partials int64 `json:"partials"`
}

// Stats returns the totals since the metrics were created.
func (m *Metrics) Stats() Stats {
	return Stats{
		Rows:     atomic.LoadInt64(&m.rowCount),
		Tasks:    atomic.LoadInt64(&m.taskCount),
		Partials: atomic.LoadInt64(&m.partialCount),
	}
}
