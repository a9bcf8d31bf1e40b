// Copyright (c) PT Base. All rights reserved.
// Licensed under the MIT License.

package prism

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric label values for terminal task status.
const (
	statusLabelFinished = "finished"
	statusLabelCanceled = "canceled"
	statusLabelFailed   = "failed"
)

// Metrics bundles the prometheus collectors an [Executor] updates. Create one
// with [NewMetrics] against the registry of your choice and attach it with
// [Executor.SetMetrics]; an executor without metrics records nothing.
type Metrics struct {
	tasksTotal    *prometheus.CounterVec
	batchesTotal  prometheus.Counter
	batchTimeouts prometheus.Counter
	batchDuration prometheus.Histogram
	quotaRounds   prometheus.Counter
}

// NewMetrics creates and registers the executor collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{
		tasksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prism_tasks_total",
				Help: "Total number of tasks that reached a terminal state.",
			},
			[]string{"status"},
		),
		batchesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "prism_batches_total",
				Help: "Total number of executed batches.",
			},
		),
		batchTimeouts: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "prism_batch_timeouts_total",
				Help: "Number of batches interrupted by the shared deadline or caller cancellation.",
			},
		),
		batchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "prism_batch_duration_seconds",
				Help:    "Wall-clock duration of a batch from submission to result extraction, in seconds.",
				Buckets: prometheus.DefBuckets,
			},
		),
		quotaRounds: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "prism_quota_rounds_total",
				Help: "Number of batch rounds run in quota mode.",
			},
		),
	}

	// Pre-initialize the status label combinations so all series appear on
	// first scrape.
	for _, status := range []string{statusLabelFinished, statusLabelCanceled, statusLabelFailed} {
		m.tasksTotal.WithLabelValues(status)
	}
	return m
}

func (m *Metrics) observeBatch(elapsed time.Duration, interrupted bool, finished, canceled, failed int) {
	m.batchesTotal.Inc()
	if interrupted {
		m.batchTimeouts.Inc()
	}
	m.batchDuration.Observe(elapsed.Seconds())
	m.tasksTotal.WithLabelValues(statusLabelFinished).Add(float64(finished))
	m.tasksTotal.WithLabelValues(statusLabelCanceled).Add(float64(canceled))
	m.tasksTotal.WithLabelValues(statusLabelFailed).Add(float64(failed))
}

func (m *Metrics) observeQuotaRound() {
	m.quotaRounds.Inc()
}
