// Package metrics exports operation runs as Prometheus metrics.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/citrine/pkg/operation"
)

// Collector records operation calls, task failures and run durations.
type Collector struct {
	calls    *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewCollector creates a collector and registers its metrics with reg.
// A nil reg leaves the metrics unregistered.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "citrine_operation_calls_total",
				Help: "Total number of operation calls by result code",
			},
			[]string{"operation", "code"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "citrine_task_failures_total",
				Help: "Total number of runs stopped by a task",
			},
			[]string{"operation", "task"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "citrine_operation_duration_seconds",
				Help:    "Duration of operation calls",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
	if reg != nil {
		reg.MustRegister(c.calls, c.failures, c.duration)
	}
	return c
}

// Hooks returns operation hooks feeding the collector.
func (c *Collector) Hooks() operation.Hooks {
	return operation.Hooks{
		OnResult: c.observe,
	}
}

func (c *Collector) observe(_ context.Context, e *operation.ResultEvent) {
	c.calls.WithLabelValues(e.Operation, e.Result.Code()).Inc()
	c.duration.WithLabelValues(e.Operation).Observe(e.Duration.Seconds())
	if e.Failed && e.FailedTask != "" {
		c.failures.WithLabelValues(e.Operation, e.FailedTask).Inc()
	}
}
