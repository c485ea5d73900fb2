package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TasksTotal counts processed summarization tasks by outcome.
	TasksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "momentum_summary_tasks_total",
			Help: "Total number of summarization tasks processed",
		},
		[]string{"outcome"},
	)

	// TaskDuration tracks the duration of summarization tasks in seconds.
	TaskDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "momentum_summary_task_duration_seconds",
			Help:    "Duration of summarization tasks in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~1.7min
		},
	)

	// ModelCallsTotal counts individual model invocations by result.
	ModelCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "momentum_model_calls_total",
			Help: "Total number of summarization model calls",
		},
		[]string{"result"},
	)

	// ModelCallDuration tracks the duration of single model calls in seconds.
	ModelCallDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "momentum_model_call_duration_seconds",
			Help:    "Duration of single summarization model calls in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
	)

	// ChunksPerDocument tracks how many chunks each summarized document produced.
	ChunksPerDocument = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "momentum_summary_chunks_per_document",
			Help:    "Number of chunks per summarized document",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 34},
		},
	)

	// WorkersActive tracks the number of currently active workers.
	WorkersActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "momentum_workers_active",
			Help: "Number of currently active worker goroutines",
		},
	)
)
