package repository

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizzbuzz_repository_operations_total",
			Help: "Total number of quiz repository operations",
		},
		[]string{"operation", "status"}, // status: success/invalid/not_found/error
	)

	operationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quizzbuzz_repository_operation_duration_seconds",
			Help:    "Time spent in quiz repository operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	purgedQuizzes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quizzbuzz_purged_quizzes_total",
			Help: "Total number of quizzes removed by bulk purges",
		},
	)
)

func observe(operation string, start time.Time, err error) {
	operationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	operationsTotal.WithLabelValues(operation, statusOf(err)).Inc()
}

func statusOf(err error) string {
	switch err.(type) {
	case nil:
		return "success"
	case *InvalidIDError, *InvalidQueryError:
		return "invalid"
	case *NotFoundError:
		return "not_found"
	default:
		return "error"
	}
}
