// Package metrics exposes the import pipeline's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RowsProcessed counts settled unit-of-work jobs by outcome
	// (imported, rejected, cancelled).
	RowsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "employee_registry",
		Subsystem: "bulk_import",
		Name:      "rows_processed_total",
		Help:      "Import rows processed, labeled by outcome.",
	}, []string{"outcome"})

	// BatchesSettled counts batches whose last job reached a terminal
	// state.
	BatchesSettled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "employee_registry",
		Subsystem: "bulk_import",
		Name:      "batches_settled_total",
		Help:      "Import batches fully settled.",
	})

	// NotificationsSent counts completion e-mails by kind
	// (success, partial).
	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "employee_registry",
		Subsystem: "bulk_import",
		Name:      "notifications_sent_total",
		Help:      "Completion notifications sent, labeled by kind.",
	}, []string{"kind"})
)
