// Package metrics defines and registers all custom Prometheus metrics for the
// InvGen back office. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "invgen"

// ── Entry metrics ─────────────────────────────────────────────────────────────

// EntriesCreatedTotal counts entries recorded by field staff.
// Labels:
//   - project: the project the entry was filed under
//   - type: "Customer" or "Broker"
var EntriesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entries_created_total",
		Help:      "Total number of entries created, by project and type.",
	},
	[]string{"project", "type"},
)

// ExportsTotal counts workbook exports.
// Label:
//   - result: "ok", "empty" or "error"
var ExportsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "exports_total",
		Help:      "Total number of entry exports, by result.",
	},
	[]string{"result"},
)

// ── Payment metrics ───────────────────────────────────────────────────────────

// PaymentsCreatedTotal counts newly inserted payments.
// Label:
//   - type: "Security" or "Facility"
var PaymentsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_created_total",
		Help:      "Total number of payments created, by payment type.",
	},
	[]string{"type"},
)

// IdempotentReplaysTotal counts payment creations answered from a previous
// request carrying the same Idempotency-Key.
var IdempotentReplaysTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_idempotent_replays_total",
		Help:      "Total number of payment creations served from an earlier identical request.",
	},
)

// CascadeDeletesTotal counts record deletions.
// Label:
//   - mode: "transaction" or "sequential"
var CascadeDeletesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "record_cascade_deletes_total",
		Help:      "Total number of record deletions, by how the cascade was applied.",
	},
	[]string{"mode"},
)

// ── Document metrics ──────────────────────────────────────────────────────────

// RenderDuration measures how long a PDF document takes to produce.
// Labels:
//   - document: "receipt" or "statement"
//   - result: "ok" or "error"
var RenderDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "pdf_render_duration_seconds",
		Help:      "Duration of PDF document rendering.",
		Buckets:   []float64{.1, .25, .5, 1, 2, 5, 10, 30},
	},
	[]string{"document", "result"},
)
