// Package metrics defines and registers all custom Prometheus metrics for
// the back-office credential service. It is the single source of truth for
// metric names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "backoffice"

// ── Authentication metrics ────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// BootstrapRunsTotal counts default-admin bootstrap invocations.
// Label:
//   - result: "ok" or "error"
var BootstrapRunsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bootstrap_runs_total",
		Help:      "Total number of bootstrap invocations, by result.",
	},
	[]string{"result"},
)

// ── Lifecycle metrics ─────────────────────────────────────────────────────────

// UsersCreatedTotal counts successfully created users.
// Label:
//   - role: the role assigned at creation
var UsersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of users created, by role.",
	},
	[]string{"role"},
)

// LifecycleErrorsTotal counts failed lifecycle operations.
// Labels:
//   - op: "create", "update", "delete", or "change_password"
//   - reason: "invalid_argument", "conflict", "not_found", "unauthorized", or "internal"
var LifecycleErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lifecycle_errors_total",
		Help:      "Total number of failed user lifecycle operations, by operation and reason.",
	},
	[]string{"op", "reason"},
)

// ── Authorization guard metrics ───────────────────────────────────────────────

// GuardDecisionsTotal counts guard decisions that were actually delivered.
// Label:
//   - outcome: "authorized", "redirect_login", or "redirect_forbidden"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of authorization guard decisions, by outcome.",
	},
	[]string{"outcome"},
)

// GuardDecisionDuration measures entry-to-decision time. With the latency
// floor in place the distribution should be a narrow band above the floor.
var GuardDecisionDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "guard_decision_duration_seconds",
		Help:      "Duration from guard entry to delivered decision.",
		Buckets:   []float64{1, 2, 4, 4.25, 4.5, 5, 7.5, 10},
	},
)

// ── Audit queue metrics ───────────────────────────────────────────────────────

// AuditQueueDepth tracks the current number of audit events waiting in each
// dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
