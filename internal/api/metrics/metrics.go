// Package metrics defines and registers all custom Prometheus metrics for the
// SkillBridge session gateway. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "skillbridge"

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionOperationsTotal counts session store operations served over HTTP.
// Labels:
//   - operation: "login", "signup", "logout", "forgot_password", "update_profile"
//   - result: "ok" or a short error reason (e.g. "invalid_credentials")
var SessionOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_operations_total",
		Help:      "Total number of session operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// SessionOperationDuration measures how long a session operation takes,
// simulated latency included.
var SessionOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "session_operation_duration_seconds",
		Help:      "Duration of session operations as seen by the HTTP layer.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// ActiveSessions is the number of live session stores held in memory.
var ActiveSessions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Number of session stores currently held by the registry.",
	},
)

// ── Guard metrics ─────────────────────────────────────────────────────────────

// GuardDecisionsTotal counts route guard outcomes.
// Label:
//   - decision: "loading", "render", "redirect_login" or "redirect_landing"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions, by outcome.",
	},
	[]string{"decision"},
)

// ── Reset notification metrics ────────────────────────────────────────────────

// ResetNotificationsTotal counts password reset deliveries.
// Label:
//   - result: "sent" or "failed"
var ResetNotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reset_notifications_total",
		Help:      "Total number of password reset notifications, by delivery result.",
	},
	[]string{"result"},
)

// ResetQueueDepth tracks pending notifications in each dispatcher worker channel.
var ResetQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "reset_queue_depth",
		Help:      "Current number of reset notifications pending in each worker channel.",
	},
	[]string{"worker_id"},
)
