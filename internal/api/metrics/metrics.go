// Package metrics defines and registers all custom Prometheus metrics for the
// library API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics register with the default Prometheus registry at import time via
// promauto; the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "library"

// ── Reservation metrics ───────────────────────────────────────────────────────

// ReservationsCreatedTotal counts successfully committed reservations.
var ReservationsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reservations_created_total",
		Help:      "Total number of reservations successfully created.",
	},
)

// ReservationsCancelledTotal counts successfully committed cancellations.
var ReservationsCancelledTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reservations_cancelled_total",
		Help:      "Total number of reservations successfully cancelled.",
	},
)

// ReservationConflictsTotal counts business-rule rejections on the
// reservation paths.
// Label:
//   - reason: "already_reserved", "unavailable" or "not_reserved"
var ReservationConflictsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reservation_conflicts_total",
		Help:      "Total number of reservation operations rejected by a business rule.",
	},
	[]string{"reason"},
)

// ReservationTxRetriesTotal counts transaction attempts that failed with a
// transient store error and were retried.
var ReservationTxRetriesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reservation_tx_retries_total",
		Help:      "Total number of reservation transactions retried after a transient store failure.",
	},
)

// ── Account metrics ───────────────────────────────────────────────────────────

// UsersRegisteredTotal counts newly registered accounts.
var UsersRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of user accounts registered.",
	},
)

// LoginFailuresTotal counts rejected login attempts.
var LoginFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_failures_total",
		Help:      "Total number of failed login attempts.",
	},
)
