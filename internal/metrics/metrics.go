// Package metrics exposes Prometheus instrumentation for the monitor loop.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CyclesTotal tracks the number of monitor cycles started.
	CyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pickupwatch_cycles_total",
		Help: "The total number of availability check cycles started.",
	})
	// CheckErrorsTotal tracks cycles that produced no data (session or fetch failure).
	CheckErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pickupwatch_check_errors_total",
		Help: "The total number of availability checks that failed before parsing.",
	})
	// ParseErrorsTotal tracks responses that could not be decoded into a snapshot.
	ParseErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pickupwatch_parse_errors_total",
		Help: "The total number of responses that failed snapshot parsing.",
	})
	// NotificationsTotal tracks successfully dispatched notification emails.
	NotificationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pickupwatch_notifications_total",
		Help: "The total number of notification emails sent.",
	})
	// NotificationErrorsTotal tracks notification attempts that failed delivery.
	NotificationErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pickupwatch_notification_errors_total",
		Help: "The total number of notification emails that failed to send.",
	})
	// LastAvailable reports the availability flag of the last stored snapshot.
	LastAvailable = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pickupwatch_last_available",
		Help: "Whether the last stored snapshot reported any part available (1) or not (0).",
	})
)
