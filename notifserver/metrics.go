package notifserver

import "github.com/prometheus/client_golang/prometheus"

// DefaultAdmissionLimit bounds concurrently-served notification
// connections by default: generous enough to only protect against a
// runaway peer, not to enforce real backpressure.
const DefaultAdmissionLimit = 256

var (
	inFlightConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sep2go",
		Subsystem: "notifserver",
		Name:      "in_flight_connections",
		Help:      "Notification connections currently being served.",
	})
	acceptedConnections = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sep2go",
		Subsystem: "notifserver",
		Name:      "accepted_connections_total",
		Help:      "Notification connections accepted since start.",
	})
	admissionWaitSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "sep2go",
		Subsystem: "notifserver",
		Name:      "admission_wait_seconds",
		Help:      "Time an accepted connection waited for an admission slot.",
	})
)

func init() {
	prometheus.MustRegister(inFlightConnections, acceptedConnections, admissionWaitSeconds)
}
