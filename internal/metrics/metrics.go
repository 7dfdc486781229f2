package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ClockEvents counts ledger transitions by action and outcome.
var ClockEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "timeclock_clock_events_total",
	Help: "Clock transitions processed, by action and outcome.",
}, []string{"action", "outcome"})

// AdminLogins counts admin credential checks by outcome.
var AdminLogins = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "timeclock_admin_logins_total",
	Help: "Admin login attempts, by outcome.",
}, []string{"outcome"})

// Observe records a clock event outcome for an action.
func Observe(action string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	ClockEvents.WithLabelValues(action, outcome).Inc()
}
