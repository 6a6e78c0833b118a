// Package monitoring exposes prometheus metrics for the booking core.
package monitoring

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bookingsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Bookings created, by match type",
		},
		[]string{"match_type"},
	)

	bookingsCancelled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_cancelled_total",
			Help: "Bookings cancelled, by initiating path",
		},
		[]string{"path"},
	)

	bookingsConfirmed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookings_confirmed_total",
			Help: "Bookings confirmed by their owner",
		},
	)

	creditsMoved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credits_moved_total",
			Help: "Credits charged and refunded through the ledger",
		},
		[]string{"direction"},
	)

	pendingJobs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scheduled_jobs_pending",
			Help: "Auto-cancellation timers currently armed",
		},
	)
)

// BookingCreated records a successful creation.
func BookingCreated(matchType string) { bookingsCreated.WithLabelValues(matchType).Inc() }

// BookingConfirmed records a successful confirmation.
func BookingConfirmed() { bookingsConfirmed.Inc() }

// BookingCancelled records a cancellation; path is one of "owner",
// "auto", "conflict" or "system".
func BookingCancelled(path string) { bookingsCancelled.WithLabelValues(path).Inc() }

// CreditsCharged and CreditsRefunded record ledger movement volume.
func CreditsCharged(amount uint32)  { creditsMoved.WithLabelValues("charge").Add(float64(amount)) }
func CreditsRefunded(amount uint32) { creditsMoved.WithLabelValues("refund").Add(float64(amount)) }

// Monitor samples slow-moving gauges from the database.
type Monitor struct {
	db *sql.DB
}

// NewMonitor starts a background collector over the given database.
func NewMonitor(db *sql.DB) *Monitor {
	m := &Monitor{db: db}
	go m.collect()
	return m
}

func (m *Monitor) collect() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		var n float64
		err := m.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scheduled_jobs WHERE status = 'PENDING'`).Scan(&n)
		cancel()
		if err != nil {
			log.Printf("monitoring: sampling pending jobs: %v", err)
			continue
		}
		pendingJobs.Set(n)
	}
}
