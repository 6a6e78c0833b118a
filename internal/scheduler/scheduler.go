// Package scheduler fires durable one-shot timers.  Timer state lives
// in the scheduled_jobs table rather than in process memory, so a
// restart loses no pending auto-cancellations; the worker simply picks
// the due rows back up on its next poll.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/sport-venue-booking/internal/model"
)

// Store is the slice of the job repository the worker needs.
type Store interface {
	Due(ctx context.Context, now time.Time, limit int) ([]model.ScheduledJob, error)
	MarkDone(ctx context.Context, jobID uint64) error
	RecordFailure(ctx context.Context, jobID uint64, maxAttempts uint32) error
}

// Handler processes one due job.  It must be idempotent: the worker
// may fire the same booking again after a crash between handling and
// marking, and a manually cancelled booking's timer may still fire.
type Handler func(ctx context.Context, bookingID uint64) error

// Worker polls the job store and fires due jobs.  One worker per
// process is enough; jobs are isolated, so one failing booking never
// blocks the rest of the batch.
type Worker struct {
	store        Store
	handler      Handler
	pollInterval time.Duration
	batchSize    int
	maxAttempts  uint32
}

// NewWorker builds a worker with the default poll interval (15s),
// batch size (100) and retry budget (5 attempts).
func NewWorker(store Store, handler Handler) *Worker {
	return &Worker{
		store:        store,
		handler:      handler,
		pollInterval: 15 * time.Second,
		batchSize:    100,
		maxAttempts:  5,
	}
}

// Run polls until ctx is cancelled.  Poll errors are logged and
// retried on the next tick; the loop itself never gives up.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	log.Printf("scheduler: worker started (poll every %s)", w.pollInterval)
	for {
		select {
		case <-ctx.Done():
			log.Printf("scheduler: worker stopped")
			return
		case <-ticker.C:
			w.Poll(ctx)
		}
	}
}

// Poll fires every currently due job once.  Exported so tests and the
// startup path can drive the worker without waiting for a tick.
func (w *Worker) Poll(ctx context.Context) {
	jobs, err := w.store.Due(ctx, time.Now().UTC(), w.batchSize)
	if err != nil {
		log.Printf("scheduler: listing due jobs: %v", err)
		return
	}
	for _, job := range jobs {
		if err := w.handler(ctx, job.BookingID); err != nil {
			log.Printf("scheduler: job %d (booking %d): %v", job.ID, job.BookingID, err)
			if err := w.store.RecordFailure(ctx, job.ID, w.maxAttempts); err != nil {
				log.Printf("scheduler: job %d: recording failure: %v", job.ID, err)
			}
			continue
		}
		if err := w.store.MarkDone(ctx, job.ID); err != nil {
			// The handler is idempotent, so refiring after this is
			// harmless; still worth a log line.
			log.Printf("scheduler: job %d: marking done: %v", job.ID, err)
		}
	}
}
