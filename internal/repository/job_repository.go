package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/sport-venue-booking/internal/model"
)

// JobRepo stores the durable auto-cancellation timers.  A job is armed
// in the same transaction that creates its public booking and disarmed
// in the same transaction as any terminal transition, so the worker
// can never observe a timer for a booking state that no longer exists.
type JobRepo struct {
	db *sql.DB
}

// NewJobRepo returns a JobRepo bound to the given database.
func NewJobRepo(db *sql.DB) *JobRepo { return &JobRepo{db: db} }

// ScheduleTx arms a one-shot job for the booking at dueAt.
func (r *JobRepo) ScheduleTx(ctx context.Context, tx *sql.Tx, bookingID uint64, dueAt time.Time) error {
	const q = `INSERT INTO scheduled_jobs (booking_id, due_at, status) VALUES (?, ?, 'PENDING')`
	_, err := tx.ExecContext(ctx, q, bookingID, dueAt.UTC())
	return err
}

// DisarmTx forgets any pending job for the booking.  Disarming a
// booking without one is a no-op.
func (r *JobRepo) DisarmTx(ctx context.Context, tx *sql.Tx, bookingID uint64) error {
	_, err := tx.ExecContext(ctx,
		`DELETE FROM scheduled_jobs WHERE booking_id = ? AND status = 'PENDING'`, bookingID)
	return err
}

// Due returns up to limit pending jobs whose due_at has passed,
// oldest first.
func (r *JobRepo) Due(ctx context.Context, now time.Time, limit int) ([]model.ScheduledJob, error) {
	const q = `SELECT id, booking_id, due_at, status, attempts, created_at
               FROM scheduled_jobs
               WHERE status = 'PENDING' AND due_at <= ?
               ORDER BY due_at
               LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, now.UTC(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.ScheduledJob
	for rows.Next() {
		var j model.ScheduledJob
		if err := rows.Scan(&j.ID, &j.BookingID, &j.DueAt, &j.Status, &j.Attempts, &j.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkDone records that the job fired successfully.
func (r *JobRepo) MarkDone(ctx context.Context, jobID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE scheduled_jobs SET status = 'DONE' WHERE id = ? AND status = 'PENDING'`, jobID)
	return err
}

// RecordFailure bumps the job's attempt counter and parks it as FAILED
// once maxAttempts is reached; until then the job stays PENDING and is
// retried on a later poll.
func (r *JobRepo) RecordFailure(ctx context.Context, jobID uint64, maxAttempts uint32) error {
	const q = `UPDATE scheduled_jobs
               SET attempts = attempts + 1,
                   status = IF(attempts + 1 >= ?, 'FAILED', status)
               WHERE id = ? AND status = 'PENDING'`
	_, err := r.db.ExecContext(ctx, q, maxAttempts, jobID)
	return err
}
