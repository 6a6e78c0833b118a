package model

import "time"

// JobStatus enumerates the scheduled job lifecycle.
type JobStatus string

const (
	JobPending JobStatus = "PENDING"
	JobDone    JobStatus = "DONE"
	JobFailed  JobStatus = "FAILED"
)

// ScheduledJob is a durable one-shot timer, one row per pending
// auto-cancellation.  Rows survive process restarts; a worker polls for
// due rows and fires them.  Cancelling, confirming or completing a
// booking deletes its row in the same transaction, and a job that fires
// anyway finds nothing to do because the handler revalidates state.
// This struct corresponds to a row in the `scheduled_jobs` table.
//
// Fields:
//  ID        – primary key identifier.
//  BookingID – booking this job watches; unique per pending job.
//  DueAt     – absolute fire time (UTC, createdAt+2h at arming).
//  Status    – PENDING, DONE or FAILED.
//  Attempts  – number of times the worker has tried to fire the job.
//  CreatedAt – creation timestamp.
type ScheduledJob struct {
	ID        uint64    // scheduled_jobs.id
	BookingID uint64    // scheduled_jobs.booking_id
	DueAt     time.Time // scheduled_jobs.due_at
	Status    JobStatus // scheduled_jobs.status
	Attempts  uint32    // scheduled_jobs.attempts
	CreatedAt time.Time // scheduled_jobs.created_at
}
