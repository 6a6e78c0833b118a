package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/sport-venue-booking/internal/model"
)

// SlotRepo manages the venue calendar.  The overlap check alone is a
// read-then-write race under concurrent creations, so every lifecycle
// transition that touches a venue's calendar first takes the venue row
// lock (LockVenueTx) inside its transaction; check and insert then
// serialize per venue.
type SlotRepo struct {
	db *sql.DB
}

// NewSlotRepo returns a SlotRepo bound to the given database.
func NewSlotRepo(db *sql.DB) *SlotRepo { return &SlotRepo{db: db} }

// LockVenueTx takes a row lock on the venue for the duration of the
// transaction, serializing calendar mutations per venue.  It returns
// sql.ErrNoRows when the venue does not exist.
func (r *SlotRepo) LockVenueTx(ctx context.Context, tx *sql.Tx, venueID uint64) error {
	var id uint64
	return tx.QueryRowContext(ctx, `SELECT id FROM venues WHERE id = ? FOR UPDATE`, venueID).Scan(&id)
}

// FindActiveOverlappingTx returns slots on the venue whose half-open
// interval overlaps [start, end), excluding excludeSlotID (zero means
// exclude nothing).  Maintenance slots are always active; booking
// slots count only while their booking is PENDING or CONFIRMED.
// Results are ordered by start time so the first row is the earliest
// conflict.
func (r *SlotRepo) FindActiveOverlappingTx(ctx context.Context, tx *sql.Tx, venueID uint64, start, end time.Time, excludeSlotID uint64) ([]model.Slot, error) {
	const q = `SELECT s.id, s.venue_id, s.event_type, s.event_id, s.starts_at, s.ends_at, s.created_at
               FROM slots s
               LEFT JOIN bookings b ON s.event_type = 'BOOKING' AND b.id = s.event_id
               WHERE s.venue_id = ?
                 AND s.id <> ?
                 AND s.starts_at < ? AND s.ends_at > ?
                 AND (s.event_type = 'MAINTENANCE' OR b.status IN ('PENDING','CONFIRMED'))
               ORDER BY s.starts_at`
	rows, err := tx.QueryContext(ctx, q, venueID, excludeSlotID, end.UTC(), start.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Slot
	for rows.Next() {
		var s model.Slot
		if err := rows.Scan(&s.ID, &s.VenueID, &s.EventType, &s.EventID, &s.StartsAt, &s.EndsAt, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTx inserts the slot and populates its generated ID.
func (r *SlotRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.Slot) error {
	const q = `INSERT INTO slots (venue_id, event_type, event_id, starts_at, ends_at) VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, s.VenueID, s.EventType, s.EventID, s.StartsAt.UTC(), s.EndsAt.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// DeleteByEventTx removes the slot owned by the given event.  Deleting
// a slot that is already gone is a no-op.
func (r *SlotRepo) DeleteByEventTx(ctx context.Context, tx *sql.Tx, eventType model.SlotEventType, eventID uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM slots WHERE event_type = ? AND event_id = ?`, eventType, eventID)
	return err
}

// FindByEventTx returns the slot owned by the given event, or
// sql.ErrNoRows when the event has none (already cancelled).
func (r *SlotRepo) FindByEventTx(ctx context.Context, tx *sql.Tx, eventType model.SlotEventType, eventID uint64) (*model.Slot, error) {
	const q = `SELECT id, venue_id, event_type, event_id, starts_at, ends_at, created_at
               FROM slots WHERE event_type = ? AND event_id = ?`
	var s model.Slot
	err := tx.QueryRowContext(ctx, q, eventType, eventID).Scan(
		&s.ID, &s.VenueID, &s.EventType, &s.EventID, &s.StartsAt, &s.EndsAt, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
