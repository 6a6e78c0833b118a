package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/sport-venue-booking/internal/model"
)

// BookingRepo provides access to booking rows.  Status changes always
// happen through UpdateStatusTx with the previous status in the WHERE
// clause, so a lost race surfaces as zero affected rows instead of a
// silently overwritten state.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingColumns = `id, venue_id, sport_id, booked_by, status, total_credits, created_at, updated_at`

// CreateTx inserts a new booking and populates its generated ID and
// timestamps.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings (venue_id, sport_id, booked_by, status, total_credits) VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, b.VenueID, b.SportID, b.BookedBy, b.Status, b.TotalCredits)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return tx.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, b.ID).Scan(
		&b.ID, &b.VenueID, &b.SportID, &b.BookedBy, &b.Status, &b.TotalCredits, &b.CreatedAt, &b.UpdatedAt,
	)
}

// GetTx loads a booking with a row lock so the lifecycle transition
// holding the transaction observes a stable status.
func (r *BookingRepo) GetTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booking, error) {
	var b model.Booking
	err := tx.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ? FOR UPDATE`, id).Scan(
		&b.ID, &b.VenueID, &b.SportID, &b.BookedBy, &b.Status, &b.TotalCredits, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Get loads a booking outside any transaction.
func (r *BookingRepo) Get(ctx context.Context, id uint64) (*model.Booking, error) {
	var b model.Booking
	err := r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id).Scan(
		&b.ID, &b.VenueID, &b.SportID, &b.BookedBy, &b.Status, &b.TotalCredits, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateStatusTx moves a booking from one status to another.  It
// returns sql.ErrNoRows when the booking no longer carries the
// expected previous status, which callers treat as a lost race.
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, from, to model.BookingStatus) error {
	const q = `UPDATE bookings SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status = ?`
	res, err := tx.ExecContext(ctx, q, to, id, from)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
