package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/sport-venue-booking/internal/model"
)

// ProfileRepo mutates credit balances.  All movements are relative
// increments so concurrent charges and refunds on the same profile
// cannot lose updates; non-negativity is part of the UPDATE predicate.
type ProfileRepo struct {
	db *sql.DB
}

// NewProfileRepo returns a ProfileRepo bound to the given database.
func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{db: db} }

// Get loads a profile, or sql.ErrNoRows when the user has none.
func (r *ProfileRepo) Get(ctx context.Context, userID uint64) (*model.Profile, error) {
	var p model.Profile
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, credits, created_at, updated_at FROM profiles WHERE user_id = ?`, userID,
	).Scan(&p.UserID, &p.Credits, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// AdjustCreditsTx applies a relative credit movement: negative delta
// charges, positive delta refunds.  A charge that would drive the
// balance negative affects no rows and returns ErrInsufficientCredits;
// sql.ErrNoRows is returned when the profile does not exist.  A zero
// delta is a no-op.
func (r *ProfileRepo) AdjustCreditsTx(ctx context.Context, tx *sql.Tx, userID uint64, delta int64) error {
	if delta == 0 {
		return nil
	}
	// credits is unsigned, so the debit guard must compare before
	// subtracting rather than test credits + delta >= 0.
	var res sql.Result
	var err error
	if delta < 0 {
		const q = `UPDATE profiles
                   SET credits = credits - ?, updated_at = CURRENT_TIMESTAMP
                   WHERE user_id = ? AND credits >= ?`
		res, err = tx.ExecContext(ctx, q, -delta, userID, -delta)
	} else {
		const q = `UPDATE profiles
                   SET credits = credits + ?, updated_at = CURRENT_TIMESTAMP
                   WHERE user_id = ?`
		res, err = tx.ExecContext(ctx, q, delta, userID)
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var one int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM profiles WHERE user_id = ?`, userID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return sql.ErrNoRows
		}
		if err != nil {
			return err
		}
		return ErrInsufficientCredits
	}
	return nil
}
