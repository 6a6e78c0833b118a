package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/sport-venue-booking/internal/model"
)

// MatchRepo provides access to matches and their player rows.
type MatchRepo struct {
	db *sql.DB
}

// NewMatchRepo returns a MatchRepo bound to the given database.
func NewMatchRepo(db *sql.DB) *MatchRepo { return &MatchRepo{db: db} }

const matchColumns = `id, booking_id, title, match_type, split_type, player_limit, status, match_code,
                      skill_level, age_group, gender, org_id, created_at, updated_at`

func scanMatch(row *sql.Row) (*model.Match, error) {
	var m model.Match
	err := row.Scan(
		&m.ID, &m.BookingID, &m.Title, &m.MatchType, &m.SplitType, &m.PlayerLimit, &m.Status, &m.MatchCode,
		&m.SkillLevel, &m.AgeGroup, &m.Gender, &m.OrgID, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateTx inserts a new match and populates its generated ID.  A
// unique key on match_code turns a code collision into
// ErrDuplicateCode so the caller can retry with a fresh code.
func (r *MatchRepo) CreateTx(ctx context.Context, tx *sql.Tx, m *model.Match) error {
	const q = `INSERT INTO matches (booking_id, title, match_type, split_type, player_limit, status, match_code,
                                    skill_level, age_group, gender, org_id)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, m.BookingID, m.Title, m.MatchType, m.SplitType, m.PlayerLimit, m.Status,
		m.MatchCode, m.SkillLevel, m.AgeGroup, m.Gender, m.OrgID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateCode
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// GetByBookingTx loads the match owned by a booking, locked for the
// duration of the transaction.
func (r *MatchRepo) GetByBookingTx(ctx context.Context, tx *sql.Tx, bookingID uint64) (*model.Match, error) {
	return scanMatch(tx.QueryRowContext(ctx, `SELECT `+matchColumns+` FROM matches WHERE booking_id = ? FOR UPDATE`, bookingID))
}

// GetTx loads a match by ID with a row lock.
func (r *MatchRepo) GetTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Match, error) {
	return scanMatch(tx.QueryRowContext(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = ? FOR UPDATE`, id))
}

// GetByCodeTx resolves a cleaned invite code to its match, locked for
// the duration of the transaction.
func (r *MatchRepo) GetByCodeTx(ctx context.Context, tx *sql.Tx, code string) (*model.Match, error) {
	return scanMatch(tx.QueryRowContext(ctx, `SELECT `+matchColumns+` FROM matches WHERE match_code = ? FOR UPDATE`, code))
}

// CodeExists reports whether any match already carries the code.
func (r *MatchRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM matches WHERE match_code = ?`, code).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UpdateStatusTx sets the match status.
func (r *MatchRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, to model.MatchStatus) error {
	_, err := tx.ExecContext(ctx, `UPDATE matches SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, to, id)
	return err
}

// UpdateCodeTx replaces the match's invite code, surfacing unique-key
// collisions as ErrDuplicateCode.
func (r *MatchRepo) UpdateCodeTx(ctx context.Context, tx *sql.Tx, id uint64, code string) error {
	_, err := tx.ExecContext(ctx, `UPDATE matches SET match_code = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, code, id)
	if err != nil && isDuplicateKey(err) {
		return ErrDuplicateCode
	}
	return err
}

// AddPlayerTx inserts a membership row and populates its generated ID.
func (r *MatchRepo) AddPlayerTx(ctx context.Context, tx *sql.Tx, p *model.MatchPlayer) error {
	const q = `INSERT INTO match_players (match_id, user_id, team) VALUES (?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, p.MatchID, p.UserID, p.Team)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// RemovePlayerTx deletes a membership row and reports whether one
// existed.
func (r *MatchRepo) RemovePlayerTx(ctx context.Context, tx *sql.Tx, matchID, userID uint64) (bool, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM match_players WHERE match_id = ? AND user_id = ?`, matchID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// PlayersTx lists a match's current players ordered by join time.
func (r *MatchRepo) PlayersTx(ctx context.Context, tx *sql.Tx, matchID uint64) ([]model.MatchPlayer, error) {
	const q = `SELECT id, match_id, user_id, team, joined_at FROM match_players WHERE match_id = ? ORDER BY joined_at`
	rows, err := tx.QueryContext(ctx, q, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.MatchPlayer
	for rows.Next() {
		var p model.MatchPlayer
		if err := rows.Scan(&p.ID, &p.MatchID, &p.UserID, &p.Team, &p.JoinedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CountPlayersTx returns the match's current player count.
func (r *MatchRepo) CountPlayersTx(ctx context.Context, tx *sql.Tx, matchID uint64) (uint32, error) {
	var n uint32
	err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM match_players WHERE match_id = ?`, matchID).Scan(&n)
	return n, err
}

// HasPlayerTx reports whether the user is already a member of the match.
func (r *MatchRepo) HasPlayerTx(ctx context.Context, tx *sql.Tx, matchID, userID uint64) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM match_players WHERE match_id = ? AND user_id = ?`, matchID, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return false
}
