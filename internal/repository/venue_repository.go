package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/sport-venue-booking/internal/model"
)

// VenueRepo reads venues and their operating hours.  Venues are
// immutable as far as the booking core is concerned (venue CRUD lives
// in another service), so reads may be served from a short-lived redis
// cache when a client is configured.  A nil redis client degrades to
// plain database reads.
type VenueRepo struct {
	db       *sql.DB
	rdb      *redis.Client
	cacheTTL time.Duration
}

// NewVenueRepo returns a VenueRepo bound to the given database.  rdb
// may be nil to disable caching.
func NewVenueRepo(db *sql.DB, rdb *redis.Client) *VenueRepo {
	return &VenueRepo{db: db, rdb: rdb, cacheTTL: 5 * time.Minute}
}

// DB exposes the underlying handle so callers can open transactions.
func (r *VenueRepo) DB() *sql.DB { return r.db }

const venueSelect = `SELECT v.id, v.facility_id, v.sport_id, v.name, v.base_price, v.capacity,
                            COALESCE(v.timezone, f.timezone), v.is_active, v.created_at, v.updated_at
                     FROM venues v
                     JOIN facilities f ON f.id = v.facility_id`

// GetActive returns an active venue with its effective timezone
// resolved.  sql.ErrNoRows is returned for missing or inactive venues.
func (r *VenueRepo) GetActive(ctx context.Context, venueID uint64) (*model.Venue, error) {
	if v, ok := r.fromCache(ctx, venueID); ok {
		return v, nil
	}
	var v model.Venue
	err := r.db.QueryRowContext(ctx, venueSelect+` WHERE v.id = ? AND v.is_active = 1`, venueID).Scan(
		&v.ID, &v.FacilityID, &v.SportID, &v.Name, &v.BasePrice, &v.Capacity,
		&v.Timezone, &v.IsActive, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.toCache(ctx, &v)
	return &v, nil
}

// HoursForWeekdayTx returns the operating windows governing the venue
// on the given weekday (0=Sunday).  Venue-level windows take
// precedence; only when the venue defines none for that weekday do the
// facility's windows apply.  An empty slice means the venue is closed.
func (r *VenueRepo) HoursForWeekdayTx(ctx context.Context, tx *sql.Tx, venueID, facilityID uint64, weekday int) ([]model.OperatingWindow, error) {
	const q = `SELECT id, venue_id, facility_id, weekday, open_min, close_min
               FROM operating_hours
               WHERE venue_id = ? AND weekday = ?
               ORDER BY open_min`
	windows, err := scanWindows(tx.QueryContext(ctx, q, venueID, weekday))
	if err != nil {
		return nil, err
	}
	if len(windows) > 0 {
		return windows, nil
	}
	const fq = `SELECT id, venue_id, facility_id, weekday, open_min, close_min
                FROM operating_hours
                WHERE facility_id = ? AND weekday = ?
                ORDER BY open_min`
	return scanWindows(tx.QueryContext(ctx, fq, facilityID, weekday))
}

func scanWindows(rows *sql.Rows, err error) ([]model.OperatingWindow, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.OperatingWindow
	for rows.Next() {
		var w model.OperatingWindow
		if err := rows.Scan(&w.ID, &w.VenueID, &w.FacilityID, &w.Weekday, &w.OpenMin, &w.CloseMin); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func venueCacheKey(id uint64) string { return fmt.Sprintf("venue:%d", id) }

func (r *VenueRepo) fromCache(ctx context.Context, id uint64) (*model.Venue, bool) {
	if r.rdb == nil {
		return nil, false
	}
	raw, err := r.rdb.Get(ctx, venueCacheKey(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var v model.Venue
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false
	}
	return &v, true
}

func (r *VenueRepo) toCache(ctx context.Context, v *model.Venue) {
	if r.rdb == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	// Best effort; a cache write failure never fails the read.
	_ = r.rdb.Set(ctx, venueCacheKey(v.ID), raw, r.cacheTTL).Err()
}
