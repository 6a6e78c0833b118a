package booking

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/sport-venue-booking/internal/model"
)

// The lifecycle consumes its repositories through these interfaces,
// each the slice of the repository the core actually calls.  The
// repository package satisfies them over MySQL; tests satisfy them
// in memory.

// VenueStore resolves venues and their operating hours.
type VenueStore interface {
	GetActive(ctx context.Context, venueID uint64) (*model.Venue, error)
	HoursForWeekdayTx(ctx context.Context, tx *sql.Tx, venueID, facilityID uint64, weekday int) ([]model.OperatingWindow, error)
}

// SlotStore owns the venue calendar rows and the per-venue lock that
// serializes conflict check and insert.
type SlotStore interface {
	LockVenueTx(ctx context.Context, tx *sql.Tx, venueID uint64) error
	FindActiveOverlappingTx(ctx context.Context, tx *sql.Tx, venueID uint64, start, end time.Time, excludeSlotID uint64) ([]model.Slot, error)
	CreateTx(ctx context.Context, tx *sql.Tx, s *model.Slot) error
	DeleteByEventTx(ctx context.Context, tx *sql.Tx, eventType model.SlotEventType, eventID uint64) error
	FindByEventTx(ctx context.Context, tx *sql.Tx, eventType model.SlotEventType, eventID uint64) (*model.Slot, error)
}

// BookingStore persists booking rows and their guarded status moves.
type BookingStore interface {
	CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error
	GetTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booking, error)
	Get(ctx context.Context, id uint64) (*model.Booking, error)
	UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, from, to model.BookingStatus) error
}

// MatchStore persists matches, their player rows and invite codes.
type MatchStore interface {
	CreateTx(ctx context.Context, tx *sql.Tx, m *model.Match) error
	GetByBookingTx(ctx context.Context, tx *sql.Tx, bookingID uint64) (*model.Match, error)
	GetTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Match, error)
	GetByCodeTx(ctx context.Context, tx *sql.Tx, code string) (*model.Match, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, to model.MatchStatus) error
	UpdateCodeTx(ctx context.Context, tx *sql.Tx, id uint64, code string) error
	AddPlayerTx(ctx context.Context, tx *sql.Tx, p *model.MatchPlayer) error
	RemovePlayerTx(ctx context.Context, tx *sql.Tx, matchID, userID uint64) (bool, error)
	PlayersTx(ctx context.Context, tx *sql.Tx, matchID uint64) ([]model.MatchPlayer, error)
	CountPlayersTx(ctx context.Context, tx *sql.Tx, matchID uint64) (uint32, error)
	HasPlayerTx(ctx context.Context, tx *sql.Tx, matchID, userID uint64) (bool, error)
}

// ProfileStore moves credits by relative increments.
type ProfileStore interface {
	AdjustCreditsTx(ctx context.Context, tx *sql.Tx, userID uint64, delta int64) error
}

// JobStore arms and disarms the durable auto-cancellation timers.
type JobStore interface {
	ScheduleTx(ctx context.Context, tx *sql.Tx, bookingID uint64, dueAt time.Time) error
	DisarmTx(ctx context.Context, tx *sql.Tx, bookingID uint64) error
}
