package booking

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/sport-venue-booking/internal/model"
)

// MaxSlotDuration caps a single reservation.  Exactly three hours is
// accepted; one second more is rejected.
const MaxSlotDuration = 3 * time.Hour

const minutesPerDay = 24 * 60

// ConflictChecker validates a proposed slot interval against a venue's
// operating hours and the existing active slots on its calendar.  The
// overlap query must run inside the same transaction as the slot
// insert that follows it, otherwise two concurrent creations could
// both pass the check; ValidateTx therefore takes the caller's tx.
type ConflictChecker struct {
	venues VenueStore
	slots  SlotStore
}

// NewConflictChecker constructs a checker over the given stores.
func NewConflictChecker(venues VenueStore, slots SlotStore) *ConflictChecker {
	return &ConflictChecker{venues: venues, slots: slots}
}

// ValidateTx applies the conflict rules in order, short-circuiting on
// the first violation:
//
//  1. end strictly after start
//  2. duration at most MaxSlotDuration
//  3. start strictly in the future
//  4. no weekday-boundary crossing in the venue's local timezone
//  5. fully contained in an operating-hour window for that weekday
//     (venue windows take precedence, facility windows are the fallback,
//     windows may wrap past midnight)
//  6. no overlap with another active slot, excluding excludeSlotID
//
// Day-of-week and window resolution happen in the venue's timezone;
// the overlap comparison in rule 6 uses raw UTC instants.
func (c *ConflictChecker) ValidateTx(ctx context.Context, tx *sql.Tx, venue *model.Venue, start, end time.Time, excludeSlotID uint64) error {
	if err := CheckInterval(start, end, time.Now().UTC()); err != nil {
		return err
	}

	loc, err := time.LoadLocation(venue.Timezone)
	if err != nil {
		// A venue with a broken timezone cannot resolve hours at all.
		return err
	}
	weekday, attempted, err := LocalDayWindow(start, end, loc)
	if err != nil {
		return err
	}

	windows, err := c.venues.HoursForWeekdayTx(ctx, tx, venue.ID, venue.FacilityID, int(weekday))
	if err != nil {
		return err
	}
	available := make([]Window, 0, len(windows))
	for _, w := range windows {
		available = append(available, Window{Open: w.OpenMin, Close: w.CloseMin})
	}
	if !FitsAnyWindow(attempted, available) {
		return &OutsideHoursError{Weekday: weekday, Attempted: attempted, Available: available}
	}

	overlaps, err := c.slots.FindActiveOverlappingTx(ctx, tx, venue.ID, start, end, excludeSlotID)
	if err != nil {
		return err
	}
	if len(overlaps) > 0 {
		return &SlotConflictError{VenueID: venue.ID, StartsAt: overlaps[0].StartsAt, EndsAt: overlaps[0].EndsAt}
	}
	return nil
}

// CheckInterval applies the timezone-independent rules (1-3).
func CheckInterval(start, end, now time.Time) error {
	if !end.After(start) {
		return ErrInvalidInterval
	}
	if end.Sub(start) > MaxSlotDuration {
		return ErrDurationExceeded
	}
	if !start.After(now) {
		return ErrNotInFuture
	}
	return nil
}

// LocalDayWindow converts the interval into the venue's local timezone
// and returns its weekday plus its position as minutes since local
// midnight.  An end falling exactly on the next local midnight stays
// within the day because the interval is half-open; any later end is
// ErrSpansMultipleDays.
func LocalDayWindow(start, end time.Time, loc *time.Location) (time.Weekday, Window, error) {
	ls := start.In(loc)
	le := end.In(loc)

	dayStart := time.Date(ls.Year(), ls.Month(), ls.Day(), 0, 0, 0, 0, loc)
	nextMidnight := dayStart.AddDate(0, 0, 1)
	if le.After(nextMidnight) {
		return 0, Window{}, ErrSpansMultipleDays
	}

	open := ls.Hour()*60 + ls.Minute()
	var close int
	if le.Equal(nextMidnight) {
		close = minutesPerDay
	} else {
		close = le.Hour()*60 + le.Minute()
		// Seconds past the minute still occupy the next minute.
		if le.Second() > 0 || le.Nanosecond() > 0 {
			close++
		}
	}
	return ls.Weekday(), Window{Open: open, Close: close}, nil
}

// FitsAnyWindow reports whether the attempted interval is fully
// contained in at least one operating window.  A window whose Close is
// not after its Open wraps past midnight: it covers the evening range
// [Open, 24:00) plus the morning range [00:00, Close) of the next day,
// and a same-day interval fits if it sits entirely in either part.
func FitsAnyWindow(attempted Window, windows []Window) bool {
	for _, w := range windows {
		if w.Close > w.Open {
			if attempted.Open >= w.Open && attempted.Close <= w.Close {
				return true
			}
			continue
		}
		if attempted.Open >= w.Open && attempted.Close <= minutesPerDay {
			return true
		}
		if attempted.Close <= w.Close {
			return true
		}
	}
	return false
}

// Overlaps is the shared half-open interval test: touching endpoints
// do not conflict.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
