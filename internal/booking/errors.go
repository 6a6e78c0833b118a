// Package booking implements the reservation core: slot conflict
// detection, the booking/match lifecycle state machine, credit
// accounting and the cascading cancellation that runs after a booking
// is confirmed.
package booking

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors surfaced to callers.  Handlers translate these into
// HTTP statuses; background paths treat the state errors as idempotency
// signals rather than true failures.
var (
	// ErrInvalidInterval is returned when a slot's end does not come
	// strictly after its start.
	ErrInvalidInterval = errors.New("slot end must be after start")

	// ErrDurationExceeded is returned for slots longer than MaxSlotDuration.
	ErrDurationExceeded = errors.New("slot exceeds maximum duration")

	// ErrNotInFuture is returned when a slot starts at or before now.
	ErrNotInFuture = errors.New("slot must start in the future")

	// ErrSpansMultipleDays is returned when a slot crosses a weekday
	// boundary in the venue's local timezone.
	ErrSpansMultipleDays = errors.New("slot must not span multiple days")

	// ErrVenueNotFound is returned when the referenced venue does not
	// exist or is inactive.
	ErrVenueNotFound = errors.New("venue not found")

	// ErrBookingNotFound is returned when the referenced booking does
	// not exist.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrMatchNotFound is returned when the referenced match does not
	// exist or no match matches the supplied invite code.
	ErrMatchNotFound = errors.New("match not found")

	// ErrForbidden is returned when a caller attempts an owner-only
	// transition on a booking or match they do not own.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidTransition is returned when a status change is not
	// legal from the booking's current state.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrBookingTooOldToCancel is returned when the owner cancels a
	// pending booking after the grace window has passed.
	ErrBookingTooOldToCancel = errors.New("booking too old to cancel")

	// ErrInsufficientCredits is returned when a charge would drive the
	// payer's balance negative.
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrCapacityExceeded is returned when the requested player limit
	// exceeds the venue's capacity.
	ErrCapacityExceeded = errors.New("player limit exceeds venue capacity")

	// ErrInvalidPaymentConfig is returned for a matchType/splitType
	// pair outside the closed set.  It indicates a programming error
	// upstream, not bad user input.
	ErrInvalidPaymentConfig = errors.New("invalid payment configuration")

	// ErrCodeGenerationExhausted is returned when a unique match code
	// could not be produced within the retry budget.
	ErrCodeGenerationExhausted = errors.New("match code generation exhausted retries")

	// ErrMatchNotOpen is returned when joining a match that is full,
	// cancelled or completed.
	ErrMatchNotOpen = errors.New("match is not open")

	// ErrAlreadyJoined is returned when a user joins a match twice.
	ErrAlreadyJoined = errors.New("already a match player")

	// ErrNotAPlayer is returned when leaving a match the user never joined.
	ErrNotAPlayer = errors.New("not a match player")

	// ErrCreatorCannotLeave is returned when the booking creator tries
	// to leave their own match instead of cancelling the booking.
	ErrCreatorCannotLeave = errors.New("creator cannot leave own match")
)

// Window is an operating-hour interval on a single local day, minutes
// since midnight.  Close <= Open means the window wraps past midnight.
type Window struct {
	Open  int
	Close int
}

func (w Window) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", w.Open/60, w.Open%60, w.Close/60, w.Close%60)
}

// OutsideHoursError reports a slot that fits no operating-hour window
// for its weekday.  The message carries the attempted interval and the
// windows that were available so the rejection is diagnosable from
// logs alone.
type OutsideHoursError struct {
	Weekday   time.Weekday
	Attempted Window
	Available []Window
}

func (e *OutsideHoursError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("venue is closed on %s (requested %s)", e.Weekday, e.Attempted)
	}
	avail := ""
	for i, w := range e.Available {
		if i > 0 {
			avail += ", "
		}
		avail += w.String()
	}
	return fmt.Sprintf("requested %s is outside %s operating hours (%s)", e.Attempted, e.Weekday, avail)
}

// SlotConflictError reports an overlap with an existing active slot.
type SlotConflictError struct {
	VenueID  uint64
	StartsAt time.Time
	EndsAt   time.Time
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("slot conflicts with an existing reservation %s-%s on venue %d",
		e.StartsAt.UTC().Format("2006-01-02 15:04"), e.EndsAt.UTC().Format("15:04"), e.VenueID)
}
