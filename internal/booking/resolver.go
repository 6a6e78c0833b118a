package booking

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/iliyamo/sport-venue-booking/internal/model"
)

// resolveConflicts runs after a booking is confirmed: every other
// pending booking whose slot overlaps the confirmed one at the same
// venue is cancelled and refunded (first confirmed wins — pending
// bookings are speculative holds).  Confirmed bookings are left alone;
// this same pass already ran when they confirmed, so two confirmed
// bookings can only coexist without overlapping.
//
// Each conflicting booking is cancelled in its own transaction and a
// failure on one never blocks the others or the confirmation itself,
// which has already committed; failures are logged and left for the
// next operator to inspect.
func (s *Service) resolveConflicts(ctx context.Context, confirmed *model.Booking) {
	candidates, err := s.overlappingPending(ctx, confirmed)
	if err != nil {
		log.Printf("conflict-resolver: booking %d: finding overlaps: %v", confirmed.ID, err)
		return
	}
	for _, id := range candidates {
		if _, err := s.CancelBySystem(ctx, id, "cancelled: conflicting booking was confirmed"); err != nil {
			// ErrInvalidTransition means the booking moved on by
			// itself (cancelled or confirmed concurrently); that is
			// the idempotent outcome, not a failure.
			if errors.Is(err, ErrInvalidTransition) || errors.Is(err, ErrBookingNotFound) {
				continue
			}
			log.Printf("conflict-resolver: cancelling booking %d: %v", id, err)
		}
	}
}

// overlappingPending returns the IDs of other pending bookings whose
// slots overlap the confirmed booking's slot.
func (s *Service) overlappingPending(ctx context.Context, confirmed *model.Booking) ([]uint64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	slot, err := s.slots.FindByEventTx(ctx, tx, model.SlotEventBooking, confirmed.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Slot already gone: the booking was cancelled between
			// commit and resolution.  Nothing to resolve.
			return nil, nil
		}
		return nil, err
	}
	overlaps, err := s.slots.FindActiveOverlappingTx(ctx, tx, slot.VenueID, slot.StartsAt, slot.EndsAt, slot.ID)
	if err != nil {
		return nil, err
	}

	var ids []uint64
	for _, o := range overlaps {
		if o.EventType != model.SlotEventBooking {
			continue
		}
		b, err := s.bookings.Get(ctx, o.EventID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return nil, err
		}
		if b.Status == model.BookingPending {
			ids = append(ids, b.ID)
		}
	}
	return ids, nil
}
