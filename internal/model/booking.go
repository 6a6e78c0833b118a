package model

import "time"

// BookingStatus enumerates the booking state machine.  Legal moves are
// PENDING→CONFIRMED→COMPLETED and PENDING/CONFIRMED→CANCELLED; no
// transition leaves COMPLETED or CANCELLED.
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingCompleted BookingStatus = "COMPLETED"
)

// Booking is the reservation and payment record underlying a match.
// Exactly one slot and one match are associated 1:1 with a booking and
// share its lifetime.  TotalCredits is the venue's base price captured
// at creation time; it never changes afterwards even if the venue is
// repriced.  This struct corresponds to a row in the `bookings` table.
//
// Fields:
//  ID           – primary key identifier.
//  VenueID      – venue the booking reserves.
//  SportID      – sport being played.
//  BookedBy     – user who created the booking.
//  Status       – current lifecycle state.
//  TotalCredits – escrow amount charged at creation.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Booking struct {
	ID           uint64        // bookings.id
	VenueID      uint64        // bookings.venue_id
	SportID      uint64        // bookings.sport_id
	BookedBy     uint64        // bookings.booked_by
	Status       BookingStatus // bookings.status
	TotalCredits uint32        // bookings.total_credits
	CreatedAt    time.Time     // bookings.created_at
	UpdatedAt    time.Time     // bookings.updated_at
}

// CanTransition reports whether moving a booking from its current
// status to the target status is legal.
func (b *Booking) CanTransition(to BookingStatus) bool {
	switch b.Status {
	case BookingPending:
		return to == BookingConfirmed || to == BookingCancelled
	case BookingConfirmed:
		return to == BookingCompleted || to == BookingCancelled
	default:
		return false
	}
}
