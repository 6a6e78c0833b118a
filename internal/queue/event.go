// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names for booking lifecycle events.  Both queues are durable.
const (
	BookingConfirmedQueue = "booking.confirmed"
	BookingCancelledQueue = "booking.cancelled"
)

// BookingConfirmedEvent is published when a booking is confirmed by
// its owner.  It carries enough for downstream consumers to notify
// players or feed analytics without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID   uint64 `json:"booking_id"`
	MatchID     uint64 `json:"match_id"`
	VenueID     uint64 `json:"venue_id"`
	BookedBy    uint64 `json:"booked_by"`
	MatchType   string `json:"match_type"`
	ConfirmedAt string `json:"confirmed_at"`
}

// BookingCancelledEvent is published whenever a booking reaches
// cancelled, whether by the owner, the auto-cancellation timer or the
// conflict resolver.  Reason distinguishes the paths.
type BookingCancelledEvent struct {
	BookingID    uint64 `json:"booking_id"`
	MatchID      uint64 `json:"match_id"`
	VenueID      uint64 `json:"venue_id"`
	BookedBy     uint64 `json:"booked_by"`
	TotalCredits uint32 `json:"total_credits"`
	Reason       string `json:"reason"`
	CancelledAt  string `json:"cancelled_at"`
}
