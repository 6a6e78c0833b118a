package model

import "time"

// SlotEventType tags the kind of event a slot reserves the venue for.
type SlotEventType string

const (
	SlotEventBooking     SlotEventType = "BOOKING"
	SlotEventMaintenance SlotEventType = "MAINTENANCE"
)

// Slot reserves a venue for the half-open interval [StartsAt, EndsAt).
// A slot is created atomically with its owning booking or maintenance
// record and deleted when that record is cancelled.  Two slots touching
// at an endpoint do not conflict.  This struct corresponds to a row in
// the `slots` table.
//
// Fields:
//  ID        – primary key identifier.
//  VenueID   – venue being reserved.
//  EventType – BOOKING or MAINTENANCE.
//  EventID   – ID of the owning booking or maintenance record.
//  StartsAt  – inclusive start instant (UTC).
//  EndsAt    – exclusive end instant (UTC).
//  CreatedAt – creation timestamp.
type Slot struct {
	ID        uint64        // slots.id
	VenueID   uint64        // slots.venue_id
	EventType SlotEventType // slots.event_type
	EventID   uint64        // slots.event_id
	StartsAt  time.Time     // slots.starts_at
	EndsAt    time.Time     // slots.ends_at
	CreatedAt time.Time     // slots.created_at
}
