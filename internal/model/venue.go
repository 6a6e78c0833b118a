package model

import "time"

// Facility represents a sports complex that groups one or more venues.
// Operating hours defined at the facility level act as the fallback for
// venues that do not define their own hours.  This struct corresponds
// to a row in the `facilities` table.
//
// Fields:
//  ID        – primary key identifier.
//  OwnerID   – user ID of the facility owner.
//  Name      – unique facility name per owner.
//  Timezone  – IANA timezone name used for operating-hour resolution.
//  CreatedAt – timestamp when the facility was created.
//  UpdatedAt – timestamp of last update.
type Facility struct {
	ID        uint64    // facilities.id
	OwnerID   uint64    // facilities.owner_id
	Name      string    // facilities.name
	Timezone  string    // facilities.timezone
	CreatedAt time.Time // facilities.created_at
	UpdatedAt time.Time // facilities.updated_at
}

// Venue is a single bookable physical resource (a court or pitch)
// within a facility.  Each slot reserves the whole venue for its time
// interval.  This struct corresponds to a row in the `venues` table.
//
// Fields:
//  ID          – primary key identifier.
//  FacilityID  – containing facility.
//  SportID     – sport played at this venue.
//  Name        – unique venue name per facility.
//  BasePrice   – credits charged for a booking at this venue.
//  Capacity    – maximum number of players a match may admit.
//  Timezone    – effective IANA timezone; the repository resolves
//                COALESCE(venues.timezone, facilities.timezone) on load.
//  IsActive    – whether the venue accepts bookings.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Venue struct {
	ID         uint64    // venues.id
	FacilityID uint64    // venues.facility_id
	SportID    uint64    // venues.sport_id
	Name       string    // venues.name
	BasePrice  uint32    // venues.base_price
	Capacity   uint32    // venues.capacity
	Timezone   string    // COALESCE(venues.timezone, facilities.timezone)
	IsActive   bool      // venues.is_active
	CreatedAt  time.Time // venues.created_at
	UpdatedAt  time.Time // venues.updated_at
}

// OperatingWindow is one opening interval of a venue (or its facility)
// on a given weekday, expressed as minutes since local midnight.  A
// window whose CloseMin is less than or equal to its OpenMin wraps past
// midnight into the following day.  This struct corresponds to a row in
// the `operating_hours` table, where exactly one of venue_id and
// facility_id is set.
//
// Fields:
//  ID         – primary key identifier.
//  VenueID    – venue the window belongs to (nil for facility windows).
//  FacilityID – facility the window belongs to (nil for venue windows).
//  Weekday    – 0=Sunday … 6=Saturday, in the venue's local timezone.
//  OpenMin    – minutes after local midnight the window opens.
//  CloseMin   – minutes after local midnight the window closes.
type OperatingWindow struct {
	ID         uint64  // operating_hours.id
	VenueID    *uint64 // operating_hours.venue_id (nullable)
	FacilityID *uint64 // operating_hours.facility_id (nullable)
	Weekday    int     // operating_hours.weekday
	OpenMin    int     // operating_hours.open_min
	CloseMin   int     // operating_hours.close_min
}
