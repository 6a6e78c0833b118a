package model

import "time"

// Profile holds a user's credit balance.  Credits are debited at
// booking creation or match join and credited back on cancellation or
// leave.  The balance is mutated only through relative increments so
// concurrent charges and refunds on the same profile never lose
// updates; the storage layer enforces that it stays non-negative.
// This struct corresponds to a row in the `profiles` table.
//
// Fields:
//  UserID    – primary key; one profile per user.
//  Credits   – current balance in whole credit units.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Profile struct {
	UserID    uint64    // profiles.user_id
	Credits   uint32    // profiles.credits
	CreatedAt time.Time // profiles.created_at
	UpdatedAt time.Time // profiles.updated_at
}
