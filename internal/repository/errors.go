// Package repository provides MySQL data access for the booking core.
// Methods with a Tx suffix run inside a caller-provided transaction;
// the caller owns commit and rollback.  This file defines sentinel
// errors reused across repositories so higher layers can distinguish
// failure modes with errors.Is.
package repository

import "errors"

// ErrInsufficientCredits is returned when a relative credit debit
// would drive a profile's balance negative.  The update is written as
// a guarded increment, so the guarantee holds under concurrent
// charges and refunds on the same profile.
var ErrInsufficientCredits = errors.New("insufficient credits")

// ErrDuplicateCode is returned when inserting or updating a match
// with an invite code that already exists.
var ErrDuplicateCode = errors.New("match code already exists")
