package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingCanTransition(t *testing.T) {
	tests := []struct {
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{BookingPending, BookingConfirmed, true},
		{BookingPending, BookingCancelled, true},
		{BookingPending, BookingCompleted, false},
		{BookingPending, BookingPending, false},
		{BookingConfirmed, BookingCompleted, true},
		{BookingConfirmed, BookingCancelled, true},
		{BookingConfirmed, BookingPending, false},
		{BookingCancelled, BookingConfirmed, false},
		{BookingCancelled, BookingCancelled, false},
		{BookingCompleted, BookingCancelled, false},
		{BookingCompleted, BookingConfirmed, false},
	}
	for _, tt := range tests {
		b := &Booking{Status: tt.from}
		assert.Equal(t, tt.want, b.CanTransition(tt.to), "%s -> %s", tt.from, tt.to)
	}
}
