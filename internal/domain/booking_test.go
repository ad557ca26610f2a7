package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingTransitions(t *testing.T) {
	allStatuses := []BookingStatus{
		BookingStatusPending, BookingStatusConfirmed, BookingStatusInProgress,
		BookingStatusCompleted, BookingStatusCancelled,
	}
	allowed := map[BookingStatus][]BookingStatus{
		BookingStatusPending:    {BookingStatusConfirmed, BookingStatusCancelled},
		BookingStatusConfirmed:  {BookingStatusInProgress, BookingStatusCancelled},
		BookingStatusInProgress: {BookingStatusCompleted},
		BookingStatusCompleted:  {},
		BookingStatusCancelled:  {},
	}

	for from, targets := range allowed {
		for _, to := range allStatuses {
			ok := false
			for _, target := range targets {
				if target == to {
					ok = true
				}
			}
			b := &Booking{Status: from}
			err := b.Transition(to)
			if ok {
				assert.NoError(t, err, "%s -> %s", from, to)
				assert.Equal(t, to, b.Status)
			} else {
				var te *InvalidTransitionError
				assert.ErrorAs(t, err, &te, "%s -> %s", from, to)
				assert.Equal(t, from, te.From)
				assert.Equal(t, to, te.To)
				assert.Equal(t, from, b.Status, "failed transition must not mutate")
			}
		}
	}
}

func TestBookingCannotStartFromPending(t *testing.T) {
	b := &Booking{Status: BookingStatusPending}
	err := b.Transition(BookingStatusInProgress)

	var te *InvalidTransitionError
	assert.ErrorAs(t, err, &te)
	assert.Equal(t, BookingStatusPending, te.From)
	assert.Equal(t, BookingStatusInProgress, te.To)
	assert.Contains(t, te.Error(), "PENDING")
	assert.Contains(t, te.Error(), "IN_PROGRESS")
}

func TestBookingIsTerminal(t *testing.T) {
	assert.False(t, (&Booking{Status: BookingStatusPending}).IsTerminal())
	assert.False(t, (&Booking{Status: BookingStatusConfirmed}).IsTerminal())
	assert.False(t, (&Booking{Status: BookingStatusInProgress}).IsTerminal())
	assert.True(t, (&Booking{Status: BookingStatusCompleted}).IsTerminal())
	assert.True(t, (&Booking{Status: BookingStatusCancelled}).IsTerminal())
}

func TestBookingBlocks(t *testing.T) {
	assert.False(t, (&Booking{Status: BookingStatusPending}).Blocks())
	assert.True(t, (&Booking{Status: BookingStatusConfirmed}).Blocks())
	assert.True(t, (&Booking{Status: BookingStatusInProgress}).Blocks())
	assert.False(t, (&Booking{Status: BookingStatusCompleted}).Blocks())
	assert.False(t, (&Booking{Status: BookingStatusCancelled}).Blocks())
}

func TestFuelLevelValid(t *testing.T) {
	for _, f := range []FuelLevel{FuelLevelFull, FuelLevelThreeQuarter, FuelLevelHalf, FuelLevelQuarter, FuelLevelEmpty} {
		assert.True(t, f.Valid())
	}
	assert.False(t, FuelLevel("").Valid())
	assert.False(t, FuelLevel("overflowing").Valid())
}
