package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fleetrental-backend/internal/domain"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func booking(status domain.BookingStatus, start, end string) domain.Booking {
	return domain.Booking{
		Status:    status,
		StartDate: date(start),
		EndDate:   date(end),
	}
}

func TestValidateRange(t *testing.T) {
	assert.NoError(t, ValidateRange(date("2024-02-01"), date("2024-02-05")))
	assert.ErrorIs(t, ValidateRange(date("2024-02-05"), date("2024-02-01")), domain.ErrInvalidDateRange)
	assert.ErrorIs(t, ValidateRange(date("2024-02-01"), date("2024-02-01")), domain.ErrInvalidDateRange)
}

func TestOverlaps(t *testing.T) {
	existing := struct{ s, e time.Time }{date("2024-02-01"), date("2024-02-05")}

	tests := []struct {
		name       string
		start, end string
		want       bool
	}{
		{"StartFallsInside", "2024-02-04", "2024-02-07", true},
		{"EndFallsInside", "2024-01-28", "2024-02-02", true},
		{"FullyContains", "2024-01-28", "2024-02-10", true},
		{"FullyInside", "2024-02-02", "2024-02-04", true},
		{"IdenticalRange", "2024-02-01", "2024-02-05", true},
		{"SameDayHandoverAtEnd", "2024-02-05", "2024-02-08", true},
		{"SameDayHandoverAtStart", "2024-01-28", "2024-02-01", true},
		{"StrictlyBefore", "2024-01-20", "2024-01-31", false},
		{"StrictlyAfter", "2024-02-06", "2024-02-10", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(existing.s, existing.e, date(tt.start), date(tt.end))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindConflicts(t *testing.T) {
	t.Run("ConfirmedOverlapConflicts", func(t *testing.T) {
		existing := []domain.Booking{booking(domain.BookingStatusConfirmed, "2024-02-01", "2024-02-05")}
		conflicts := FindConflicts(existing, date("2024-02-04"), date("2024-02-07"))
		assert.Len(t, conflicts, 1)
	})

	t.Run("NonBlockingStatusesNeverConflict", func(t *testing.T) {
		existing := []domain.Booking{
			booking(domain.BookingStatusPending, "2024-02-01", "2024-02-05"),
			booking(domain.BookingStatusCompleted, "2024-02-01", "2024-02-05"),
			booking(domain.BookingStatusCancelled, "2024-02-01", "2024-02-05"),
		}
		conflicts := FindConflicts(existing, date("2024-02-01"), date("2024-02-05"))
		assert.Empty(t, conflicts)
	})

	t.Run("InProgressBlocks", func(t *testing.T) {
		existing := []domain.Booking{booking(domain.BookingStatusInProgress, "2024-02-01", "2024-02-05")}
		conflicts := FindConflicts(existing, date("2024-02-05"), date("2024-02-09"))
		assert.Len(t, conflicts, 1)
	})

	t.Run("DisjointRangesPass", func(t *testing.T) {
		existing := []domain.Booking{
			booking(domain.BookingStatusConfirmed, "2024-02-01", "2024-02-05"),
			booking(domain.BookingStatusInProgress, "2024-02-10", "2024-02-12"),
		}
		conflicts := FindConflicts(existing, date("2024-02-06"), date("2024-02-09"))
		assert.Empty(t, conflicts)
	})
}
