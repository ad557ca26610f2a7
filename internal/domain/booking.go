package domain

import (
	"time"

	"fleetrental-backend/internal/money"
)

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "PENDING"
	BookingStatusConfirmed  BookingStatus = "CONFIRMED"
	BookingStatusInProgress BookingStatus = "IN_PROGRESS"
	BookingStatusCompleted  BookingStatus = "COMPLETED"
	BookingStatusCancelled  BookingStatus = "CANCELLED"
)

// BlockingStatuses are the statuses that hold a vehicle. PENDING does
// not block; COMPLETED and CANCELLED never block.
var BlockingStatuses = []BookingStatus{BookingStatusConfirmed, BookingStatusInProgress}

type FuelLevel string

const (
	FuelLevelFull         FuelLevel = "full"
	FuelLevelThreeQuarter FuelLevel = "3/4"
	FuelLevelHalf         FuelLevel = "half"
	FuelLevelQuarter      FuelLevel = "1/4"
	FuelLevelEmpty        FuelLevel = "empty"
)

func (f FuelLevel) Valid() bool {
	switch f {
	case FuelLevelFull, FuelLevelThreeQuarter, FuelLevelHalf, FuelLevelQuarter, FuelLevelEmpty:
		return true
	}
	return false
}

const DefaultFuelPolicy = "full_to_full"

type Booking struct {
	ID            int64  `json:"id"`
	BookingNumber string `json:"booking_number"`
	AgencyID      int64  `json:"agency_id"`
	VehicleID     int64  `json:"vehicle_id"`
	CustomerID    int64  `json:"customer_id"`
	CreatedByID   int64  `json:"created_by_id,omitempty"`

	StartDate time.Time  `json:"start_date"`
	EndDate   time.Time  `json:"end_date"`
	PickupAt  *time.Time `json:"pickup_at,omitempty"`
	ReturnAt  *time.Time `json:"return_at,omitempty"`

	// Price snapshot fields, captured from the vehicle at creation time.
	// Totals are never re-derived from live vehicle rates afterwards.
	DailyRate     money.Amount `json:"daily_rate"`
	DurationDays  int32        `json:"duration_days"`
	Subtotal      money.Amount `json:"subtotal"`
	TaxAmount     money.Amount `json:"tax_amount"`
	StampFee      money.Amount `json:"stamp_fee"`
	TotalAmount   money.Amount `json:"total_amount"`
	DepositAmount money.Amount `json:"deposit_amount"`

	Status BookingStatus `json:"status"`

	MileageLimit     int64        `json:"mileage_limit,omitempty"`
	ExtraMileageRate money.Amount `json:"extra_mileage_rate,omitempty"`
	InitialMileage   *int64       `json:"initial_mileage,omitempty"`
	FinalMileage     *int64       `json:"final_mileage,omitempty"`

	FuelPolicy       string    `json:"fuel_policy"`
	InitialFuelLevel FuelLevel `json:"initial_fuel_level,omitempty"`
	FinalFuelLevel   FuelLevel `json:"final_fuel_level,omitempty"`

	Notes              string    `json:"notes,omitempty"`
	CancellationReason string    `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	// Read-side summaries for display, populated by the service layer.
	Vehicle  *Vehicle  `json:"vehicle,omitempty"`
	Customer *Customer `json:"customer,omitempty"`
}

// bookingTransitions is the full transition table. A status missing from
// the map is terminal.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:    {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed:  {BookingStatusInProgress, BookingStatusCancelled},
	BookingStatusInProgress: {BookingStatusCompleted},
}

// CanTransition reports whether the booking may move to the given status.
func (b *Booking) CanTransition(to BookingStatus) bool {
	for _, next := range bookingTransitions[b.Status] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition moves the booking to the given status or fails with an
// InvalidTransitionError naming both states. It never silently no-ops.
func (b *Booking) Transition(to BookingStatus) error {
	if !b.CanTransition(to) {
		return &InvalidTransitionError{From: b.Status, To: to}
	}
	b.Status = to
	return nil
}

// IsTerminal reports whether no further transition is possible.
func (b *Booking) IsTerminal() bool {
	return len(bookingTransitions[b.Status]) == 0
}

// Blocks reports whether the booking's status holds the vehicle.
func (b *Booking) Blocks() bool {
	for _, s := range BlockingStatuses {
		if b.Status == s {
			return true
		}
	}
	return false
}
