package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both a missing entity and an entity outside the
	// caller's tenant scope. The two cases are deliberately
	// indistinguishable so existence never leaks across tenants.
	ErrNotFound = errors.New("not found")

	// ErrForbiddenScope is returned when the acting principal is not
	// allowed to operate on the target agency or customer.
	ErrForbiddenScope = errors.New("forbidden scope")

	// ErrInvalidDateRange is returned when a requested end date is not
	// strictly after the start date.
	ErrInvalidDateRange = errors.New("end date must be after start date")

	// ErrVehicleUnavailable is returned when a requested range overlaps
	// a booking that holds the vehicle.
	ErrVehicleUnavailable = errors.New("vehicle not available for the requested period")

	// ErrServiceUnavailable wraps store failures that survived a retry.
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
)

// ValidationError reports a malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InvalidTransitionError reports an illegal booking status transition,
// naming the current and requested states.
type InvalidTransitionError struct {
	From BookingStatus
	To   BookingStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid booking transition from %s to %s", e.From, e.To)
}

// ConflictError carries the bookings that block a requested range.
type ConflictError struct {
	Conflicts []Booking
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%v: %d conflicting booking(s)", ErrVehicleUnavailable, len(e.Conflicts))
}

func (e *ConflictError) Unwrap() error {
	return ErrVehicleUnavailable
}
