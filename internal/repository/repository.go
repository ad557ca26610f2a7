package repository

import (
	"context"
	"time"

	"fleetrental-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type AgencyRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Agency, error)
	ListIDsByOwner(ctx context.Context, ownerUserID int64) ([]int64, error)
}

type VehicleRepository interface {
	Create(ctx context.Context, v *domain.Vehicle) error
	GetByID(ctx context.Context, id int64) (*domain.Vehicle, error)
	Update(ctx context.Context, v *domain.Vehicle) error
	Deactivate(ctx context.Context, id int64) error
	ListByAgency(ctx context.Context, agencyID int64, page, pageSize int32) ([]domain.Vehicle, int32, error)
}

type CustomerRepository interface {
	Create(ctx context.Context, c *domain.Customer) error
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	Update(ctx context.Context, c *domain.Customer) error
	SetBlacklisted(ctx context.Context, id int64, blacklisted bool, reason string) error
	ListByAgency(ctx context.Context, agencyID int64, page, pageSize int32) ([]domain.Customer, int32, error)
}

// BookingFilter narrows agency-level booking listings.
type BookingFilter struct {
	Status     domain.BookingStatus
	VehicleID  int64
	CustomerID int64
}

type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)

	// Update writes the full row, guarded by the status the caller
	// observed when it loaded the booking. A concurrent writer that
	// changed the status first makes the write miss, surfaced as
	// *domain.InvalidTransitionError (ErrNotFound if the row is gone).
	Update(ctx context.Context, b *domain.Booking, expected domain.BookingStatus) error

	// StartRental persists the IN_PROGRESS transition and marks the
	// vehicle RENTED in one transaction, with the same status guard as
	// Update.
	StartRental(ctx context.Context, b *domain.Booking, from domain.BookingStatus) error

	// CompleteRental persists the COMPLETED transition, returns the
	// vehicle to the available pool and rolls its mileage forward, all
	// in one transaction.
	CompleteRental(ctx context.Context, b *domain.Booking, from domain.BookingStatus) error
	ListByAgency(ctx context.Context, agencyID int64, filter BookingFilter, page, pageSize int32) ([]domain.Booking, int32, error)
	ListByVehicleAndStatuses(ctx context.Context, vehicleID int64, statuses []domain.BookingStatus) ([]domain.Booking, error)
	CountActiveByVehicle(ctx context.Context, vehicleID int64) (int32, error)

	// CreateIfAvailable inserts the booking inside one transaction that
	// locks the vehicle row and re-runs the conflict query, so two
	// concurrent creates for overlapping ranges cannot both succeed.
	// Returns *domain.ConflictError when blocked.
	CreateIfAvailable(ctx context.Context, b *domain.Booking) error

	// ConfirmIfAvailable moves a booking to CONFIRMED under the same
	// vehicle row lock, re-checking conflicts against the booking's
	// stored range. Returns *domain.ConflictError when blocked.
	ConfirmIfAvailable(ctx context.Context, id int64, start, end time.Time) (*domain.Booking, error)
}

type ContractRepository interface {
	Create(ctx context.Context, c *domain.Contract) error
	GetByID(ctx context.Context, id int64) (*domain.Contract, error)
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.Contract, error)
	Update(ctx context.Context, c *domain.Contract) error
	ListByAgency(ctx context.Context, agencyID int64, page, pageSize int32) ([]domain.Contract, int32, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.PaymentStatus, paidAt *time.Time) error
	ListByBooking(ctx context.Context, bookingID int64) ([]domain.Payment, error)
}
