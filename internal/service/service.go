package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/money"
	"fleetrental-backend/internal/pricing"
	"fleetrental-backend/internal/repository"
)

// PricingPolicy carries the configured tax rate and stamp fee. The
// pricing calculator takes them as parameters; only the orchestrator
// knows where they come from.
type PricingPolicy struct {
	TaxRatePercent decimal.Decimal
	StampFee       money.Amount
}

// AvailabilityResult is the read-only answer to an availability query.
type AvailabilityResult struct {
	Available bool             `json:"available"`
	Reason    string           `json:"reason,omitempty"`
	Conflicts []domain.Booking `json:"conflicts,omitempty"`
	Quote     *pricing.Quote   `json:"pricing,omitempty"`
}

type CreateBookingInput struct {
	VehicleID        int64
	CustomerID       int64
	StartDate        time.Time
	EndDate          time.Time
	DepositAmount    money.Amount
	MileageLimit     int64
	ExtraMileageRate money.Amount
	FuelPolicy       string
	Notes            string
}

type UpdateBookingInput struct {
	StartDate     *time.Time
	EndDate       *time.Time
	DepositAmount *money.Amount
	MileageLimit  *int64
	Notes         *string
}

type BookingService interface {
	CheckAvailability(ctx context.Context, p domain.Principal, vehicleID int64, start, end time.Time) (*AvailabilityResult, error)
	Create(ctx context.Context, p domain.Principal, in CreateBookingInput) (*domain.Booking, error)
	Get(ctx context.Context, p domain.Principal, id int64) (*domain.Booking, error)
	List(ctx context.Context, p domain.Principal, agencyID int64, filter repository.BookingFilter, page, pageSize int32) ([]domain.Booking, int32, error)
	Update(ctx context.Context, p domain.Principal, id int64, in UpdateBookingInput) (*domain.Booking, error)
	Confirm(ctx context.Context, p domain.Principal, id int64) (*domain.Booking, error)
	Start(ctx context.Context, p domain.Principal, id int64, odometer int64, fuel domain.FuelLevel) (*domain.Booking, error)
	Complete(ctx context.Context, p domain.Principal, id int64, odometer int64, fuel domain.FuelLevel) (*domain.Booking, error)
	Cancel(ctx context.Context, p domain.Principal, id int64, reason string) (*domain.Booking, error)
}

type VehicleService interface {
	Add(ctx context.Context, p domain.Principal, v *domain.Vehicle) error
	Get(ctx context.Context, p domain.Principal, id int64) (*domain.Vehicle, error)
	Update(ctx context.Context, p domain.Principal, v *domain.Vehicle) error
	Delete(ctx context.Context, p domain.Principal, id int64) error
	List(ctx context.Context, p domain.Principal, agencyID int64, page, pageSize int32) ([]domain.Vehicle, int32, error)
	ListAvailable(ctx context.Context, p domain.Principal, agencyID int64, start, end time.Time) ([]domain.Vehicle, error)
}

type CustomerService interface {
	Add(ctx context.Context, p domain.Principal, c *domain.Customer) error
	Get(ctx context.Context, p domain.Principal, id int64) (*domain.Customer, error)
	Update(ctx context.Context, p domain.Principal, c *domain.Customer) error
	SetBlacklist(ctx context.Context, p domain.Principal, id int64, blacklisted bool, reason string) error
	List(ctx context.Context, p domain.Principal, agencyID int64, page, pageSize int32) ([]domain.Customer, int32, error)
}

// ContractTerms are the deposit/excess terms a contract carries on top
// of its booking.
type ContractTerms struct {
	DepositAmount money.Amount
	ExcessAmount  money.Amount
	MileageLimit  int64
	Terms         string
}

type ContractService interface {
	CreateFromBooking(ctx context.Context, p domain.Principal, bookingID int64, terms ContractTerms) (*domain.Contract, error)
	Get(ctx context.Context, p domain.Principal, id int64) (*domain.Contract, error)
	GetByBooking(ctx context.Context, p domain.Principal, bookingID int64) (*domain.Contract, error)
	Sign(ctx context.Context, p domain.Principal, id int64) (*domain.Contract, error)
	Cancel(ctx context.Context, p domain.Principal, id int64) (*domain.Contract, error)
	List(ctx context.Context, p domain.Principal, agencyID int64, page, pageSize int32) ([]domain.Contract, int32, error)
}

type RecordPaymentInput struct {
	BookingID   int64
	Type        domain.PaymentType
	Method      domain.PaymentMethod
	Amount      money.Amount
	Description string
}

type PaymentService interface {
	Record(ctx context.Context, p domain.Principal, in RecordPaymentInput) (*domain.Payment, error)
	Complete(ctx context.Context, p domain.Principal, id int64) (*domain.Payment, error)
	ListByBooking(ctx context.Context, p domain.Principal, bookingID int64) ([]domain.Payment, error)

	// RecordExcessCharge books a pending over-mileage charge against a
	// completed booking, derived from its mileage limit and extra rate.
	RecordExcessCharge(ctx context.Context, b *domain.Booking, excessKm int64) (*domain.Payment, error)
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}

// EmailService delivers booking lifecycle notifications. Delivery is
// best-effort; orchestrators log failures and move on.
type EmailService interface {
	SendBookingCreated(ctx context.Context, to, customerName, bookingNumber, plate string, start, end time.Time, total money.Amount) error
	SendBookingConfirmed(ctx context.Context, to, customerName, bookingNumber, plate string) error
	SendBookingCompleted(ctx context.Context, to, customerName, bookingNumber string, total money.Amount) error
	SendBookingCancelled(ctx context.Context, to, customerName, bookingNumber, reason string) error
}
