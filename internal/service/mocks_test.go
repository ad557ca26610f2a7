package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/money"
	"fleetrental-backend/internal/repository"
)

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) Update(ctx context.Context, b *domain.Booking, expected domain.BookingStatus) error {
	args := m.Called(ctx, b, expected)
	return args.Error(0)
}
func (m *MockBookingRepo) StartRental(ctx context.Context, b *domain.Booking, from domain.BookingStatus) error {
	args := m.Called(ctx, b, from)
	return args.Error(0)
}
func (m *MockBookingRepo) CompleteRental(ctx context.Context, b *domain.Booking, from domain.BookingStatus) error {
	args := m.Called(ctx, b, from)
	return args.Error(0)
}
func (m *MockBookingRepo) ListByAgency(ctx context.Context, agencyID int64, filter repository.BookingFilter, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, agencyID, filter, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookingRepo) ListByVehicleAndStatuses(ctx context.Context, vehicleID int64, statuses []domain.BookingStatus) ([]domain.Booking, error) {
	args := m.Called(ctx, vehicleID, statuses)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) CountActiveByVehicle(ctx context.Context, vehicleID int64) (int32, error) {
	args := m.Called(ctx, vehicleID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockBookingRepo) CreateIfAvailable(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookingRepo) ConfirmIfAvailable(ctx context.Context, id int64, start, end time.Time) (*domain.Booking, error) {
	args := m.Called(ctx, id, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

// MockVehicleRepo
type MockVehicleRepo struct {
	mock.Mock
}

func (m *MockVehicleRepo) Create(ctx context.Context, v *domain.Vehicle) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}
func (m *MockVehicleRepo) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}
func (m *MockVehicleRepo) Update(ctx context.Context, v *domain.Vehicle) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}
func (m *MockVehicleRepo) Deactivate(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockVehicleRepo) ListByAgency(ctx context.Context, agencyID int64, page, pageSize int32) ([]domain.Vehicle, int32, error) {
	args := m.Called(ctx, agencyID, page, pageSize)
	return args.Get(0).([]domain.Vehicle), args.Get(1).(int32), args.Error(2)
}

// MockCustomerRepo
type MockCustomerRepo struct {
	mock.Mock
}

func (m *MockCustomerRepo) Create(ctx context.Context, c *domain.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCustomerRepo) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}
func (m *MockCustomerRepo) Update(ctx context.Context, c *domain.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCustomerRepo) SetBlacklisted(ctx context.Context, id int64, blacklisted bool, reason string) error {
	args := m.Called(ctx, id, blacklisted, reason)
	return args.Error(0)
}
func (m *MockCustomerRepo) ListByAgency(ctx context.Context, agencyID int64, page, pageSize int32) ([]domain.Customer, int32, error) {
	args := m.Called(ctx, agencyID, page, pageSize)
	return args.Get(0).([]domain.Customer), args.Get(1).(int32), args.Error(2)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockAgencyRepo
type MockAgencyRepo struct {
	mock.Mock
}

func (m *MockAgencyRepo) GetByID(ctx context.Context, id int64) (*domain.Agency, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Agency), args.Error(1)
}
func (m *MockAgencyRepo) ListIDsByOwner(ctx context.Context, ownerUserID int64) ([]int64, error) {
	args := m.Called(ctx, ownerUserID)
	return args.Get(0).([]int64), args.Error(1)
}

// MockPaymentService
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) Record(ctx context.Context, p domain.Principal, in RecordPaymentInput) (*domain.Payment, error) {
	args := m.Called(ctx, p, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentService) Complete(ctx context.Context, p domain.Principal, id int64) (*domain.Payment, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentService) ListByBooking(ctx context.Context, p domain.Principal, bookingID int64) ([]domain.Payment, error) {
	args := m.Called(ctx, p, bookingID)
	return args.Get(0).([]domain.Payment), args.Error(1)
}
func (m *MockPaymentService) RecordExcessCharge(ctx context.Context, b *domain.Booking, excessKm int64) (*domain.Payment, error) {
	args := m.Called(ctx, b, excessKm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendBookingCreated(ctx context.Context, to, customerName, bookingNumber, plate string, start, end time.Time, total money.Amount) error {
	args := m.Called(ctx, to, customerName, bookingNumber, plate, start, end, total)
	return args.Error(0)
}
func (m *MockEmailService) SendBookingConfirmed(ctx context.Context, to, customerName, bookingNumber, plate string) error {
	args := m.Called(ctx, to, customerName, bookingNumber, plate)
	return args.Error(0)
}
func (m *MockEmailService) SendBookingCompleted(ctx context.Context, to, customerName, bookingNumber string, total money.Amount) error {
	args := m.Called(ctx, to, customerName, bookingNumber, total)
	return args.Error(0)
}
func (m *MockEmailService) SendBookingCancelled(ctx context.Context, to, customerName, bookingNumber, reason string) error {
	args := m.Called(ctx, to, customerName, bookingNumber, reason)
	return args.Error(0)
}
