package service

import (
	"context"
	"fmt"
	"time"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/logger"
	"fleetrental-backend/internal/repository"
	"fleetrental-backend/internal/scope"
)

type paymentService struct {
	payments repository.PaymentRepository
	bookings repository.BookingRepository
}

func NewPaymentService(payments repository.PaymentRepository, bookings repository.BookingRepository) PaymentService {
	return &paymentService{payments: payments, bookings: bookings}
}

func (s *paymentService) Record(ctx context.Context, p domain.Principal, in RecordPaymentInput) (*domain.Payment, error) {
	if in.Amount == 0 {
		return nil, &domain.ValidationError{Field: "amount", Reason: "must not be zero"}
	}
	if in.Amount < 0 && in.Type != domain.PaymentTypeRefund {
		return nil, &domain.ValidationError{Field: "amount", Reason: "only refunds may be negative"}
	}

	var booking *domain.Booking
	err := withStoreRetry(ctx, "booking.get", func() error {
		var err error
		booking, err = s.bookings.GetByID(ctx, in.BookingID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := scope.AuthorizeBooking(p, booking); err != nil {
		return nil, scope.Hide(err)
	}
	// Taking money is a counter action, not a client one.
	if err := scope.Authorize(p, booking.AgencyID); err != nil {
		return nil, err
	}

	now := time.Now()
	payment := &domain.Payment{
		PaymentReference: newPaymentReference(now),
		AgencyID:         booking.AgencyID,
		BookingID:        booking.ID,
		Type:             in.Type,
		Method:           in.Method,
		Amount:           in.Amount,
		Status:           domain.PaymentStatusPending,
		Description:      in.Description,
		ProcessedByID:    p.UserID,
	}

	err = withStoreRetry(ctx, "payment.create", func() error {
		return s.payments.Create(ctx, payment)
	})
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "payment recorded",
		"payment_id", payment.ID, "payment_reference", payment.PaymentReference,
		"booking_id", booking.ID, "type", payment.Type, "amount", payment.Amount.String())
	return payment, nil
}

func (s *paymentService) Complete(ctx context.Context, p domain.Principal, id int64) (*domain.Payment, error) {
	var payment *domain.Payment
	err := withStoreRetry(ctx, "payment.get", func() error {
		var err error
		payment, err = s.payments.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := scope.Authorize(p, payment.AgencyID); err != nil {
		return nil, scope.Hide(err)
	}
	if payment.Status != domain.PaymentStatusPending {
		return nil, &domain.ValidationError{Field: "status", Reason: "only pending payments can be completed"}
	}

	now := time.Now()
	err = withStoreRetry(ctx, "payment.complete", func() error {
		return s.payments.UpdateStatus(ctx, id, domain.PaymentStatusCompleted, &now)
	})
	if err != nil {
		return nil, err
	}
	payment.Status = domain.PaymentStatusCompleted
	payment.PaidAt = &now
	return payment, nil
}

func (s *paymentService) ListByBooking(ctx context.Context, p domain.Principal, bookingID int64) ([]domain.Payment, error) {
	var booking *domain.Booking
	err := withStoreRetry(ctx, "booking.get", func() error {
		var err error
		booking, err = s.bookings.GetByID(ctx, bookingID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := scope.AuthorizeBooking(p, booking); err != nil {
		return nil, scope.Hide(err)
	}

	var payments []domain.Payment
	err = withStoreRetry(ctx, "payment.list_by_booking", func() error {
		var err error
		payments, err = s.payments.ListByBooking(ctx, bookingID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// RecordExcessCharge derives the over-mileage charge from the booking's
// contracted extra rate. It is called by the booking orchestrator after
// a completed return, so the scope check already happened upstream.
func (s *paymentService) RecordExcessCharge(ctx context.Context, b *domain.Booking, excessKm int64) (*domain.Payment, error) {
	if excessKm <= 0 {
		return nil, &domain.ValidationError{Field: "excess_km", Reason: "must be positive"}
	}

	now := time.Now()
	payment := &domain.Payment{
		PaymentReference: newPaymentReference(now),
		AgencyID:         b.AgencyID,
		BookingID:        b.ID,
		Type:             domain.PaymentTypeExcessCharge,
		Method:           domain.PaymentMethodCash,
		Amount:           b.ExtraMileageRate.MulInt(excessKm),
		Status:           domain.PaymentStatusPending,
		Description:      fmt.Sprintf("excess mileage: %d km over the %d km limit", excessKm, b.MileageLimit),
	}

	err := withStoreRetry(ctx, "payment.create_excess", func() error {
		return s.payments.Create(ctx, payment)
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}
