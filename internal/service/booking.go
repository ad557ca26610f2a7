package service

import (
	"context"
	"time"

	"fleetrental-backend/internal/availability"
	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/logger"
	"fleetrental-backend/internal/pricing"
	"fleetrental-backend/internal/repository"
	"fleetrental-backend/internal/scope"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type bookingService struct {
	bookings  repository.BookingRepository
	vehicles  repository.VehicleRepository
	customers repository.CustomerRepository
	payments  PaymentService
	email     EmailService
	policy    PricingPolicy
}

func NewBookingService(
	bookings repository.BookingRepository,
	vehicles repository.VehicleRepository,
	customers repository.CustomerRepository,
	payments PaymentService,
	email EmailService,
	policy PricingPolicy,
) BookingService {
	return &bookingService{
		bookings:  bookings,
		vehicles:  vehicles,
		customers: customers,
		payments:  payments,
		email:     email,
		policy:    policy,
	}
}

func (s *bookingService) loadVehicle(ctx context.Context, id int64) (*domain.Vehicle, error) {
	var v *domain.Vehicle
	err := withStoreRetry(ctx, "vehicle.get", func() error {
		var err error
		v, err = s.vehicles.GetByID(ctx, id)
		return err
	})
	return v, err
}

func (s *bookingService) loadCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	var c *domain.Customer
	err := withStoreRetry(ctx, "customer.get", func() error {
		var err error
		c, err = s.customers.GetByID(ctx, id)
		return err
	})
	return c, err
}

func (s *bookingService) loadBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	var b *domain.Booking
	err := withStoreRetry(ctx, "booking.get", func() error {
		var err error
		b, err = s.bookings.GetByID(ctx, id)
		return err
	})
	return b, err
}

// attachSummaries fills the read-side vehicle and customer snippets.
// Failures here degrade the response, they never fail the operation.
func (s *bookingService) attachSummaries(ctx context.Context, b *domain.Booking) {
	if v, err := s.vehicles.GetByID(ctx, b.VehicleID); err == nil {
		b.Vehicle = v
	} else {
		logger.WarnContext(ctx, "failed to load vehicle summary", "vehicle_id", b.VehicleID, "error", err)
	}
	if c, err := s.customers.GetByID(ctx, b.CustomerID); err == nil {
		b.Customer = c
	} else {
		logger.WarnContext(ctx, "failed to load customer summary", "customer_id", b.CustomerID, "error", err)
	}
}

// notify runs a lifecycle email send without letting delivery problems
// leak into the booking result.
func (s *bookingService) notify(ctx context.Context, event string, send func() error) {
	if s.email == nil {
		return
	}
	if err := send(); err != nil {
		logger.WarnContext(ctx, "notification delivery failed", "event", event, "error", err)
	}
}

func (s *bookingService) CheckAvailability(ctx context.Context, p domain.Principal, vehicleID int64, start, end time.Time) (*AvailabilityResult, error) {
	if err := availability.ValidateRange(start, end); err != nil {
		return nil, err
	}

	vehicle, err := s.loadVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	// Clients may query the catalog; everyone else needs agency scope.
	if p.Role != domain.RoleClient {
		if err := scope.Authorize(p, vehicle.AgencyID); err != nil {
			return nil, err
		}
	}

	if !vehicle.Active || vehicle.Status == domain.VehicleStatusOutOfService {
		return &AvailabilityResult{Available: false, Reason: "vehicle is not in service"}, nil
	}
	if vehicle.Status == domain.VehicleStatusMaintenance {
		return &AvailabilityResult{Available: false, Reason: "vehicle is under maintenance"}, nil
	}

	var existing []domain.Booking
	err = withStoreRetry(ctx, "booking.list_blocking", func() error {
		var err error
		existing, err = s.bookings.ListByVehicleAndStatuses(ctx, vehicleID, domain.BlockingStatuses)
		return err
	})
	if err != nil {
		return nil, err
	}

	conflicts := availability.FindConflicts(existing, start, end)
	if len(conflicts) > 0 {
		return &AvailabilityResult{
			Available: false,
			Reason:    "vehicle is already booked for the requested dates",
			Conflicts: conflicts,
		}, nil
	}

	quote, err := pricing.Calculate(vehicle.DailyRate, start, end, s.policy.TaxRatePercent, s.policy.StampFee)
	if err != nil {
		return nil, err
	}
	return &AvailabilityResult{Available: true, Quote: &quote}, nil
}

func (s *bookingService) Create(ctx context.Context, p domain.Principal, in CreateBookingInput) (*domain.Booking, error) {
	if in.VehicleID <= 0 {
		return nil, &domain.ValidationError{Field: "vehicle_id", Reason: "must be a positive id"}
	}
	if in.CustomerID <= 0 {
		return nil, &domain.ValidationError{Field: "customer_id", Reason: "must be a positive id"}
	}
	if in.DepositAmount < 0 {
		return nil, &domain.ValidationError{Field: "deposit_amount", Reason: "must not be negative"}
	}
	if err := availability.ValidateRange(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}

	vehicle, err := s.loadVehicle(ctx, in.VehicleID)
	if err != nil {
		return nil, err
	}
	if err := scope.AuthorizeCustomer(p, vehicle.AgencyID, in.CustomerID); err != nil {
		return nil, err
	}
	if !vehicle.Active || vehicle.Status == domain.VehicleStatusOutOfService {
		return nil, &domain.ValidationError{Field: "vehicle_id", Reason: "vehicle is not in service"}
	}
	if vehicle.Status == domain.VehicleStatusMaintenance {
		return nil, &domain.ValidationError{Field: "vehicle_id", Reason: "vehicle is under maintenance"}
	}

	customer, err := s.loadCustomer(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer.AgencyID != vehicle.AgencyID {
		return nil, &domain.ValidationError{Field: "customer_id", Reason: "customer belongs to a different agency"}
	}
	if customer.Blacklisted {
		return nil, &domain.ValidationError{Field: "customer_id", Reason: "customer is blacklisted"}
	}
	if !customer.Active {
		return nil, &domain.ValidationError{Field: "customer_id", Reason: "customer account is inactive"}
	}

	quote, err := pricing.Calculate(vehicle.DailyRate, in.StartDate, in.EndDate, s.policy.TaxRatePercent, s.policy.StampFee)
	if err != nil {
		return nil, err
	}

	fuelPolicy := in.FuelPolicy
	if fuelPolicy == "" {
		fuelPolicy = domain.DefaultFuelPolicy
	}

	now := time.Now()
	booking := &domain.Booking{
		BookingNumber:    newBookingNumber(now),
		AgencyID:         vehicle.AgencyID,
		VehicleID:        vehicle.ID,
		CustomerID:       customer.ID,
		CreatedByID:      p.UserID,
		StartDate:        in.StartDate,
		EndDate:          in.EndDate,
		DailyRate:        quote.DailyRate,
		DurationDays:     quote.DurationDays,
		Subtotal:         quote.Subtotal,
		TaxAmount:        quote.TaxAmount,
		StampFee:         quote.StampFee,
		TotalAmount:      quote.TotalAmount,
		DepositAmount:    in.DepositAmount,
		Status:           domain.BookingStatusPending,
		MileageLimit:     in.MileageLimit,
		ExtraMileageRate: in.ExtraMileageRate,
		FuelPolicy:       fuelPolicy,
		Notes:            in.Notes,
	}

	err = withStoreRetry(ctx, "booking.create", func() error {
		return s.bookings.CreateIfAvailable(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "booking created",
		"booking_id", booking.ID,
		"booking_number", booking.BookingNumber,
		"vehicle_id", vehicle.ID,
		"customer_id", customer.ID,
		"total", booking.TotalAmount.String(),
	)

	booking.Vehicle = vehicle
	booking.Customer = customer

	s.notify(ctx, "booking_created", func() error {
		return s.email.SendBookingCreated(ctx, customer.Email, customer.FullName(),
			booking.BookingNumber, vehicle.LicensePlate, booking.StartDate, booking.EndDate, booking.TotalAmount)
	})

	return booking, nil
}

func (s *bookingService) Get(ctx context.Context, p domain.Principal, id int64) (*domain.Booking, error) {
	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := scope.AuthorizeBooking(p, booking); err != nil {
		return nil, scope.Hide(err)
	}
	s.attachSummaries(ctx, booking)
	return booking, nil
}

func (s *bookingService) List(ctx context.Context, p domain.Principal, agencyID int64, filter repository.BookingFilter, page, pageSize int32) ([]domain.Booking, int32, error) {
	if err := scope.Authorize(p, agencyID); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	var (
		bookings []domain.Booking
		total    int32
	)
	err := withStoreRetry(ctx, "booking.list", func() error {
		var err error
		bookings, total, err = s.bookings.ListByAgency(ctx, agencyID, filter, page, pageSize)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (s *bookingService) Update(ctx context.Context, p domain.Principal, id int64, in UpdateBookingInput) (*domain.Booking, error) {
	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := scope.AuthorizeBooking(p, booking); err != nil {
		return nil, scope.Hide(err)
	}

	if booking.Status != domain.BookingStatusPending && booking.Status != domain.BookingStatusConfirmed {
		return nil, &domain.ValidationError{Field: "status", Reason: "only pending or confirmed bookings can be edited"}
	}
	loadedStatus := booking.Status

	if in.StartDate != nil || in.EndDate != nil {
		// Dates are only negotiable before the booking holds the vehicle.
		if booking.Status != domain.BookingStatusPending {
			return nil, &domain.ValidationError{Field: "start_date", Reason: "dates can only change while the booking is pending"}
		}
		start, end := booking.StartDate, booking.EndDate
		if in.StartDate != nil {
			start = *in.StartDate
		}
		if in.EndDate != nil {
			end = *in.EndDate
		}
		if err := availability.ValidateRange(start, end); err != nil {
			return nil, err
		}

		// Re-price with the snapshotted daily rate and stamp fee; a later
		// vehicle rate change never reaches an existing booking.
		quote, err := pricing.Calculate(booking.DailyRate, start, end, s.policy.TaxRatePercent, booking.StampFee)
		if err != nil {
			return nil, err
		}
		booking.StartDate = start
		booking.EndDate = end
		booking.DurationDays = quote.DurationDays
		booking.Subtotal = quote.Subtotal
		booking.TaxAmount = quote.TaxAmount
		booking.TotalAmount = quote.TotalAmount
	}

	if in.DepositAmount != nil {
		if *in.DepositAmount < 0 {
			return nil, &domain.ValidationError{Field: "deposit_amount", Reason: "must not be negative"}
		}
		booking.DepositAmount = *in.DepositAmount
	}
	if in.MileageLimit != nil {
		if *in.MileageLimit < 0 {
			return nil, &domain.ValidationError{Field: "mileage_limit", Reason: "must not be negative"}
		}
		booking.MileageLimit = *in.MileageLimit
	}
	if in.Notes != nil {
		booking.Notes = *in.Notes
	}

	err = withStoreRetry(ctx, "booking.update", func() error {
		return s.bookings.Update(ctx, booking, loadedStatus)
	})
	if err != nil {
		return nil, err
	}
	s.attachSummaries(ctx, booking)
	return booking, nil
}

func (s *bookingService) Confirm(ctx context.Context, p domain.Principal, id int64) (*domain.Booking, error) {
	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := scope.AuthorizeBooking(p, booking); err != nil {
		return nil, scope.Hide(err)
	}
	// Confirmation is a staff decision; clients cannot self-confirm.
	if err := scope.Authorize(p, booking.AgencyID); err != nil {
		return nil, err
	}
	if !booking.CanTransition(domain.BookingStatusConfirmed) {
		return nil, &domain.InvalidTransitionError{From: booking.Status, To: domain.BookingStatusConfirmed}
	}

	customer, err := s.loadCustomer(ctx, booking.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer.Blacklisted {
		return nil, &domain.ValidationError{Field: "customer_id", Reason: "customer is blacklisted"}
	}

	var confirmed *domain.Booking
	err = withStoreRetry(ctx, "booking.confirm", func() error {
		var err error
		confirmed, err = s.bookings.ConfirmIfAvailable(ctx, booking.ID, booking.StartDate, booking.EndDate)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "booking confirmed",
		"booking_id", confirmed.ID, "booking_number", confirmed.BookingNumber)

	confirmed.Customer = customer
	if v, err := s.vehicles.GetByID(ctx, confirmed.VehicleID); err == nil {
		confirmed.Vehicle = v
		s.notify(ctx, "booking_confirmed", func() error {
			return s.email.SendBookingConfirmed(ctx, customer.Email, customer.FullName(),
				confirmed.BookingNumber, v.LicensePlate)
		})
	}

	return confirmed, nil
}

func (s *bookingService) Start(ctx context.Context, p domain.Principal, id int64, odometer int64, fuel domain.FuelLevel) (*domain.Booking, error) {
	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := scope.AuthorizeBooking(p, booking); err != nil {
		return nil, scope.Hide(err)
	}
	if err := scope.Authorize(p, booking.AgencyID); err != nil {
		return nil, err
	}
	if odometer < 0 {
		return nil, &domain.ValidationError{Field: "odometer", Reason: "must not be negative"}
	}
	if !fuel.Valid() {
		return nil, &domain.ValidationError{Field: "fuel_level", Reason: "unknown fuel level"}
	}

	from := booking.Status
	if err := booking.Transition(domain.BookingStatusInProgress); err != nil {
		return nil, err
	}
	now := time.Now()
	booking.PickupAt = &now
	booking.InitialMileage = &odometer
	booking.InitialFuelLevel = fuel

	// One transaction: the booking cannot go IN_PROGRESS while the
	// vehicle still reads AVAILABLE.
	err = withStoreRetry(ctx, "booking.start", func() error {
		return s.bookings.StartRental(ctx, booking, from)
	})
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "rental started",
		"booking_id", booking.ID, "booking_number", booking.BookingNumber, "odometer", odometer)

	s.attachSummaries(ctx, booking)
	return booking, nil
}

func (s *bookingService) Complete(ctx context.Context, p domain.Principal, id int64, odometer int64, fuel domain.FuelLevel) (*domain.Booking, error) {
	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := scope.AuthorizeBooking(p, booking); err != nil {
		return nil, scope.Hide(err)
	}
	if err := scope.Authorize(p, booking.AgencyID); err != nil {
		return nil, err
	}
	if odometer < 0 {
		return nil, &domain.ValidationError{Field: "odometer", Reason: "must not be negative"}
	}
	if booking.InitialMileage != nil && odometer < *booking.InitialMileage {
		return nil, &domain.ValidationError{Field: "odometer", Reason: "final mileage is below the pickup reading"}
	}
	if !fuel.Valid() {
		return nil, &domain.ValidationError{Field: "fuel_level", Reason: "unknown fuel level"}
	}

	from := booking.Status
	if err := booking.Transition(domain.BookingStatusCompleted); err != nil {
		return nil, err
	}
	now := time.Now()
	booking.ReturnAt = &now
	booking.FinalMileage = &odometer
	booking.FinalFuelLevel = fuel

	err = withStoreRetry(ctx, "booking.complete", func() error {
		return s.bookings.CompleteRental(ctx, booking, from)
	})
	if err != nil {
		return nil, err
	}

	s.recordExcessCharge(ctx, booking)

	logger.InfoContext(ctx, "rental completed",
		"booking_id", booking.ID, "booking_number", booking.BookingNumber, "odometer", odometer)

	s.attachSummaries(ctx, booking)
	if booking.Customer != nil {
		s.notify(ctx, "booking_completed", func() error {
			return s.email.SendBookingCompleted(ctx, booking.Customer.Email, booking.Customer.FullName(),
				booking.BookingNumber, booking.TotalAmount)
		})
	}
	return booking, nil
}

// recordExcessCharge books an over-mileage charge when the contracted
// limit was exceeded. The completed return stands even if this fails.
func (s *bookingService) recordExcessCharge(ctx context.Context, booking *domain.Booking) {
	if s.payments == nil || booking.MileageLimit <= 0 || booking.ExtraMileageRate <= 0 {
		return
	}
	if booking.InitialMileage == nil || booking.FinalMileage == nil {
		return
	}
	driven := *booking.FinalMileage - *booking.InitialMileage
	if driven <= booking.MileageLimit {
		return
	}
	excessKm := driven - booking.MileageLimit
	payment, err := s.payments.RecordExcessCharge(ctx, booking, excessKm)
	if err != nil {
		logger.ErrorContext(ctx, "failed to record excess mileage charge",
			"booking_id", booking.ID, "excess_km", excessKm, "error", err)
		return
	}
	logger.InfoContext(ctx, "excess mileage charge recorded",
		"booking_id", booking.ID, "payment_id", payment.ID,
		"excess_km", excessKm, "amount", payment.Amount.String())
}

func (s *bookingService) Cancel(ctx context.Context, p domain.Principal, id int64, reason string) (*domain.Booking, error) {
	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	// Clients may cancel their own bookings.
	if err := scope.AuthorizeBooking(p, booking); err != nil {
		return nil, scope.Hide(err)
	}

	from := booking.Status
	if err := booking.Transition(domain.BookingStatusCancelled); err != nil {
		return nil, err
	}
	booking.CancellationReason = reason

	err = withStoreRetry(ctx, "booking.cancel", func() error {
		return s.bookings.Update(ctx, booking, from)
	})
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "booking cancelled",
		"booking_id", booking.ID, "booking_number", booking.BookingNumber, "reason", reason)

	s.attachSummaries(ctx, booking)
	if booking.Customer != nil {
		s.notify(ctx, "booking_cancelled", func() error {
			return s.email.SendBookingCancelled(ctx, booking.Customer.Email, booking.Customer.FullName(),
				booking.BookingNumber, reason)
		})
	}
	return booking, nil
}
