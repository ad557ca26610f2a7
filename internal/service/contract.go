package service

import (
	"context"
	"errors"
	"time"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/logger"
	"fleetrental-backend/internal/repository"
	"fleetrental-backend/internal/scope"
)

type contractService struct {
	contracts repository.ContractRepository
	bookings  repository.BookingRepository
}

func NewContractService(contracts repository.ContractRepository, bookings repository.BookingRepository) ContractService {
	return &contractService{contracts: contracts, bookings: bookings}
}

// CreateFromBooking issues the rental agreement for a confirmed booking.
// Terms left at zero values fall back to the booking's snapshot.
func (s *contractService) CreateFromBooking(ctx context.Context, p domain.Principal, bookingID int64, terms ContractTerms) (*domain.Contract, error) {
	var booking *domain.Booking
	err := withStoreRetry(ctx, "booking.get", func() error {
		var err error
		booking, err = s.bookings.GetByID(ctx, bookingID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := scope.Authorize(p, booking.AgencyID); err != nil {
		return nil, scope.Hide(err)
	}
	if booking.Status != domain.BookingStatusConfirmed && booking.Status != domain.BookingStatusInProgress {
		return nil, &domain.ValidationError{Field: "booking_id", Reason: "contract requires a confirmed booking"}
	}

	// One contract per booking.
	existing, err := s.contracts.GetByBookingID(ctx, bookingID)
	if err == nil && existing != nil {
		return nil, &domain.ValidationError{Field: "booking_id", Reason: "booking already has a contract"}
	}
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	deposit := terms.DepositAmount
	if deposit == 0 {
		deposit = booking.DepositAmount
	}
	mileageLimit := terms.MileageLimit
	if mileageLimit == 0 {
		mileageLimit = booking.MileageLimit
	}

	now := time.Now()
	contract := &domain.Contract{
		ContractNumber: newContractNumber(now),
		AgencyID:       booking.AgencyID,
		BookingID:      booking.ID,
		Status:         domain.ContractStatusPendingSignature,
		DepositAmount:  deposit,
		ExcessAmount:   terms.ExcessAmount,
		MileageLimit:   mileageLimit,
		Terms:          terms.Terms,
	}

	err = withStoreRetry(ctx, "contract.create", func() error {
		return s.contracts.Create(ctx, contract)
	})
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "contract created",
		"contract_id", contract.ID, "contract_number", contract.ContractNumber, "booking_id", booking.ID)
	return contract, nil
}

func (s *contractService) Get(ctx context.Context, p domain.Principal, id int64) (*domain.Contract, error) {
	var c *domain.Contract
	err := withStoreRetry(ctx, "contract.get", func() error {
		var err error
		c, err = s.contracts.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := s.authorizeContract(ctx, p, c); err != nil {
		return nil, scope.Hide(err)
	}
	return c, nil
}

func (s *contractService) GetByBooking(ctx context.Context, p domain.Principal, bookingID int64) (*domain.Contract, error) {
	var c *domain.Contract
	err := withStoreRetry(ctx, "contract.get_by_booking", func() error {
		var err error
		c, err = s.contracts.GetByBookingID(ctx, bookingID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := s.authorizeContract(ctx, p, c); err != nil {
		return nil, scope.Hide(err)
	}
	return c, nil
}

// authorizeContract resolves the contract's booking so CLIENT principals
// can reach their own agreements; staff use agency scope directly.
func (s *contractService) authorizeContract(ctx context.Context, p domain.Principal, c *domain.Contract) error {
	if p.Role != domain.RoleClient {
		return scope.Authorize(p, c.AgencyID)
	}
	booking, err := s.bookings.GetByID(ctx, c.BookingID)
	if err != nil {
		return err
	}
	return scope.AuthorizeBooking(p, booking)
}

func (s *contractService) Sign(ctx context.Context, p domain.Principal, id int64) (*domain.Contract, error) {
	var c *domain.Contract
	err := withStoreRetry(ctx, "contract.get", func() error {
		var err error
		c, err = s.contracts.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := s.authorizeContract(ctx, p, c); err != nil {
		return nil, scope.Hide(err)
	}
	if c.Status != domain.ContractStatusPendingSignature && c.Status != domain.ContractStatusDraft {
		return nil, &domain.ValidationError{Field: "status", Reason: "contract is not awaiting signature"}
	}

	now := time.Now()
	c.Status = domain.ContractStatusSigned
	c.SignedAt = &now

	err = withStoreRetry(ctx, "contract.sign", func() error {
		return s.contracts.Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "contract signed", "contract_id", c.ID, "contract_number", c.ContractNumber)
	return c, nil
}

func (s *contractService) Cancel(ctx context.Context, p domain.Principal, id int64) (*domain.Contract, error) {
	var c *domain.Contract
	err := withStoreRetry(ctx, "contract.get", func() error {
		var err error
		c, err = s.contracts.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := s.authorizeContract(ctx, p, c); err != nil {
		return nil, scope.Hide(err)
	}
	// Voiding an agreement is a staff decision.
	if err := scope.Authorize(p, c.AgencyID); err != nil {
		return nil, err
	}
	if c.Status == domain.ContractStatusCompleted || c.Status == domain.ContractStatusCancelled {
		return nil, &domain.ValidationError{Field: "status", Reason: "contract is already closed"}
	}

	c.Status = domain.ContractStatusCancelled
	err = withStoreRetry(ctx, "contract.cancel", func() error {
		return s.contracts.Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "contract cancelled", "contract_id", c.ID, "contract_number", c.ContractNumber)
	return c, nil
}

func (s *contractService) List(ctx context.Context, p domain.Principal, agencyID int64, page, pageSize int32) ([]domain.Contract, int32, error) {
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
		contracts []domain.Contract
		total     int32
	)
	err := withStoreRetry(ctx, "contract.list", func() error {
		var err error
		contracts, total, err = s.contracts.ListByAgency(ctx, agencyID, page, pageSize)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return contracts, total, nil
}
