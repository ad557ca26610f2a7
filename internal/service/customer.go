package service

import (
	"context"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/logger"
	"fleetrental-backend/internal/repository"
	"fleetrental-backend/internal/scope"
)

type customerService struct {
	customers repository.CustomerRepository
}

func NewCustomerService(customers repository.CustomerRepository) CustomerService {
	return &customerService{customers: customers}
}

func (s *customerService) Add(ctx context.Context, p domain.Principal, c *domain.Customer) error {
	if err := scope.Authorize(p, c.AgencyID); err != nil {
		return err
	}
	if c.FirstName == "" || c.LastName == "" {
		return &domain.ValidationError{Field: "name", Reason: "first and last name are required"}
	}
	if c.Email == "" {
		return &domain.ValidationError{Field: "email", Reason: "must not be empty"}
	}
	c.Active = true

	err := withStoreRetry(ctx, "customer.create", func() error {
		return s.customers.Create(ctx, c)
	})
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "customer added", "customer_id", c.ID, "agency_id", c.AgencyID)
	return nil
}

func (s *customerService) Get(ctx context.Context, p domain.Principal, id int64) (*domain.Customer, error) {
	var c *domain.Customer
	err := withStoreRetry(ctx, "customer.get", func() error {
		var err error
		c, err = s.customers.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := scope.AuthorizeCustomer(p, c.AgencyID, c.ID); err != nil {
		return nil, scope.Hide(err)
	}
	return c, nil
}

func (s *customerService) Update(ctx context.Context, p domain.Principal, c *domain.Customer) error {
	var current *domain.Customer
	err := withStoreRetry(ctx, "customer.get", func() error {
		var err error
		current, err = s.customers.GetByID(ctx, c.ID)
		return err
	})
	if err != nil {
		return err
	}
	if err := scope.AuthorizeCustomer(p, current.AgencyID, current.ID); err != nil {
		return scope.Hide(err)
	}
	if c.AgencyID != current.AgencyID {
		return &domain.ValidationError{Field: "agency_id", Reason: "customers cannot move between agencies"}
	}
	// Blacklisting goes through SetBlacklist, never a generic update.
	c.Blacklisted = current.Blacklisted
	c.BlacklistReason = current.BlacklistReason

	return withStoreRetry(ctx, "customer.update", func() error {
		return s.customers.Update(ctx, c)
	})
}

func (s *customerService) SetBlacklist(ctx context.Context, p domain.Principal, id int64, blacklisted bool, reason string) error {
	var c *domain.Customer
	err := withStoreRetry(ctx, "customer.get", func() error {
		var err error
		c, err = s.customers.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return err
	}
	if err := scope.AuthorizeCustomer(p, c.AgencyID, c.ID); err != nil {
		return scope.Hide(err)
	}
	// Blacklisting is an agency decision; clients never reach it.
	if err := scope.Authorize(p, c.AgencyID); err != nil {
		return err
	}
	if blacklisted && reason == "" {
		return &domain.ValidationError{Field: "reason", Reason: "a reason is required to blacklist"}
	}
	if !blacklisted {
		reason = ""
	}

	err = withStoreRetry(ctx, "customer.set_blacklisted", func() error {
		return s.customers.SetBlacklisted(ctx, id, blacklisted, reason)
	})
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "customer blacklist updated",
		"customer_id", id, "blacklisted", blacklisted)
	return nil
}

func (s *customerService) List(ctx context.Context, p domain.Principal, agencyID int64, page, pageSize int32) ([]domain.Customer, int32, error) {
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
		customers []domain.Customer
		total     int32
	)
	err := withStoreRetry(ctx, "customer.list", func() error {
		var err error
		customers, total, err = s.customers.ListByAgency(ctx, agencyID, page, pageSize)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}
