package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fleetrental-backend/internal/domain"
)

func TestAuthorize(t *testing.T) {
	t.Run("SuperAdminPassesEverywhere", func(t *testing.T) {
		p := domain.Principal{Role: domain.RoleSuperAdmin}
		assert.NoError(t, Authorize(p, 1))
		assert.NoError(t, Authorize(p, 999))
	})

	t.Run("OwnerLimitedToOwnedAgencies", func(t *testing.T) {
		p := domain.Principal{Role: domain.RoleOwner, OwnedAgencyIDs: []int64{1, 3}}
		assert.NoError(t, Authorize(p, 1))
		assert.NoError(t, Authorize(p, 3))
		assert.ErrorIs(t, Authorize(p, 2), domain.ErrForbiddenScope)
	})

	t.Run("StaffLimitedToAssignedAgency", func(t *testing.T) {
		for _, role := range []domain.UserRole{domain.RoleManager, domain.RoleAgentCounter, domain.RoleAgentFleet} {
			p := domain.Principal{Role: role, AgencyID: 5}
			assert.NoError(t, Authorize(p, 5), string(role))
			assert.ErrorIs(t, Authorize(p, 6), domain.ErrForbiddenScope, string(role))
		}
	})

	t.Run("ClientHasNoAgencyScope", func(t *testing.T) {
		p := domain.Principal{Role: domain.RoleClient, AgencyID: 5, CustomerID: 7}
		assert.ErrorIs(t, Authorize(p, 5), domain.ErrForbiddenScope)
	})

	t.Run("UnknownRoleForbidden", func(t *testing.T) {
		assert.ErrorIs(t, Authorize(domain.Principal{}, 1), domain.ErrForbiddenScope)
	})
}

func TestAuthorizeCustomer(t *testing.T) {
	t.Run("ClientReachesOwnRecords", func(t *testing.T) {
		p := domain.Principal{Role: domain.RoleClient, CustomerID: 7}
		assert.NoError(t, AuthorizeCustomer(p, 1, 7))
		assert.ErrorIs(t, AuthorizeCustomer(p, 1, 8), domain.ErrForbiddenScope)
	})

	t.Run("ClientWithoutCustomerIDForbidden", func(t *testing.T) {
		p := domain.Principal{Role: domain.RoleClient}
		assert.ErrorIs(t, AuthorizeCustomer(p, 1, 0), domain.ErrForbiddenScope)
	})

	t.Run("StaffFallsBackToAgencyScope", func(t *testing.T) {
		p := domain.Principal{Role: domain.RoleManager, AgencyID: 1}
		assert.NoError(t, AuthorizeCustomer(p, 1, 7))
		assert.ErrorIs(t, AuthorizeCustomer(p, 2, 7), domain.ErrForbiddenScope)
	})
}

func TestHide(t *testing.T) {
	assert.ErrorIs(t, Hide(domain.ErrForbiddenScope), domain.ErrNotFound)
	assert.NoError(t, Hide(nil))

	other := domain.ErrInvalidDateRange
	assert.ErrorIs(t, Hide(other), other)
}

func TestAuthorizeBooking(t *testing.T) {
	booking := &domain.Booking{AgencyID: 1, CustomerID: 7}

	assert.NoError(t, AuthorizeBooking(domain.Principal{Role: domain.RoleClient, CustomerID: 7}, booking))
	assert.ErrorIs(t, AuthorizeBooking(domain.Principal{Role: domain.RoleClient, CustomerID: 8}, booking), domain.ErrForbiddenScope)
	assert.NoError(t, AuthorizeBooking(domain.Principal{Role: domain.RoleManager, AgencyID: 1}, booking))
	assert.ErrorIs(t, AuthorizeBooking(domain.Principal{Role: domain.RoleManager, AgencyID: 2}, booking), domain.ErrForbiddenScope)
}
