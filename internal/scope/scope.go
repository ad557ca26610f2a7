// Package scope enforces tenant isolation. Every core operation
// resolves the target's true owning agency from the store first, then
// checks it here; client-supplied agency fields are never trusted.
package scope

import (
	"errors"

	"fleetrental-backend/internal/domain"
)

// Authorize checks that the principal may act on the given agency.
// SUPER_ADMIN passes unconditionally; an owner passes for agencies it
// owns; staff passes for its single assigned agency. CLIENT principals
// have no agency-level access at all.
func Authorize(p domain.Principal, agencyID int64) error {
	switch p.Role {
	case domain.RoleSuperAdmin:
		return nil
	case domain.RoleOwner:
		for _, id := range p.OwnedAgencyIDs {
			if id == agencyID {
				return nil
			}
		}
		return domain.ErrForbiddenScope
	case domain.RoleManager, domain.RoleAgentCounter, domain.RoleAgentFleet:
		if p.AgencyID == agencyID {
			return nil
		}
		return domain.ErrForbiddenScope
	default:
		return domain.ErrForbiddenScope
	}
}

// AuthorizeCustomer checks access to customer-owned records. A CLIENT
// principal may only touch records tied to its own customer id; any
// other role falls back to agency scoping via Authorize.
func AuthorizeCustomer(p domain.Principal, agencyID, customerID int64) error {
	if p.Role == domain.RoleClient {
		if p.CustomerID != 0 && p.CustomerID == customerID {
			return nil
		}
		return domain.ErrForbiddenScope
	}
	return Authorize(p, agencyID)
}

// AuthorizeBooking applies the per-record rule for bookings: staff and
// owners need agency scope, clients need to be the booking's customer.
func AuthorizeBooking(p domain.Principal, b *domain.Booking) error {
	return AuthorizeCustomer(p, b.AgencyID, b.CustomerID)
}

// Hide converts a scope failure on a record lookup into ErrNotFound.
// An out-of-scope record must be indistinguishable from a missing one,
// so existence never leaks across tenants.
func Hide(err error) error {
	if errors.Is(err, domain.ErrForbiddenScope) {
		return domain.ErrNotFound
	}
	return err
}
