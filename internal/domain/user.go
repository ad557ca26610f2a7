package domain

import "time"

type UserRole string

const (
	RoleSuperAdmin   UserRole = "SUPER_ADMIN"   // platform administrator, not tied to an agency
	RoleOwner        UserRole = "OWNER"         // owns one or more agencies
	RoleManager      UserRole = "MANAGER"       // manages a single agency
	RoleAgentCounter UserRole = "AGENT_COUNTER" // front-counter staff
	RoleAgentFleet   UserRole = "AGENT_FLEET"   // back-lot fleet staff
	RoleClient       UserRole = "CLIENT"        // end customer portal user
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	AgencyID     int64     `json:"agency_id,omitempty"`   // staff roles
	CustomerID   int64     `json:"customer_id,omitempty"` // CLIENT role
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Principal is the resolved identity every operation receives. Scope
// checks always run against this, never against client-supplied fields.
type Principal struct {
	UserID         int64
	Role           UserRole
	AgencyID       int64   // staff roles: the single assigned agency
	OwnedAgencyIDs []int64 // OWNER role: agencies under this principal
	CustomerID     int64   // CLIENT role: the customer this principal is
}
