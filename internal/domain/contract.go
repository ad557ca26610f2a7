package domain

import (
	"time"

	"fleetrental-backend/internal/money"
)

type ContractStatus string

const (
	ContractStatusDraft            ContractStatus = "DRAFT"
	ContractStatusPendingSignature ContractStatus = "PENDING_SIGNATURE"
	ContractStatusSigned           ContractStatus = "SIGNED"
	ContractStatusCompleted        ContractStatus = "COMPLETED"
	ContractStatusCancelled        ContractStatus = "CANCELLED"
)

// Contract is the formal rental agreement derived from a confirmed
// booking. One contract per booking; it carries its own deposit and
// excess terms and can be edited or cancelled independently, but it
// never exists without its booking.
type Contract struct {
	ID             int64          `json:"id"`
	ContractNumber string         `json:"contract_number"`
	AgencyID       int64          `json:"agency_id"`
	BookingID      int64          `json:"booking_id"`
	Status         ContractStatus `json:"status"`
	DepositAmount  money.Amount   `json:"deposit_amount"`
	ExcessAmount   money.Amount   `json:"excess_amount"`
	MileageLimit   int64          `json:"mileage_limit,omitempty"`
	Terms          string         `json:"terms,omitempty"`
	SignedAt       *time.Time     `json:"signed_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
