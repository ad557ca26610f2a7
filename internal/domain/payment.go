package domain

import (
	"time"

	"fleetrental-backend/internal/money"
)

type PaymentType string

const (
	PaymentTypeRentalFee    PaymentType = "RENTAL_FEE"
	PaymentTypeDeposit      PaymentType = "DEPOSIT"
	PaymentTypeExcessCharge PaymentType = "EXCESS_CHARGE"
	PaymentTypeDamageCharge PaymentType = "DAMAGE_CHARGE"
	PaymentTypeLateFee      PaymentType = "LATE_FEE"
	PaymentTypeRefund       PaymentType = "REFUND"
)

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

// Payment is a monetary movement tied to a booking. Several payments may
// exist per booking; nothing ties their sum to the booking total.
type Payment struct {
	ID               int64         `json:"id"`
	PaymentReference string        `json:"payment_reference"`
	AgencyID         int64         `json:"agency_id"`
	BookingID        int64         `json:"booking_id"`
	Type             PaymentType   `json:"type"`
	Method           PaymentMethod `json:"method"`
	Amount           money.Amount  `json:"amount"`
	Status           PaymentStatus `json:"status"`
	Description      string        `json:"description,omitempty"`
	ProcessedByID    int64         `json:"processed_by_id,omitempty"`
	PaidAt           *time.Time    `json:"paid_at,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}
