package http

import (
	"net/http"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/money"
	"fleetrental-backend/internal/service"
)

type PaymentHandler struct {
	payments service.PaymentService
}

func NewPaymentHandler(payments service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type recordPaymentRequest struct {
	BookingID   int64                `json:"booking_id"`
	Type        domain.PaymentType   `json:"type"`
	Method      domain.PaymentMethod `json:"method"`
	Amount      money.Amount         `json:"amount"`
	Description string               `json:"description"`
}

func (h *PaymentHandler) Record(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	var req recordPaymentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	payment, err := h.payments.Record(r.Context(), p, service.RecordPaymentInput{
		BookingID:   req.BookingID,
		Type:        req.Type,
		Method:      req.Method,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, payment)
}

func (h *PaymentHandler) Complete(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	payment, err := h.payments.Complete(r.Context(), p, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

func (h *PaymentHandler) ListByBooking(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	payments, err := h.payments.ListByBooking(r.Context(), p, bookingID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"payments": payments})
}
