package http

import (
	"net/http"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/money"
	"fleetrental-backend/internal/repository"
	"fleetrental-backend/internal/service"
)

type BookingHandler struct {
	bookings service.BookingService
}

func NewBookingHandler(bookings service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// CheckAvailability answers GET /vehicles/{id}/availability?start=&end=.
// A conflicting range comes back as 200 with available=false, not an
// error; only malformed requests fail.
func (h *BookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	vehicleID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	start, err := queryDate(r, "start")
	if err != nil {
		writeError(w, r, err)
		return
	}
	end, err := queryDate(r, "end")
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.bookings.CheckAvailability(r.Context(), p, vehicleID, start, end)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type createBookingRequest struct {
	VehicleID        int64        `json:"vehicle_id"`
	CustomerID       int64        `json:"customer_id"`
	StartDate        string       `json:"start_date"`
	EndDate          string       `json:"end_date"`
	DepositAmount    money.Amount `json:"deposit_amount"`
	MileageLimit     int64        `json:"mileage_limit"`
	ExtraMileageRate money.Amount `json:"extra_mileage_rate"`
	FuelPolicy       string       `json:"fuel_policy"`
	Notes            string       `json:"notes"`
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	var req createBookingRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		writeError(w, r, err)
		return
	}

	booking, err := h.bookings.Create(r.Context(), p, service.CreateBookingInput{
		VehicleID:        req.VehicleID,
		CustomerID:       req.CustomerID,
		StartDate:        start,
		EndDate:          end,
		DepositAmount:    req.DepositAmount,
		MileageLimit:     req.MileageLimit,
		ExtraMileageRate: req.ExtraMileageRate,
		FuelPolicy:       req.FuelPolicy,
		Notes:            req.Notes,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	booking, err := h.bookings.Get(r.Context(), p, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

type bookingListResponse struct {
	Bookings []domain.Booking `json:"bookings"`
	Total    int32            `json:"total"`
	Page     int32            `json:"page"`
	PageSize int32            `json:"page_size"`
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	agencyID, err := pathID(r, "agencyID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	filter := repository.BookingFilter{
		Status: domain.BookingStatus(q.Get("status")),
	}
	filter.VehicleID = queryID(q.Get("vehicle_id"))
	filter.CustomerID = queryID(q.Get("customer_id"))
	page, pageSize := queryPagination(r)

	bookings, total, err := h.bookings.List(r.Context(), p, agencyID, filter, page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if page < 1 {
		page = 1
	}
	writeJSON(w, http.StatusOK, bookingListResponse{
		Bookings: bookings,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

type updateBookingRequest struct {
	StartDate     *string       `json:"start_date"`
	EndDate       *string       `json:"end_date"`
	DepositAmount *money.Amount `json:"deposit_amount"`
	MileageLimit  *int64        `json:"mileage_limit"`
	Notes         *string       `json:"notes"`
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updateBookingRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	in := service.UpdateBookingInput{
		DepositAmount: req.DepositAmount,
		MileageLimit:  req.MileageLimit,
		Notes:         req.Notes,
	}
	if req.StartDate != nil {
		start, err := parseDate("start_date", *req.StartDate)
		if err != nil {
			writeError(w, r, err)
			return
		}
		in.StartDate = &start
	}
	if req.EndDate != nil {
		end, err := parseDate("end_date", *req.EndDate)
		if err != nil {
			writeError(w, r, err)
			return
		}
		in.EndDate = &end
	}

	booking, err := h.bookings.Update(r.Context(), p, id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	booking, err := h.bookings.Confirm(r.Context(), p, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

type handoverRequest struct {
	Odometer  int64            `json:"odometer"`
	FuelLevel domain.FuelLevel `json:"fuel_level"`
}

func (h *BookingHandler) Start(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req handoverRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	booking, err := h.bookings.Start(r.Context(), p, id, req.Odometer, req.FuelLevel)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) Complete(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req handoverRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	booking, err := h.bookings.Complete(r.Context(), p, id, req.Odometer, req.FuelLevel)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req cancelBookingRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	booking, err := h.bookings.Cancel(r.Context(), p, id, req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}
