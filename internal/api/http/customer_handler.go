package http

import (
	"net/http"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/service"
)

type CustomerHandler struct {
	customers service.CustomerService
}

func NewCustomerHandler(customers service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

type customerRequest struct {
	AgencyID      int64  `json:"agency_id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	LicenseNumber string `json:"license_number"`
	Notes         string `json:"notes"`
}

func (req *customerRequest) toDomain() *domain.Customer {
	return &domain.Customer{
		AgencyID:      req.AgencyID,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Phone:         req.Phone,
		LicenseNumber: req.LicenseNumber,
		Notes:         req.Notes,
	}
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	var req customerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	customer := req.toDomain()
	if err := h.customers.Add(r.Context(), p, customer); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, customer)
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	customer, err := h.customers.Get(r.Context(), p, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req customerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	customer := req.toDomain()
	customer.ID = id
	if err := h.customers.Update(r.Context(), p, customer); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

type blacklistRequest struct {
	Blacklisted bool   `json:"blacklisted"`
	Reason      string `json:"reason"`
}

func (h *CustomerHandler) SetBlacklist(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req blacklistRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.customers.SetBlacklist(r.Context(), p, id, req.Blacklisted, req.Reason); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type customerListResponse struct {
	Customers []domain.Customer `json:"customers"`
	Total     int32             `json:"total"`
	Page      int32             `json:"page"`
	PageSize  int32             `json:"page_size"`
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	agencyID, err := pathID(r, "agencyID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, pageSize := queryPagination(r)

	customers, total, err := h.customers.List(r.Context(), p, agencyID, page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if page < 1 {
		page = 1
	}
	writeJSON(w, http.StatusOK, customerListResponse{
		Customers: customers,
		Total:     total,
		Page:      page,
		PageSize:  pageSize,
	})
}
