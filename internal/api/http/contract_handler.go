package http

import (
	"net/http"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/money"
	"fleetrental-backend/internal/service"
)

type ContractHandler struct {
	contracts service.ContractService
}

func NewContractHandler(contracts service.ContractService) *ContractHandler {
	return &ContractHandler{contracts: contracts}
}

type createContractRequest struct {
	DepositAmount money.Amount `json:"deposit_amount"`
	ExcessAmount  money.Amount `json:"excess_amount"`
	MileageLimit  int64        `json:"mileage_limit"`
	Terms         string       `json:"terms"`
}

func (h *ContractHandler) CreateFromBooking(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req createContractRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	contract, err := h.contracts.CreateFromBooking(r.Context(), p, bookingID, service.ContractTerms{
		DepositAmount: req.DepositAmount,
		ExcessAmount:  req.ExcessAmount,
		MileageLimit:  req.MileageLimit,
		Terms:         req.Terms,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, contract)
}

func (h *ContractHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	contract, err := h.contracts.Get(r.Context(), p, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract)
}

func (h *ContractHandler) GetByBooking(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	contract, err := h.contracts.GetByBooking(r.Context(), p, bookingID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract)
}

func (h *ContractHandler) Sign(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	contract, err := h.contracts.Sign(r.Context(), p, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract)
}

func (h *ContractHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	contract, err := h.contracts.Cancel(r.Context(), p, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract)
}

type contractListResponse struct {
	Contracts []domain.Contract `json:"contracts"`
	Total     int32             `json:"total"`
	Page      int32             `json:"page"`
	PageSize  int32             `json:"page_size"`
}

func (h *ContractHandler) List(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	agencyID, err := pathID(r, "agencyID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, pageSize := queryPagination(r)

	contracts, total, err := h.contracts.List(r.Context(), p, agencyID, page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if page < 1 {
		page = 1
	}
	writeJSON(w, http.StatusOK, contractListResponse{
		Contracts: contracts,
		Total:     total,
		Page:      page,
		PageSize:  pageSize,
	})
}
