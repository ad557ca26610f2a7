package http

import (
	"net/http"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/money"
	"fleetrental-backend/internal/service"
)

type VehicleHandler struct {
	vehicles service.VehicleService
}

func NewVehicleHandler(vehicles service.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles}
}

type vehicleRequest struct {
	AgencyID     int64                `json:"agency_id"`
	LicensePlate string               `json:"license_plate"`
	Brand        string               `json:"brand"`
	Model        string               `json:"model"`
	Year         int32                `json:"year"`
	Color        string               `json:"color"`
	Mileage      int64                `json:"mileage"`
	DailyRate    money.Amount         `json:"daily_rate"`
	Status       domain.VehicleStatus `json:"status"`
	Notes        string               `json:"notes"`
}

func (req *vehicleRequest) toDomain() *domain.Vehicle {
	return &domain.Vehicle{
		AgencyID:     req.AgencyID,
		LicensePlate: req.LicensePlate,
		Brand:        req.Brand,
		Model:        req.Model,
		Year:         req.Year,
		Color:        req.Color,
		Mileage:      req.Mileage,
		DailyRate:    req.DailyRate,
		Status:       req.Status,
		Notes:        req.Notes,
	}
}

func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	var req vehicleRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	vehicle := req.toDomain()
	if err := h.vehicles.Add(r.Context(), p, vehicle); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, vehicle)
}

func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	vehicle, err := h.vehicles.Get(r.Context(), p, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req vehicleRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	vehicle := req.toDomain()
	vehicle.ID = id
	if err := h.vehicles.Update(r.Context(), p, vehicle); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.vehicles.Delete(r.Context(), p, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type vehicleListResponse struct {
	Vehicles []domain.Vehicle `json:"vehicles"`
	Total    int32            `json:"total"`
	Page     int32            `json:"page"`
	PageSize int32            `json:"page_size"`
}

func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	agencyID, err := pathID(r, "agencyID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, pageSize := queryPagination(r)

	vehicles, total, err := h.vehicles.List(r.Context(), p, agencyID, page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if page < 1 {
		page = 1
	}
	writeJSON(w, http.StatusOK, vehicleListResponse{
		Vehicles: vehicles,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *VehicleHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	agencyID, err := pathID(r, "agencyID")
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

	vehicles, err := h.vehicles.ListAvailable(r.Context(), p, agencyID, start, end)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"vehicles": vehicles})
}
