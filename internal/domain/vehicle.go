package domain

import (
	"time"

	"fleetrental-backend/internal/money"
)

type VehicleStatus string

const (
	VehicleStatusAvailable    VehicleStatus = "AVAILABLE"
	VehicleStatusRented       VehicleStatus = "RENTED"
	VehicleStatusMaintenance  VehicleStatus = "MAINTENANCE"
	VehicleStatusOutOfService VehicleStatus = "OUT_OF_SERVICE"
)

type Vehicle struct {
	ID           int64         `json:"id"`
	AgencyID     int64         `json:"agency_id"`
	LicensePlate string        `json:"license_plate"` // unique system-wide
	Brand        string        `json:"brand"`
	Model        string        `json:"model"`
	Year         int32         `json:"year"`
	Color        string        `json:"color,omitempty"`
	Mileage      int64         `json:"mileage"`
	DailyRate    money.Amount  `json:"daily_rate"`
	Status       VehicleStatus `json:"status"`
	Active       bool          `json:"active"`
	Notes        string        `json:"notes,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
