package service

import (
	"context"
	"time"

	"fleetrental-backend/internal/availability"
	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/logger"
	"fleetrental-backend/internal/repository"
	"fleetrental-backend/internal/scope"
)

type vehicleService struct {
	vehicles repository.VehicleRepository
	bookings repository.BookingRepository
}

func NewVehicleService(vehicles repository.VehicleRepository, bookings repository.BookingRepository) VehicleService {
	return &vehicleService{vehicles: vehicles, bookings: bookings}
}

func (s *vehicleService) Add(ctx context.Context, p domain.Principal, v *domain.Vehicle) error {
	if err := scope.Authorize(p, v.AgencyID); err != nil {
		return err
	}
	if v.LicensePlate == "" {
		return &domain.ValidationError{Field: "license_plate", Reason: "must not be empty"}
	}
	if v.DailyRate <= 0 {
		return &domain.ValidationError{Field: "daily_rate", Reason: "must be positive"}
	}
	if v.Status == "" {
		v.Status = domain.VehicleStatusAvailable
	}
	v.Active = true

	err := withStoreRetry(ctx, "vehicle.create", func() error {
		return s.vehicles.Create(ctx, v)
	})
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "vehicle added",
		"vehicle_id", v.ID, "agency_id", v.AgencyID, "license_plate", v.LicensePlate)
	return nil
}

func (s *vehicleService) Get(ctx context.Context, p domain.Principal, id int64) (*domain.Vehicle, error) {
	var v *domain.Vehicle
	err := withStoreRetry(ctx, "vehicle.get", func() error {
		var err error
		v, err = s.vehicles.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := scope.Authorize(p, v.AgencyID); err != nil {
		return nil, scope.Hide(err)
	}
	return v, nil
}

func (s *vehicleService) Update(ctx context.Context, p domain.Principal, v *domain.Vehicle) error {
	var current *domain.Vehicle
	err := withStoreRetry(ctx, "vehicle.get", func() error {
		var err error
		current, err = s.vehicles.GetByID(ctx, v.ID)
		return err
	})
	if err != nil {
		return err
	}
	// The record's stored agency decides scope, not the payload.
	if err := scope.Authorize(p, current.AgencyID); err != nil {
		return scope.Hide(err)
	}
	if v.AgencyID != current.AgencyID {
		return &domain.ValidationError{Field: "agency_id", Reason: "vehicles cannot move between agencies"}
	}
	if v.DailyRate <= 0 {
		return &domain.ValidationError{Field: "daily_rate", Reason: "must be positive"}
	}

	return withStoreRetry(ctx, "vehicle.update", func() error {
		return s.vehicles.Update(ctx, v)
	})
}

// Delete deactivates a vehicle. Vehicles with active bookings cannot be
// retired; existing history is never removed.
func (s *vehicleService) Delete(ctx context.Context, p domain.Principal, id int64) error {
	var v *domain.Vehicle
	err := withStoreRetry(ctx, "vehicle.get", func() error {
		var err error
		v, err = s.vehicles.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return err
	}
	if err := scope.Authorize(p, v.AgencyID); err != nil {
		return scope.Hide(err)
	}

	var active int32
	err = withStoreRetry(ctx, "booking.count_active", func() error {
		var err error
		active, err = s.bookings.CountActiveByVehicle(ctx, id)
		return err
	})
	if err != nil {
		return err
	}
	if active > 0 {
		return &domain.ValidationError{Field: "id", Reason: "vehicle has active bookings"}
	}

	err = withStoreRetry(ctx, "vehicle.deactivate", func() error {
		return s.vehicles.Deactivate(ctx, id)
	})
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "vehicle deactivated", "vehicle_id", id, "agency_id", v.AgencyID)
	return nil
}

func (s *vehicleService) List(ctx context.Context, p domain.Principal, agencyID int64, page, pageSize int32) ([]domain.Vehicle, int32, error) {
	if err := scope.Authorize(p, agencyID); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	var (
		vehicles []domain.Vehicle
		total    int32
	)
	err := withStoreRetry(ctx, "vehicle.list", func() error {
		var err error
		vehicles, total, err = s.vehicles.ListByAgency(ctx, agencyID, page, pageSize)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return vehicles, total, nil
}

// ListAvailable returns the agency's vehicles free over the requested
// range. It walks the fleet page by page and drops anything held by a
// blocking booking that overlaps.
func (s *vehicleService) ListAvailable(ctx context.Context, p domain.Principal, agencyID int64, start, end time.Time) ([]domain.Vehicle, error) {
	if p.Role != domain.RoleClient {
		if err := scope.Authorize(p, agencyID); err != nil {
			return nil, err
		}
	}
	if err := availability.ValidateRange(start, end); err != nil {
		return nil, err
	}

	var available []domain.Vehicle
	for page := int32(1); ; page++ {
		var (
			vehicles []domain.Vehicle
			total    int32
		)
		err := withStoreRetry(ctx, "vehicle.list", func() error {
			var err error
			vehicles, total, err = s.vehicles.ListByAgency(ctx, agencyID, page, maxPageSize)
			return err
		})
		if err != nil {
			return nil, err
		}

		for i := range vehicles {
			v := vehicles[i]
			if !v.Active || v.Status == domain.VehicleStatusOutOfService || v.Status == domain.VehicleStatusMaintenance {
				continue
			}
			var existing []domain.Booking
			err := withStoreRetry(ctx, "booking.list_blocking", func() error {
				var err error
				existing, err = s.bookings.ListByVehicleAndStatuses(ctx, v.ID, domain.BlockingStatuses)
				return err
			})
			if err != nil {
				return nil, err
			}
			if len(availability.FindConflicts(existing, start, end)) == 0 {
				available = append(available, v)
			}
		}

		if page*maxPageSize >= total {
			break
		}
	}
	return available, nil
}
