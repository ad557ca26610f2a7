package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/repository"
)

type vehicleRepository struct {
	db *sql.DB
}

func NewVehicleRepository(db *sql.DB) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

const vehicleColumns = `id, agency_id, license_plate, brand, model, year, COALESCE(color, ''),
	mileage, daily_rate, status, active, COALESCE(notes, ''), created_at, updated_at`

func scanVehicle(row rowScanner) (*domain.Vehicle, error) {
	v := &domain.Vehicle{}
	err := row.Scan(
		&v.ID, &v.AgencyID, &v.LicensePlate, &v.Brand, &v.Model, &v.Year, &v.Color,
		&v.Mileage, &v.DailyRate, &v.Status, &v.Active, &v.Notes, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

func (r *vehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	now := time.Now()
	query := `INSERT INTO vehicles (agency_id, license_plate, brand, model, year, color, mileage, daily_rate, status, active, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		v.AgencyID, v.LicensePlate, v.Brand, v.Model, v.Year, nullableString(v.Color),
		v.Mileage, v.DailyRate, v.Status, v.Active, nullableString(v.Notes), now, now,
	).Scan(&v.ID)
	if err != nil {
		return err
	}
	v.CreatedAt = now
	v.UpdatedAt = now
	return nil
}

func (r *vehicleRepository) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`
	return scanVehicle(r.db.QueryRowContext(ctx, query, id))
}

func (r *vehicleRepository) Update(ctx context.Context, v *domain.Vehicle) error {
	query := `UPDATE vehicles SET license_plate=$1, brand=$2, model=$3, year=$4, color=$5,
		mileage=$6, daily_rate=$7, status=$8, active=$9, notes=$10, updated_at=$11 WHERE id=$12`
	_, err := r.db.ExecContext(ctx, query,
		v.LicensePlate, v.Brand, v.Model, v.Year, nullableString(v.Color),
		v.Mileage, v.DailyRate, v.Status, v.Active, nullableString(v.Notes), time.Now(), v.ID)
	return err
}

func (r *vehicleRepository) Deactivate(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE vehicles SET active=false, updated_at=$1 WHERE id=$2`, time.Now(), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *vehicleRepository) ListByAgency(ctx context.Context, agencyID int64, page, pageSize int32) ([]domain.Vehicle, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM vehicles WHERE agency_id = $1 AND active`, agencyID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE agency_id = $1 AND active ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, agencyID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, 0, err
		}
		vehicles = append(vehicles, *v)
	}
	return vehicles, count, rows.Err()
}
