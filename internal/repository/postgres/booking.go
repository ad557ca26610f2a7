package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/repository"
)

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `id, booking_number, agency_id, vehicle_id, customer_id, created_by_id,
	start_date, end_date, pickup_at, return_at,
	daily_rate, duration_days, subtotal, tax_amount, stamp_fee, total_amount, deposit_amount,
	status, COALESCE(mileage_limit, 0), COALESCE(extra_mileage_rate, 0),
	initial_mileage, final_mileage,
	fuel_policy, COALESCE(initial_fuel_level, ''), COALESCE(final_fuel_level, ''),
	COALESCE(notes, ''), COALESCE(cancellation_reason, ''), created_at, updated_at`

// Conflict predicate from the availability rules: closed date intervals,
// new start inside existing, new end inside existing, or new range
// containing the existing one. $2 = start, $3 = end.
const bookingOverlapClause = `status IN ('CONFIRMED', 'IN_PROGRESS')
	AND ((start_date <= $2 AND end_date >= $2)
	  OR (start_date <= $3 AND end_date >= $3)
	  OR (start_date >= $2 AND end_date <= $3))`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	b := &domain.Booking{}
	err := row.Scan(
		&b.ID, &b.BookingNumber, &b.AgencyID, &b.VehicleID, &b.CustomerID, &b.CreatedByID,
		&b.StartDate, &b.EndDate, &b.PickupAt, &b.ReturnAt,
		&b.DailyRate, &b.DurationDays, &b.Subtotal, &b.TaxAmount, &b.StampFee, &b.TotalAmount, &b.DepositAmount,
		&b.Status, &b.MileageLimit, &b.ExtraMileageRate,
		&b.InitialMileage, &b.FinalMileage,
		&b.FuelPolicy, &b.InitialFuelLevel, &b.FinalFuelLevel,
		&b.Notes, &b.CancellationReason, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return scanBooking(r.db.QueryRowContext(ctx, query, id))
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// updateBooking writes the full row guarded by the status the caller
// observed, so concurrent transitions cannot overwrite each other. A
// missed write is resolved to ErrNotFound or an InvalidTransitionError
// carrying the status that actually won.
func updateBooking(ctx context.Context, db execer, b *domain.Booking, expected domain.BookingStatus) error {
	query := `UPDATE bookings SET
		start_date=$1, end_date=$2, pickup_at=$3, return_at=$4,
		duration_days=$5, subtotal=$6, tax_amount=$7, stamp_fee=$8, total_amount=$9, deposit_amount=$10,
		status=$11, mileage_limit=$12, extra_mileage_rate=$13,
		initial_mileage=$14, final_mileage=$15,
		fuel_policy=$16, initial_fuel_level=$17, final_fuel_level=$18,
		notes=$19, cancellation_reason=$20, updated_at=$21
		WHERE id=$22 AND status=$23`
	res, err := db.ExecContext(ctx, query,
		b.StartDate, b.EndDate, b.PickupAt, b.ReturnAt,
		b.DurationDays, b.Subtotal, b.TaxAmount, b.StampFee, b.TotalAmount, b.DepositAmount,
		b.Status, nullableInt64(b.MileageLimit), nullableInt64(int64(b.ExtraMileageRate)),
		b.InitialMileage, b.FinalMileage,
		b.FuelPolicy, nullableString(string(b.InitialFuelLevel)), nullableString(string(b.FinalFuelLevel)),
		nullableString(b.Notes), nullableString(b.CancellationReason), time.Now(),
		b.ID, expected)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var current domain.BookingStatus
		err := db.QueryRowContext(ctx, `SELECT status FROM bookings WHERE id = $1`, b.ID).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}
		return &domain.InvalidTransitionError{From: current, To: b.Status}
	}
	return nil
}

func (r *bookingRepository) Update(ctx context.Context, b *domain.Booking, expected domain.BookingStatus) error {
	return updateBooking(ctx, r.db, b, expected)
}

// StartRental flips the booking to IN_PROGRESS and the vehicle to
// RENTED in one transaction, so the two never diverge.
func (r *bookingRepository) StartRental(ctx context.Context, b *domain.Booking, from domain.BookingStatus) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := updateBooking(ctx, tx, b, from); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE vehicles SET status=$1, updated_at=$2 WHERE id=$3`,
		domain.VehicleStatusRented, time.Now(), b.VehicleID); err != nil {
		return err
	}
	return tx.Commit()
}

// CompleteRental closes the booking, releases the vehicle and rolls its
// recorded mileage forward to the return reading in one transaction.
func (r *bookingRepository) CompleteRental(ctx context.Context, b *domain.Booking, from domain.BookingStatus) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := updateBooking(ctx, tx, b, from); err != nil {
		return err
	}
	var final int64
	if b.FinalMileage != nil {
		final = *b.FinalMileage
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE vehicles SET status=$1, mileage=GREATEST(mileage, $2), updated_at=$3 WHERE id=$4`,
		domain.VehicleStatusAvailable, final, time.Now(), b.VehicleID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *bookingRepository) ListByAgency(ctx context.Context, agencyID int64, filter repository.BookingFilter, page, pageSize int32) ([]domain.Booking, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE agency_id = $1`

	args := []any{agencyID}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.VehicleID != 0 {
		args = append(args, filter.VehicleID)
		query += fmt.Sprintf(" AND vehicle_id = $%d", len(args))
	}
	if filter.CustomerID != 0 {
		args = append(args, filter.CustomerID)
		query += fmt.Sprintf(" AND customer_id = $%d", len(args))
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") AS sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, count, rows.Err()
}

func (r *bookingRepository) ListByVehicleAndStatuses(ctx context.Context, vehicleID int64, statuses []domain.BookingStatus) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE vehicle_id = $1 AND status = ANY($2)`
	rows, err := r.db.QueryContext(ctx, query, vehicleID, statusArray(statuses))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *bookingRepository) CountActiveByVehicle(ctx context.Context, vehicleID int64) (int32, error) {
	query := `SELECT count(*) FROM bookings WHERE vehicle_id = $1 AND status IN ('PENDING', 'CONFIRMED', 'IN_PROGRESS')`
	var count int32
	err := r.db.QueryRowContext(ctx, query, vehicleID).Scan(&count)
	return count, err
}

func (r *bookingRepository) CreateIfAvailable(ctx context.Context, b *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := lockVehicleRow(ctx, tx, b.VehicleID); err != nil {
		return err
	}

	conflicts, err := conflictingBookings(ctx, tx, b.VehicleID, b.StartDate, b.EndDate, 0)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		return &domain.ConflictError{Conflicts: conflicts}
	}

	now := time.Now()
	query := `INSERT INTO bookings (booking_number, agency_id, vehicle_id, customer_id, created_by_id,
		start_date, end_date, daily_rate, duration_days, subtotal, tax_amount, stamp_fee, total_amount,
		deposit_amount, status, mileage_limit, extra_mileage_rate, fuel_policy, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING id`
	err = tx.QueryRowContext(ctx, query,
		b.BookingNumber, b.AgencyID, b.VehicleID, b.CustomerID, b.CreatedByID,
		b.StartDate, b.EndDate, b.DailyRate, b.DurationDays, b.Subtotal, b.TaxAmount, b.StampFee, b.TotalAmount,
		b.DepositAmount, b.Status, nullableInt64(b.MileageLimit), nullableInt64(int64(b.ExtraMileageRate)),
		b.FuelPolicy, nullableString(b.Notes), now, now,
	).Scan(&b.ID)
	if err != nil {
		return err
	}
	b.CreatedAt = now
	b.UpdatedAt = now

	return tx.Commit()
}

func (r *bookingRepository) ConfirmIfAvailable(ctx context.Context, id int64, start, end time.Time) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`
	b, err := scanBooking(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	// Re-check under the row lock: a cancel that landed after the
	// caller's read must not be overwritten back to CONFIRMED.
	if b.Status != domain.BookingStatusPending {
		return nil, &domain.InvalidTransitionError{From: b.Status, To: domain.BookingStatusConfirmed}
	}

	if err := lockVehicleRow(ctx, tx, b.VehicleID); err != nil {
		return nil, err
	}

	conflicts, err := conflictingBookings(ctx, tx, b.VehicleID, start, end, b.ID)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, &domain.ConflictError{Conflicts: conflicts}
	}

	now := time.Now()
	if _, err := tx.ExecContext(ctx, `UPDATE bookings SET status=$1, updated_at=$2 WHERE id=$3`,
		domain.BookingStatusConfirmed, now, b.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	b.Status = domain.BookingStatusConfirmed
	b.UpdatedAt = now
	return b, nil
}

// lockVehicleRow serializes concurrent availability checks on the same
// vehicle. The insert or status write then happens under the lock.
func lockVehicleRow(ctx context.Context, tx *sql.Tx, vehicleID int64) error {
	var id int64
	err := tx.QueryRowContext(ctx, `SELECT id FROM vehicles WHERE id = $1 FOR UPDATE`, vehicleID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func conflictingBookings(ctx context.Context, tx *sql.Tx, vehicleID int64, start, end time.Time, excludeID int64) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE vehicle_id = $1 AND ` + bookingOverlapClause + ` AND id <> $4`
	rows, err := tx.QueryContext(ctx, query, vehicleID, start, end, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conflicts []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		conflicts = append(conflicts, *b)
	}
	return conflicts, rows.Err()
}

func statusArray(statuses []domain.BookingStatus) any {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return pqStringArray(out)
}
