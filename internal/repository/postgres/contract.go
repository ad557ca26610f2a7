package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/repository"
)

type contractRepository struct {
	db *sql.DB
}

func NewContractRepository(db *sql.DB) repository.ContractRepository {
	return &contractRepository{db: db}
}

const contractColumns = `id, contract_number, agency_id, booking_id, status,
	deposit_amount, excess_amount, COALESCE(mileage_limit, 0), COALESCE(terms, ''), signed_at, created_at, updated_at`

func scanContract(row rowScanner) (*domain.Contract, error) {
	c := &domain.Contract{}
	err := row.Scan(
		&c.ID, &c.ContractNumber, &c.AgencyID, &c.BookingID, &c.Status,
		&c.DepositAmount, &c.ExcessAmount, &c.MileageLimit, &c.Terms, &c.SignedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *contractRepository) Create(ctx context.Context, c *domain.Contract) error {
	now := time.Now()
	query := `INSERT INTO contracts (contract_number, agency_id, booking_id, status, deposit_amount, excess_amount, mileage_limit, terms, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		c.ContractNumber, c.AgencyID, c.BookingID, c.Status,
		c.DepositAmount, c.ExcessAmount, nullableInt64(c.MileageLimit), nullableString(c.Terms), now, now,
	).Scan(&c.ID)
	if err != nil {
		return err
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	return nil
}

func (r *contractRepository) GetByID(ctx context.Context, id int64) (*domain.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE id = $1`
	return scanContract(r.db.QueryRowContext(ctx, query, id))
}

func (r *contractRepository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE booking_id = $1`
	return scanContract(r.db.QueryRowContext(ctx, query, bookingID))
}

func (r *contractRepository) Update(ctx context.Context, c *domain.Contract) error {
	query := `UPDATE contracts SET status=$1, deposit_amount=$2, excess_amount=$3, mileage_limit=$4, terms=$5, signed_at=$6, updated_at=$7 WHERE id=$8`
	_, err := r.db.ExecContext(ctx, query,
		c.Status, c.DepositAmount, c.ExcessAmount, nullableInt64(c.MileageLimit), nullableString(c.Terms), c.SignedAt, time.Now(), c.ID)
	return err
}

func (r *contractRepository) ListByAgency(ctx context.Context, agencyID int64, page, pageSize int32) ([]domain.Contract, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM contracts WHERE agency_id = $1`, agencyID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + contractColumns + ` FROM contracts WHERE agency_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, agencyID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var contracts []domain.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, 0, err
		}
		contracts = append(contracts, *c)
	}
	return contracts, count, rows.Err()
}
