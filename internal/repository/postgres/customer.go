package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/repository"
)

type customerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) repository.CustomerRepository {
	return &customerRepository{db: db}
}

const customerColumns = `id, agency_id, first_name, last_name, email, phone, license_number,
	active, blacklisted, COALESCE(blacklist_reason, ''), COALESCE(notes, ''), created_at, updated_at`

func scanCustomer(row rowScanner) (*domain.Customer, error) {
	c := &domain.Customer{}
	err := row.Scan(
		&c.ID, &c.AgencyID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.LicenseNumber,
		&c.Active, &c.Blacklisted, &c.BlacklistReason, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *customerRepository) Create(ctx context.Context, c *domain.Customer) error {
	now := time.Now()
	query := `INSERT INTO customers (agency_id, first_name, last_name, email, phone, license_number, active, blacklisted, blacklist_reason, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		c.AgencyID, c.FirstName, c.LastName, c.Email, c.Phone, c.LicenseNumber,
		c.Active, c.Blacklisted, nullableString(c.BlacklistReason), nullableString(c.Notes), now, now,
	).Scan(&c.ID)
	if err != nil {
		return err
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	return nil
}

func (r *customerRepository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return scanCustomer(r.db.QueryRowContext(ctx, query, id))
}

func (r *customerRepository) Update(ctx context.Context, c *domain.Customer) error {
	query := `UPDATE customers SET first_name=$1, last_name=$2, email=$3, phone=$4, license_number=$5,
		active=$6, notes=$7, updated_at=$8 WHERE id=$9`
	_, err := r.db.ExecContext(ctx, query,
		c.FirstName, c.LastName, c.Email, c.Phone, c.LicenseNumber,
		c.Active, nullableString(c.Notes), time.Now(), c.ID)
	return err
}

func (r *customerRepository) SetBlacklisted(ctx context.Context, id int64, blacklisted bool, reason string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE customers SET blacklisted=$1, blacklist_reason=$2, updated_at=$3 WHERE id=$4`,
		blacklisted, nullableString(reason), time.Now(), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *customerRepository) ListByAgency(ctx context.Context, agencyID int64, page, pageSize int32) ([]domain.Customer, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM customers WHERE agency_id = $1 AND active`, agencyID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + customerColumns + ` FROM customers WHERE agency_id = $1 AND active ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, agencyID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		customers = append(customers, *c)
	}
	return customers, count, rows.Err()
}
