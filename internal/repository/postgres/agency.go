package postgres

import (
	"context"
	"database/sql"
	"errors"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/repository"
)

type agencyRepository struct {
	db *sql.DB
}

func NewAgencyRepository(db *sql.DB) repository.AgencyRepository {
	return &agencyRepository{db: db}
}

func (r *agencyRepository) GetByID(ctx context.Context, id int64) (*domain.Agency, error) {
	a := &domain.Agency{}
	query := `SELECT id, name, owner_user_id, COALESCE(address, ''), COALESCE(phone, ''), active, created_at, updated_at
		FROM agencies WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.Name, &a.OwnerUserID, &a.Address, &a.Phone, &a.Active, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *agencyRepository) ListIDsByOwner(ctx context.Context, ownerUserID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM agencies WHERE owner_user_id = $1 AND active`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
