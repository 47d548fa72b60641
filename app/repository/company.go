package repository

import (
	"context"
	"database/sql"

	"github.com/hstore/ms-go-employer-subscriptions/app/entity"
)

type CompanyRepository struct {
	db DBTX
}

func NewCompanyRepository(db DBTX) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) FindByID(ctx context.Context, id uint64) (*entity.Company, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM companies
		WHERE id = ?
	`

	item := &entity.Company{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID,
		&item.Name,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return item, nil
}
