package repository

import (
	"context"
	"database/sql"

	"github.com/hstore/ms-go-employer-subscriptions/app/entity"
)

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*entity.User, error) {
	query := `
		SELECT id, email, name, role, verification_status, created_at, updated_at
		FROM users
		WHERE id = ?
	`

	item := &entity.User{}
	var role sql.NullString
	var verificationStatus sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID,
		&item.Email,
		&item.Name,
		&role,
		&verificationStatus,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if role.Valid {
		item.Role = role.String
	}
	if verificationStatus.Valid {
		item.VerificationStatus = verificationStatus.String
	}

	return item, nil
}
