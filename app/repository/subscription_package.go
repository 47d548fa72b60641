package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hstore/ms-go-employer-subscriptions/app/entity"
)

var ErrPackageNotFound = errors.New("subscription package not found")

type SubscriptionPackageRepository struct {
	db DBTX
}

func NewSubscriptionPackageRepository(db DBTX) *SubscriptionPackageRepository {
	return &SubscriptionPackageRepository{db: db}
}

const subscriptionPackageColumns = `
	id, name, description, price, duration_days, job_post_limit,
	is_highlighted, is_prioritized, is_active, created_at, updated_at
`

func (r *SubscriptionPackageRepository) Create(ctx context.Context, pkg *entity.SubscriptionPackage) error {
	query := `
		INSERT INTO subscription_packages (
			name, description, price, duration_days, job_post_limit,
			is_highlighted, is_prioritized, is_active, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		pkg.Name,
		pkg.Description,
		pkg.Price,
		pkg.DurationDays,
		pkg.JobPostLimit,
		pkg.IsHighlighted,
		pkg.IsPrioritized,
		pkg.IsActive,
		pkg.CreatedAt,
		pkg.UpdatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	pkg.ID = uint64(id)
	return nil
}

func (r *SubscriptionPackageRepository) Update(ctx context.Context, pkg *entity.SubscriptionPackage) error {
	query := `
		UPDATE subscription_packages
		SET name = ?, description = ?, price = ?, duration_days = ?, job_post_limit = ?,
		    is_highlighted = ?, is_prioritized = ?, is_active = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		pkg.Name,
		pkg.Description,
		pkg.Price,
		pkg.DurationDays,
		pkg.JobPostLimit,
		pkg.IsHighlighted,
		pkg.IsPrioritized,
		pkg.IsActive,
		pkg.UpdatedAt,
		pkg.ID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPackageNotFound
	}

	return nil
}

func (r *SubscriptionPackageRepository) Delete(ctx context.Context, id uint64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM subscription_packages WHERE id = ?`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPackageNotFound
	}

	return nil
}

func (r *SubscriptionPackageRepository) FindByID(ctx context.Context, id uint64) (*entity.SubscriptionPackage, error) {
	query := `SELECT ` + subscriptionPackageColumns + ` FROM subscription_packages WHERE id = ?`

	item := &entity.SubscriptionPackage{}
	if err := scanSubscriptionPackage(r.db.QueryRowContext(ctx, query, id), item); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return item, nil
}

func (r *SubscriptionPackageRepository) ListActive(ctx context.Context) ([]*entity.SubscriptionPackage, error) {
	query := `
		SELECT ` + subscriptionPackageColumns + `
		FROM subscription_packages
		WHERE is_active = 1
		ORDER BY price ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*entity.SubscriptionPackage, 0)
	for rows.Next() {
		item := &entity.SubscriptionPackage{}
		if err := scanSubscriptionPackage(rows, item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func scanSubscriptionPackage(scanner rowScanner, item *entity.SubscriptionPackage) error {
	var description sql.NullString
	err := scanner.Scan(
		&item.ID,
		&item.Name,
		&description,
		&item.Price,
		&item.DurationDays,
		&item.JobPostLimit,
		&item.IsHighlighted,
		&item.IsPrioritized,
		&item.IsActive,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if description.Valid {
		item.Description = description.String
	}

	return nil
}
