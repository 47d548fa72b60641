package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/hstore/ms-go-employer-subscriptions/app/entity"
)

type PromotionRepository struct {
	db DBTX
}

func NewPromotionRepository(db DBTX) *PromotionRepository {
	return &PromotionRepository{db: db}
}

// ListActiveByPackage returns promotions bound to the package whose window
// contains now and which are flagged active.
func (r *PromotionRepository) ListActiveByPackage(ctx context.Context, packageID uint64, now time.Time) ([]*entity.Promotion, error) {
	query := `
		SELECT id, package_id, name, description, code, discount_percentage,
		       start_date, end_date, is_active, created_at, updated_at
		FROM promotions
		WHERE package_id = ?
		  AND is_active = 1
		  AND start_date <= ?
		  AND end_date >= ?
		ORDER BY discount_percentage DESC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, packageID, now, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*entity.Promotion, 0)
	for rows.Next() {
		item := &entity.Promotion{}
		var description, code sql.NullString
		if err := rows.Scan(
			&item.ID,
			&item.PackageID,
			&item.Name,
			&description,
			&code,
			&item.DiscountPercentage,
			&item.StartDate,
			&item.EndDate,
			&item.IsActive,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if description.Valid {
			item.Description = description.String
		}
		if code.Valid {
			item.Code = code.String
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
