package repository

import (
	"context"
	"errors"
	"time"

	"github.com/hstore/ms-go-employer-subscriptions/app/entity"
)

var (
	ErrSubscriptionNotFound = errors.New("employer subscription not found")
	// ErrNoRemainingPosts means a guarded decrement found the counter at zero.
	ErrNoRemainingPosts = errors.New("subscription has no remaining posts")
)

type EmployerSubscriptionRepository struct {
	db DBTX
}

func NewEmployerSubscriptionRepository(db DBTX) *EmployerSubscriptionRepository {
	return &EmployerSubscriptionRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *EmployerSubscriptionRepository) WithTx(tx DBTX) *EmployerSubscriptionRepository {
	return &EmployerSubscriptionRepository{db: tx}
}

const employerSubscriptionColumns = `
	id, user_id, company_id, package_id, start_date, end_date, status,
	remaining_posts, payment_method, amount, original_amount,
	discount_percentage, created_at, updated_at
`

func (r *EmployerSubscriptionRepository) Create(ctx context.Context, subscription *entity.EmployerSubscription) error {
	query := `
		INSERT INTO employer_subscriptions (
			user_id, company_id, package_id, start_date, end_date, status,
			remaining_posts, payment_method, amount, original_amount,
			discount_percentage, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		subscription.UserID,
		subscription.CompanyID,
		subscription.PackageID,
		subscription.StartDate,
		subscription.EndDate,
		subscription.Status,
		subscription.RemainingPosts,
		subscription.PaymentMethod,
		subscription.Amount,
		subscription.OriginalAmount,
		subscription.DiscountPercentage,
		subscription.CreatedAt,
		subscription.UpdatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	subscription.ID = uint64(id)
	return nil
}

// ListActiveByUser returns ACTIVE subscriptions ending after now, soonest
// expiry first. The quota engine relies on this ordering to consume the
// package expiring soonest before any other.
func (r *EmployerSubscriptionRepository) ListActiveByUser(ctx context.Context, userID uint64, now time.Time) ([]*entity.EmployerSubscription, error) {
	query := `
		SELECT ` + employerSubscriptionColumns + `
		FROM employer_subscriptions
		WHERE user_id = ?
		  AND status = ?
		  AND end_date > ?
		ORDER BY end_date ASC
	`

	return r.listByQuery(ctx, query, userID, entity.SubscriptionStatusActive, now)
}

// ListActiveByUserForUpdate is ListActiveByUser with row locks taken; callers
// must already be inside a transaction.
func (r *EmployerSubscriptionRepository) ListActiveByUserForUpdate(ctx context.Context, userID uint64, now time.Time) ([]*entity.EmployerSubscription, error) {
	query := `
		SELECT ` + employerSubscriptionColumns + `
		FROM employer_subscriptions
		WHERE user_id = ?
		  AND status = ?
		  AND end_date > ?
		ORDER BY end_date ASC
		FOR UPDATE
	`

	return r.listByQuery(ctx, query, userID, entity.SubscriptionStatusActive, now)
}

// DecrementRemainingPosts consumes one post. The guard in the WHERE clause
// keeps the counter from ever going below zero, even under concurrent calls.
func (r *EmployerSubscriptionRepository) DecrementRemainingPosts(ctx context.Context, id uint64, now time.Time) error {
	query := `
		UPDATE employer_subscriptions
		SET remaining_posts = remaining_posts - 1, updated_at = ?
		WHERE id = ? AND remaining_posts > 0
	`

	result, err := r.db.ExecContext(ctx, query, now, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoRemainingPosts
	}

	return nil
}

func (r *EmployerSubscriptionRepository) TotalRemainingPosts(ctx context.Context, userID uint64, now time.Time) (int32, error) {
	query := `
		SELECT COALESCE(SUM(remaining_posts), 0)
		FROM employer_subscriptions
		WHERE user_id = ?
		  AND status = ?
		  AND end_date > ?
	`

	var total int32
	err := r.db.QueryRowContext(ctx, query, userID, entity.SubscriptionStatusActive, now).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *EmployerSubscriptionRepository) ListExpiredActive(ctx context.Context, now time.Time) ([]*entity.EmployerSubscription, error) {
	query := `
		SELECT ` + employerSubscriptionColumns + `
		FROM employer_subscriptions
		WHERE status = ?
		  AND end_date < ?
		ORDER BY id ASC
	`

	return r.listByQuery(ctx, query, entity.SubscriptionStatusActive, now)
}

func (r *EmployerSubscriptionRepository) UpdateStatus(ctx context.Context, id uint64, status string, now time.Time) error {
	query := `
		UPDATE employer_subscriptions
		SET status = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, status, now, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSubscriptionNotFound
	}

	return nil
}

func (r *EmployerSubscriptionRepository) listByQuery(ctx context.Context, query string, args ...interface{}) ([]*entity.EmployerSubscription, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*entity.EmployerSubscription, 0)
	for rows.Next() {
		item := &entity.EmployerSubscription{}
		if err := scanEmployerSubscription(rows, item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func scanEmployerSubscription(scanner rowScanner, item *entity.EmployerSubscription) error {
	return scanner.Scan(
		&item.ID,
		&item.UserID,
		&item.CompanyID,
		&item.PackageID,
		&item.StartDate,
		&item.EndDate,
		&item.Status,
		&item.RemainingPosts,
		&item.PaymentMethod,
		&item.Amount,
		&item.OriginalAmount,
		&item.DiscountPercentage,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
}
