package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/hstore/ms-go-employer-subscriptions/app/entity"
)

var (
	ErrUsageNotFound = errors.New("job posting usage not found")
	// ErrUsageAlreadyExists signals a duplicate (user, company, day) row.
	ErrUsageAlreadyExists = errors.New("job posting usage already exists for this day")
	// ErrFreeLimitReached means a guarded increment found used_count at free_limit.
	ErrFreeLimitReached = errors.New("daily free posting limit reached")
)

type JobPostingUsageRepository struct {
	db DBTX
}

func NewJobPostingUsageRepository(db DBTX) *JobPostingUsageRepository {
	return &JobPostingUsageRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *JobPostingUsageRepository) WithTx(tx DBTX) *JobPostingUsageRepository {
	return &JobPostingUsageRepository{db: tx}
}

func (r *JobPostingUsageRepository) Create(ctx context.Context, usage *entity.JobPostingUsage) error {
	query := `
		INSERT INTO job_posting_usages (
			user_id, company_id, posting_date, used_count, free_limit,
			created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		usage.UserID,
		usage.CompanyID,
		usage.PostingDate.Format("2006-01-02"),
		usage.UsedCount,
		usage.FreeLimit,
		usage.CreatedAt,
		usage.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrUsageAlreadyExists
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	usage.ID = uint64(id)
	return nil
}

// FindByOwnerAndDateForUpdate locks today's usage row for the pair; callers
// must already be inside a transaction. Returns (nil, nil) when no row exists.
func (r *JobPostingUsageRepository) FindByOwnerAndDateForUpdate(ctx context.Context, userID, companyID uint64, day time.Time) (*entity.JobPostingUsage, error) {
	query := `
		SELECT id, user_id, company_id, posting_date, used_count, free_limit,
		       created_at, updated_at
		FROM job_posting_usages
		WHERE user_id = ? AND company_id = ? AND posting_date = ?
		FOR UPDATE
	`

	item := &entity.JobPostingUsage{}
	err := r.db.QueryRowContext(ctx, query, userID, companyID, day.Format("2006-01-02")).Scan(
		&item.ID,
		&item.UserID,
		&item.CompanyID,
		&item.PostingDate,
		&item.UsedCount,
		&item.FreeLimit,
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

// IncrementUsedCount consumes one free post. The guard keeps used_count from
// exceeding free_limit under concurrent calls.
func (r *JobPostingUsageRepository) IncrementUsedCount(ctx context.Context, id uint64, now time.Time) error {
	query := `
		UPDATE job_posting_usages
		SET used_count = used_count + 1, updated_at = ?
		WHERE id = ? AND used_count < free_limit
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
		return ErrFreeLimitReached
	}

	return nil
}
