package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hstore/ms-go-employer-subscriptions/app/entity"
	"github.com/hstore/ms-go-employer-subscriptions/app/repository"
	"github.com/hstore/ms-go-employer-subscriptions/config"
)

type userRepository interface {
	FindByID(ctx context.Context, id uint64) (*entity.User, error)
}

type companyRepository interface {
	FindByID(ctx context.Context, id uint64) (*entity.Company, error)
}

type txRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.DBTX) error) error
}

// UsageTxStore and SubscriptionTxStore are the row-locking operations the
// quota engine performs inside its transaction.
type UsageTxStore interface {
	FindByOwnerAndDateForUpdate(ctx context.Context, userID, companyID uint64, day time.Time) (*entity.JobPostingUsage, error)
	Create(ctx context.Context, usage *entity.JobPostingUsage) error
	IncrementUsedCount(ctx context.Context, id uint64, now time.Time) error
}

type SubscriptionTxStore interface {
	ListActiveByUserForUpdate(ctx context.Context, userID uint64, now time.Time) ([]*entity.EmployerSubscription, error)
	DecrementRemainingPosts(ctx context.Context, id uint64, now time.Time) error
}

type QuotaTxStores struct {
	Usage         UsageTxStore
	Subscriptions SubscriptionTxStore
}

// QuotaStoreFactory binds the quota stores to one transaction.
type QuotaStoreFactory func(tx repository.DBTX) QuotaTxStores

// QuotaResult is the quota engine's verdict. A denial is an ordinary result,
// not an error; Message is meant to be surfaced to the end user as-is.
type QuotaResult struct {
	CanPost bool
	Message string
}

type QuotaService struct {
	userRepo    userRepository
	companyRepo companyRepository
	packageRepo packageRepository
	txRunner    txRunner
	stores      QuotaStoreFactory
	cfg         config.QuotaConfig
}

func NewQuotaService(
	userRepo userRepository,
	companyRepo companyRepository,
	packageRepo packageRepository,
	txRunner txRunner,
	stores QuotaStoreFactory,
	cfg config.QuotaConfig,
) *QuotaService {
	return &QuotaService{
		userRepo:    userRepo,
		companyRepo: companyRepo,
		packageRepo: packageRepo,
		txRunner:    txRunner,
		stores:      stores,
		cfg:         cfg,
	}
}

// CheckAndUpdateQuota decides whether the pair may post one more job today and
// consumes the corresponding allowance: the free daily row first, then the
// active subscription expiring soonest. The read-then-write sequence runs
// under row locks in a single transaction so two concurrent requests cannot
// both consume the last post. Exactly one row is written per granted call.
func (s *QuotaService) CheckAndUpdateQuota(ctx context.Context, userID, companyID uint64) (*QuotaResult, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, ErrCompanyNotFound
	}

	result := &QuotaResult{}
	err = s.txRunner.WithinTx(ctx, func(ctx context.Context, tx repository.DBTX) error {
		stores := s.stores(tx)
		now := time.Now().UTC()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

		usage, err := stores.Usage.FindByOwnerAndDateForUpdate(ctx, userID, companyID, today)
		if err != nil {
			return err
		}

		if usage == nil {
			usage = &entity.JobPostingUsage{
				UserID:      userID,
				CompanyID:   companyID,
				PostingDate: today,
				UsedCount:   1,
				FreeLimit:   s.cfg.DailyFreeLimit,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := stores.Usage.Create(ctx, usage); err != nil {
				return err
			}
			result.CanPost = true
			result.Message = freeQuotaMessage(usage)
			return nil
		}

		if usage.UsedCount < usage.FreeLimit {
			if err := stores.Usage.IncrementUsedCount(ctx, usage.ID, now); err != nil {
				return err
			}
			usage.UsedCount++
			result.CanPost = true
			result.Message = freeQuotaMessage(usage)
			return nil
		}

		subscriptions, err := stores.Subscriptions.ListActiveByUserForUpdate(ctx, userID, now)
		if err != nil {
			return err
		}
		if len(subscriptions) == 0 {
			result.Message = "You have used all free posts for today. Purchase a subscription package to post more."
			return nil
		}

		for _, subscription := range subscriptions {
			if subscription.RemainingPosts <= 0 {
				continue
			}
			if err := stores.Subscriptions.DecrementRemainingPosts(ctx, subscription.ID, now); err != nil {
				if errors.Is(err, repository.ErrNoRemainingPosts) {
					continue
				}
				return err
			}
			result.CanPost = true
			result.Message = paidQuotaMessage(s.packageName(ctx, subscription.PackageID), subscription.RemainingPosts-1)
			return nil
		}

		result.Message = "All your subscription packages are out of posts. Purchase another package to post more."
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *QuotaService) packageName(ctx context.Context, packageID uint64) string {
	pkg, err := s.packageRepo.FindByID(ctx, packageID)
	if err != nil || pkg == nil {
		return "subscription"
	}
	return pkg.Name
}

func freeQuotaMessage(usage *entity.JobPostingUsage) string {
	return fmt.Sprintf("Used a free daily post. %d of %d free posts left today.",
		usage.FreeLimit-usage.UsedCount, usage.FreeLimit)
}

func paidQuotaMessage(packageName string, remaining int32) string {
	return fmt.Sprintf("Used one post from package %s. %d posts left.", packageName, remaining)
}
