package service

import (
	"context"
	"time"

	"github.com/hstore/ms-go-employer-subscriptions/app/entity"
)

type subscriptionRepository interface {
	Create(ctx context.Context, subscription *entity.EmployerSubscription) error
	ListActiveByUser(ctx context.Context, userID uint64, now time.Time) ([]*entity.EmployerSubscription, error)
	TotalRemainingPosts(ctx context.Context, userID uint64, now time.Time) (int32, error)
	ListExpiredActive(ctx context.Context, now time.Time) ([]*entity.EmployerSubscription, error)
	UpdateStatus(ctx context.Context, id uint64, status string, now time.Time) error
}

type discountCalculator interface {
	CalculateDiscountedPrice(ctx context.Context, packageID uint64) (*DiscountResult, error)
}

// SubscriptionStatus reports the first active subscription an employer holds
// for one company. When several active subscriptions exist for the same
// company only that first one's remaining count is surfaced; summing across
// packages is deliberately not done here.
type SubscriptionStatus struct {
	HasActiveSubscription bool
	RemainingJobPosts     int32
}

type EmployerSubscriptionService struct {
	userRepo         userRepository
	companyRepo      companyRepository
	packageRepo      packageRepository
	subscriptionRepo subscriptionRepository
	discounts        discountCalculator
}

func NewEmployerSubscriptionService(
	userRepo userRepository,
	companyRepo companyRepository,
	packageRepo packageRepository,
	subscriptionRepo subscriptionRepository,
	discounts discountCalculator,
) *EmployerSubscriptionService {
	return &EmployerSubscriptionService{
		userRepo:         userRepo,
		companyRepo:      companyRepo,
		packageRepo:      packageRepo,
		subscriptionRepo: subscriptionRepo,
		discounts:        discounts,
	}
}

// PurchaseSubscription issues a subscription directly, snapshotting the
// discounted price at purchase time. The subscription runs for exactly
// durationDays * 24h of elapsed time from now, not a calendar month.
func (s *EmployerSubscriptionService) PurchaseSubscription(
	ctx context.Context,
	userID, companyID, packageID uint64,
	paymentMethod string,
) (*entity.EmployerSubscription, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if !user.IsVerified() && user.Role != entity.RoleSuperAdmin {
		return nil, ErrVerificationRequired
	}

	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, ErrCompanyNotFound
	}

	pkg, err := s.packageRepo.FindByID(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, ErrPackageNotFound
	}
	if !pkg.IsActive {
		return nil, ErrPackageNotActive
	}

	discount, err := s.discounts.CalculateDiscountedPrice(ctx, packageID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	subscription := &entity.EmployerSubscription{
		UserID:             userID,
		CompanyID:          companyID,
		PackageID:          packageID,
		StartDate:          now,
		EndDate:            now.Add(time.Duration(pkg.DurationDays) * 24 * time.Hour),
		Status:             entity.SubscriptionStatusActive,
		RemainingPosts:     pkg.JobPostLimit,
		PaymentMethod:      paymentMethod,
		Amount:             discount.FinalPrice,
		OriginalAmount:     discount.OriginalPrice,
		DiscountPercentage: discount.DiscountPercentage,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.subscriptionRepo.Create(ctx, subscription); err != nil {
		return nil, err
	}

	return subscription, nil
}

func (s *EmployerSubscriptionService) GetActiveSubscriptionsByUserID(ctx context.Context, userID uint64) ([]*entity.EmployerSubscription, error) {
	return s.subscriptionRepo.ListActiveByUser(ctx, userID, time.Now().UTC())
}

func (s *EmployerSubscriptionService) GetTotalRemainingPosts(ctx context.Context, userID uint64) (int32, error) {
	return s.subscriptionRepo.TotalRemainingPosts(ctx, userID, time.Now().UTC())
}

func (s *EmployerSubscriptionService) GetSubscriptionStatus(ctx context.Context, userID, companyID uint64) (*SubscriptionStatus, error) {
	subscriptions, err := s.subscriptionRepo.ListActiveByUser(ctx, userID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	status := &SubscriptionStatus{}
	for _, subscription := range subscriptions {
		if subscription.CompanyID == companyID {
			status.HasActiveSubscription = true
			status.RemainingJobPosts = subscription.RemainingPosts
			break
		}
	}

	return status, nil
}

// RunExpirationBatch marks ACTIVE subscriptions whose end date has passed as
// EXPIRED. A failed update skips the row; the next run picks it up again.
func (s *EmployerSubscriptionService) RunExpirationBatch(ctx context.Context) error {
	now := time.Now().UTC()
	items, err := s.subscriptionRepo.ListExpiredActive(ctx, now)
	if err != nil {
		return err
	}

	for _, item := range items {
		_ = s.subscriptionRepo.UpdateStatus(ctx, item.ID, entity.SubscriptionStatusExpired, now)
	}

	return nil
}
