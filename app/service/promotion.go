package service

import (
	"context"
	"math"
	"time"

	"github.com/hstore/ms-go-employer-subscriptions/app/entity"
)

type promotionRepository interface {
	ListActiveByPackage(ctx context.Context, packageID uint64, now time.Time) ([]*entity.Promotion, error)
}

type packageRepository interface {
	FindByID(ctx context.Context, id uint64) (*entity.SubscriptionPackage, error)
}

// DiscountResult is the price snapshot applied to a purchase: the package's
// base price, the applied percentage and the resulting final price in VND.
type DiscountResult struct {
	OriginalPrice      int64
	DiscountPercentage float64
	FinalPrice         int64
}

type PromotionService struct {
	promotionRepo promotionRepository
	packageRepo   packageRepository
}

func NewPromotionService(promotionRepo promotionRepository, packageRepo packageRepository) *PromotionService {
	return &PromotionService{
		promotionRepo: promotionRepo,
		packageRepo:   packageRepo,
	}
}

// CalculateDiscountedPrice resolves the discount currently applicable to the
// package. When several promotions are live at once the highest discount wins;
// ties break on the lowest promotion id.
func (s *PromotionService) CalculateDiscountedPrice(ctx context.Context, packageID uint64) (*DiscountResult, error) {
	pkg, err := s.packageRepo.FindByID(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, ErrPackageNotFound
	}

	promotions, err := s.promotionRepo.ListActiveByPackage(ctx, packageID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	var best *entity.Promotion
	for _, promotion := range promotions {
		if best == nil ||
			promotion.DiscountPercentage > best.DiscountPercentage ||
			(promotion.DiscountPercentage == best.DiscountPercentage && promotion.ID < best.ID) {
			best = promotion
		}
	}

	result := &DiscountResult{
		OriginalPrice: pkg.Price,
		FinalPrice:    pkg.Price,
	}
	if best != nil {
		result.DiscountPercentage = best.DiscountPercentage
		result.FinalPrice = applyDiscount(pkg.Price, best.DiscountPercentage)
	}

	return result, nil
}

func applyDiscount(price int64, percentage float64) int64 {
	final := int64(math.Round(float64(price) * (1 - percentage/100)))
	if final < 0 {
		return 0
	}
	return final
}
