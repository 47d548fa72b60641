package service

import (
	"context"
	"errors"
	"time"

	"github.com/hstore/ms-go-employer-subscriptions/app/entity"
	"github.com/hstore/ms-go-employer-subscriptions/app/repository"
)

type packageAdminRepository interface {
	packageRepository
	ListActive(ctx context.Context) ([]*entity.SubscriptionPackage, error)
	Create(ctx context.Context, pkg *entity.SubscriptionPackage) error
	Update(ctx context.Context, pkg *entity.SubscriptionPackage) error
	Delete(ctx context.Context, id uint64) error
}

// PackageService manages the purchasable templates. Edits never touch
// subscriptions already issued; those carry their own price snapshot.
type PackageService struct {
	packageRepo packageAdminRepository
}

func NewPackageService(packageRepo packageAdminRepository) *PackageService {
	return &PackageService{packageRepo: packageRepo}
}

func (s *PackageService) ListActivePackages(ctx context.Context) ([]*entity.SubscriptionPackage, error) {
	return s.packageRepo.ListActive(ctx)
}

func (s *PackageService) GetPackage(ctx context.Context, id uint64) (*entity.SubscriptionPackage, error) {
	pkg, err := s.packageRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, ErrPackageNotFound
	}
	return pkg, nil
}

func (s *PackageService) CreatePackage(ctx context.Context, pkg *entity.SubscriptionPackage) error {
	now := time.Now().UTC()
	pkg.CreatedAt = now
	pkg.UpdatedAt = now
	return s.packageRepo.Create(ctx, pkg)
}

func (s *PackageService) UpdatePackage(ctx context.Context, pkg *entity.SubscriptionPackage) error {
	pkg.UpdatedAt = time.Now().UTC()
	if err := s.packageRepo.Update(ctx, pkg); err != nil {
		if errors.Is(err, repository.ErrPackageNotFound) {
			return ErrPackageNotFound
		}
		return err
	}
	return nil
}

func (s *PackageService) DeletePackage(ctx context.Context, id uint64) error {
	if err := s.packageRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrPackageNotFound) {
			return ErrPackageNotFound
		}
		return err
	}
	return nil
}
