package mapper

import (
	"time"

	"github.com/hstore/ms-go-employer-subscriptions/app/dto"
	"github.com/hstore/ms-go-employer-subscriptions/app/entity"
)

func PackageToResponse(item *entity.SubscriptionPackage) *dto.SubscriptionPackageResponse {
	if item == nil {
		return nil
	}

	return &dto.SubscriptionPackageResponse{
		ID:            item.ID,
		Name:          item.Name,
		Description:   item.Description,
		Price:         item.Price,
		DurationDays:  item.DurationDays,
		JobPostLimit:  item.JobPostLimit,
		IsHighlighted: item.IsHighlighted,
		IsPrioritized: item.IsPrioritized,
		IsActive:      item.IsActive,
		CreatedAt:     formatTime(item.CreatedAt),
		UpdatedAt:     formatTime(item.UpdatedAt),
	}
}

func PackagesToResponse(items []*entity.SubscriptionPackage) []*dto.SubscriptionPackageResponse {
	result := make([]*dto.SubscriptionPackageResponse, 0, len(items))
	for _, item := range items {
		result = append(result, PackageToResponse(item))
	}
	return result
}

func SubscriptionToResponse(item *entity.EmployerSubscription) *dto.EmployerSubscriptionResponse {
	if item == nil {
		return nil
	}

	return &dto.EmployerSubscriptionResponse{
		ID:                 item.ID,
		UserID:             item.UserID,
		CompanyID:          item.CompanyID,
		PackageID:          item.PackageID,
		StartDate:          formatTime(item.StartDate),
		EndDate:            formatTime(item.EndDate),
		Status:             item.Status,
		RemainingPosts:     item.RemainingPosts,
		PaymentMethod:      item.PaymentMethod,
		Amount:             item.Amount,
		OriginalAmount:     item.OriginalAmount,
		DiscountPercentage: item.DiscountPercentage,
		CreatedAt:          formatTime(item.CreatedAt),
		UpdatedAt:          formatTime(item.UpdatedAt),
	}
}

func SubscriptionsToResponse(items []*entity.EmployerSubscription) []*dto.EmployerSubscriptionResponse {
	result := make([]*dto.EmployerSubscriptionResponse, 0, len(items))
	for _, item := range items {
		result = append(result, SubscriptionToResponse(item))
	}
	return result
}

func TransactionToResponse(item *entity.Transaction) *dto.TransactionResponse {
	if item == nil {
		return nil
	}

	return &dto.TransactionResponse{
		ID:            item.ID,
		OrderID:       item.OrderID,
		UserID:        item.UserID,
		CompanyID:     item.CompanyID,
		PackageID:     item.PackageID,
		Amount:        item.Amount,
		OrderInfo:     item.OrderInfo,
		OrderType:     item.OrderType,
		Status:        item.Status,
		TransactionNo: item.TransactionNo,
		ResponseCode:  item.ResponseCode,
		PaymentDate:   item.PaymentDate,
		CreatedAt:     formatTime(item.CreatedAt),
		UpdatedAt:     formatTime(item.UpdatedAt),
	}
}

func formatTime(v time.Time) string {
	return v.UTC().Format(time.RFC3339)
}
