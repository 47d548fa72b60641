package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/hstore/ms-go-employer-subscriptions/app/dto"
	"github.com/hstore/ms-go-employer-subscriptions/app/entity"
	"github.com/hstore/ms-go-employer-subscriptions/app/factory"
	"github.com/hstore/ms-go-employer-subscriptions/app/mapper"
	"github.com/hstore/ms-go-employer-subscriptions/app/service"
	"github.com/hstore/ms-go-employer-subscriptions/app/types"
)

type SubscriptionController struct {
	packageService      *service.PackageService
	promotionService    *service.PromotionService
	subscriptionService *service.EmployerSubscriptionService
	quotaService        *service.QuotaService
	logger              logrus.FieldLogger
}

func NewSubscriptionController(
	packageService *service.PackageService,
	promotionService *service.PromotionService,
	subscriptionService *service.EmployerSubscriptionService,
	quotaService *service.QuotaService,
) *SubscriptionController {
	return &SubscriptionController{
		packageService:      packageService,
		promotionService:    promotionService,
		subscriptionService: subscriptionService,
		quotaService:        quotaService,
		logger:              factory.NewModuleLogger("subscriptions-controller"),
	}
}

func (c *SubscriptionController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &dto.HealthResponse{Status: "ok"})
}

func (c *SubscriptionController) ListActivePackages(ctx echo.Context) error {
	items, err := c.packageService.ListActivePackages(ctx.Request().Context())
	if err != nil {
		c.logger.WithError(err).Error("List packages failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &dto.ListPackagesResponse{
		Packages: mapper.PackagesToResponse(items),
	})
}

func (c *SubscriptionController) GetPackage(ctx echo.Context) error {
	id, err := types.IDFromContext(ctx, "id")
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid package id")
	}

	item, err := c.packageService.GetPackage(ctx.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrPackageNotFound) {
			return c.writeError(ctx, http.StatusNotFound, "subscription package not found")
		}
		c.logger.WithError(err).Error("Get package failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &dto.PackageEnvelopeResponse{
		Package: mapper.PackageToResponse(item),
	})
}

func (c *SubscriptionController) CreatePackage(ctx echo.Context) error {
	req, err := types.NewUpsertPackageRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	pkg := packageFromRequest(req)
	if err := c.packageService.CreatePackage(ctx.Request().Context(), pkg); err != nil {
		c.logger.WithError(err).Error("Create package failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusCreated, &dto.PackageEnvelopeResponse{
		Package: mapper.PackageToResponse(pkg),
	})
}

func (c *SubscriptionController) UpdatePackage(ctx echo.Context) error {
	req, err := types.NewUpsertPackageRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}
	if req.ID == 0 {
		return c.writeError(ctx, http.StatusBadRequest, "invalid package id")
	}

	pkg := packageFromRequest(req)
	if err := c.packageService.UpdatePackage(ctx.Request().Context(), pkg); err != nil {
		if errors.Is(err, service.ErrPackageNotFound) {
			return c.writeError(ctx, http.StatusNotFound, "subscription package not found")
		}
		c.logger.WithError(err).Error("Update package failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &dto.PackageEnvelopeResponse{
		Package: mapper.PackageToResponse(pkg),
	})
}

func (c *SubscriptionController) DeletePackage(ctx echo.Context) error {
	id, err := types.IDFromContext(ctx, "id")
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid package id")
	}

	if err := c.packageService.DeletePackage(ctx.Request().Context(), id); err != nil {
		if errors.Is(err, service.ErrPackageNotFound) {
			return c.writeError(ctx, http.StatusNotFound, "subscription package not found")
		}
		c.logger.WithError(err).Error("Delete package failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &dto.MessageResponse{Message: "Package deleted successfully"})
}

func (c *SubscriptionController) GetPackagePrice(ctx echo.Context) error {
	id, err := types.IDFromContext(ctx, "id")
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid package id")
	}

	result, err := c.promotionService.CalculateDiscountedPrice(ctx.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrPackageNotFound) {
			return c.writeError(ctx, http.StatusNotFound, "subscription package not found")
		}
		c.logger.WithError(err).Error("Calculate package price failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &dto.PackagePriceResponse{
		PackageID:          id,
		OriginalPrice:      result.OriginalPrice,
		DiscountPercentage: result.DiscountPercentage,
		FinalPrice:         result.FinalPrice,
	})
}

func (c *SubscriptionController) PurchaseSubscription(ctx echo.Context) error {
	req, err := types.NewPurchaseSubscriptionRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	subscription, err := c.subscriptionService.PurchaseSubscription(
		ctx.Request().Context(), req.UserID, req.CompanyID, req.PackageID, req.PaymentMethod)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound),
			errors.Is(err, service.ErrCompanyNotFound),
			errors.Is(err, service.ErrPackageNotFound):
			return c.writeError(ctx, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrVerificationRequired):
			return c.writeError(ctx, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrPackageNotActive):
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		default:
			factory.RequestLogger(c.logger, ctx).WithError(err).Error("Purchase subscription failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusCreated, &dto.SubscriptionEnvelopeResponse{
		Subscription: mapper.SubscriptionToResponse(subscription),
	})
}

func (c *SubscriptionController) ListActiveSubscriptions(ctx echo.Context) error {
	userID, err := types.IDFromContext(ctx, "userId")
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid user id")
	}

	reqCtx := ctx.Request().Context()
	items, err := c.subscriptionService.GetActiveSubscriptionsByUserID(reqCtx, userID)
	if err != nil {
		c.logger.WithError(err).Error("List active subscriptions failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	total, err := c.subscriptionService.GetTotalRemainingPosts(reqCtx, userID)
	if err != nil {
		c.logger.WithError(err).Error("Total remaining posts failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &dto.ListSubscriptionsResponse{
		Subscriptions:       mapper.SubscriptionsToResponse(items),
		TotalRemainingPosts: total,
	})
}

func (c *SubscriptionController) GetSubscriptionStatus(ctx echo.Context) error {
	userID, err := types.IDFromContext(ctx, "userId")
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid user id")
	}
	companyID, err := types.IDFromContext(ctx, "companyId")
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid company id")
	}

	status, err := c.subscriptionService.GetSubscriptionStatus(ctx.Request().Context(), userID, companyID)
	if err != nil {
		c.logger.WithError(err).Error("Get subscription status failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &dto.SubscriptionStatusResponse{
		HasActiveSubscription: status.HasActiveSubscription,
		RemainingJobPosts:     status.RemainingJobPosts,
	})
}

func (c *SubscriptionController) CheckQuota(ctx echo.Context) error {
	req, err := types.NewQuotaCheckRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	result, err := c.quotaService.CheckAndUpdateQuota(ctx.Request().Context(), req.UserID, req.CompanyID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrCompanyNotFound):
			return c.writeError(ctx, http.StatusNotFound, err.Error())
		default:
			c.logger.WithError(err).Error("Quota check failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, &dto.QuotaCheckResponse{
		CanPost: result.CanPost,
		Message: result.Message,
	})
}

func (c *SubscriptionController) writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &dto.ErrorResponse{Error: message})
}

func packageFromRequest(req *types.UpsertPackageRequest) *entity.SubscriptionPackage {
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	return &entity.SubscriptionPackage{
		ID:            req.ID,
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		DurationDays:  req.DurationDays,
		JobPostLimit:  req.JobPostLimit,
		IsHighlighted: req.IsHighlighted,
		IsPrioritized: req.IsPrioritized,
		IsActive:      isActive,
	}
}
