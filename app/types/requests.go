package types

import (
	"errors"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

type PurchaseSubscriptionRequest struct {
	UserID        uint64 `json:"user_id"`
	CompanyID     uint64 `json:"company_id"`
	PackageID     uint64 `json:"package_id"`
	PaymentMethod string `json:"payment_method"`
}

func NewPurchaseSubscriptionRequestFromContext(ctx echo.Context) (*PurchaseSubscriptionRequest, error) {
	var body PurchaseSubscriptionRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.PaymentMethod = strings.TrimSpace(body.PaymentMethod)
	return &body, nil
}

func (r *PurchaseSubscriptionRequest) Validate() error {
	if r.UserID == 0 {
		return errors.New("user_id is required")
	}
	if r.CompanyID == 0 {
		return errors.New("company_id is required")
	}
	if r.PackageID == 0 {
		return errors.New("package_id is required")
	}
	return nil
}

type QuotaCheckRequest struct {
	UserID    uint64 `json:"user_id"`
	CompanyID uint64 `json:"company_id"`
}

func NewQuotaCheckRequestFromContext(ctx echo.Context) (*QuotaCheckRequest, error) {
	var body QuotaCheckRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	return &body, nil
}

func (r *QuotaCheckRequest) Validate() error {
	if r.UserID == 0 {
		return errors.New("user_id is required")
	}
	if r.CompanyID == 0 {
		return errors.New("company_id is required")
	}
	return nil
}

type CreatePaymentRequest struct {
	UserID    uint64 `json:"user_id"`
	CompanyID uint64 `json:"company_id"`
	PackageID uint64 `json:"package_id"`
	Amount    int64  `json:"amount"`
	OrderInfo string `json:"order_info"`
	OrderType string `json:"order_type"`
}

func NewCreatePaymentRequestFromContext(ctx echo.Context) (*CreatePaymentRequest, error) {
	var body CreatePaymentRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.OrderInfo = strings.TrimSpace(body.OrderInfo)
	body.OrderType = strings.TrimSpace(body.OrderType)
	return &body, nil
}

func (r *CreatePaymentRequest) Validate() error {
	if r.UserID == 0 {
		return errors.New("user_id is required")
	}
	if r.CompanyID == 0 {
		return errors.New("company_id is required")
	}
	if r.PackageID == 0 {
		return errors.New("package_id is required")
	}
	if r.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	if r.OrderInfo == "" {
		return errors.New("order_info is required")
	}
	return nil
}

type UpsertPackageRequest struct {
	ID            uint64 `json:"-"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Price         int64  `json:"price"`
	DurationDays  int32  `json:"duration_days"`
	JobPostLimit  int32  `json:"job_post_limit"`
	IsHighlighted bool   `json:"is_highlighted"`
	IsPrioritized bool   `json:"is_prioritized"`
	IsActive      *bool  `json:"is_active"`
}

func NewUpsertPackageRequestFromContext(ctx echo.Context) (*UpsertPackageRequest, error) {
	var body UpsertPackageRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.Name = strings.TrimSpace(body.Name)
	if idRaw := ctx.Param("id"); idRaw != "" {
		id, err := strconv.ParseUint(idRaw, 10, 64)
		if err != nil {
			return nil, err
		}
		body.ID = id
	}
	return &body, nil
}

func (r *UpsertPackageRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if r.Price < 0 {
		return errors.New("price must not be negative")
	}
	if r.DurationDays <= 0 {
		return errors.New("duration_days must be positive")
	}
	if r.JobPostLimit <= 0 {
		return errors.New("job_post_limit must be positive")
	}
	return nil
}

// IDFromContext parses a numeric path parameter.
func IDFromContext(ctx echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}

// CallbackParamsFromContext flattens the callback query string into the
// parameter map the gateway signature covers.
func CallbackParamsFromContext(ctx echo.Context) map[string]string {
	values := ctx.QueryParams()
	params := make(map[string]string, len(values))
	for name := range values {
		params[name] = values.Get(name)
	}
	return params
}
