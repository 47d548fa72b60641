package dto

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type SubscriptionPackageResponse struct {
	ID            uint64 `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	Price         int64  `json:"price"`
	DurationDays  int32  `json:"duration_days"`
	JobPostLimit  int32  `json:"job_post_limit"`
	IsHighlighted bool   `json:"is_highlighted"`
	IsPrioritized bool   `json:"is_prioritized"`
	IsActive      bool   `json:"is_active"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

type ListPackagesResponse struct {
	Packages []*SubscriptionPackageResponse `json:"packages"`
}

type PackageEnvelopeResponse struct {
	Package *SubscriptionPackageResponse `json:"package"`
}

type PackagePriceResponse struct {
	PackageID          uint64  `json:"package_id"`
	OriginalPrice      int64   `json:"original_price"`
	DiscountPercentage float64 `json:"discount_percentage"`
	FinalPrice         int64   `json:"final_price"`
}

type EmployerSubscriptionResponse struct {
	ID                 uint64  `json:"id"`
	UserID             uint64  `json:"user_id"`
	CompanyID          uint64  `json:"company_id"`
	PackageID          uint64  `json:"package_id"`
	StartDate          string  `json:"start_date"`
	EndDate            string  `json:"end_date"`
	Status             string  `json:"status"`
	RemainingPosts     int32   `json:"remaining_posts"`
	PaymentMethod      string  `json:"payment_method,omitempty"`
	Amount             int64   `json:"amount"`
	OriginalAmount     int64   `json:"original_amount"`
	DiscountPercentage float64 `json:"discount_percentage"`
	CreatedAt          string  `json:"created_at"`
	UpdatedAt          string  `json:"updated_at"`
}

type SubscriptionEnvelopeResponse struct {
	Subscription *EmployerSubscriptionResponse `json:"subscription"`
}

type ListSubscriptionsResponse struct {
	Subscriptions       []*EmployerSubscriptionResponse `json:"subscriptions"`
	TotalRemainingPosts int32                           `json:"total_remaining_posts"`
}

type SubscriptionStatusResponse struct {
	HasActiveSubscription bool  `json:"has_active_subscription"`
	RemainingJobPosts     int32 `json:"remaining_job_posts"`
}

type QuotaCheckResponse struct {
	CanPost bool   `json:"can_post"`
	Message string `json:"message"`
}

type CreatePaymentResponse struct {
	PaymentURL string `json:"payment_url"`
}

type TransactionResponse struct {
	ID            uint64 `json:"id"`
	OrderID       string `json:"order_id"`
	UserID        uint64 `json:"user_id"`
	CompanyID     uint64 `json:"company_id"`
	PackageID     uint64 `json:"package_id"`
	Amount        int64  `json:"amount"`
	OrderInfo     string `json:"order_info,omitempty"`
	OrderType     string `json:"order_type,omitempty"`
	Status        string `json:"status"`
	TransactionNo string `json:"transaction_no,omitempty"`
	ResponseCode  string `json:"response_code,omitempty"`
	PaymentDate   string `json:"payment_date,omitempty"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

type TransactionEnvelopeResponse struct {
	Transaction *TransactionResponse `json:"transaction"`
}
