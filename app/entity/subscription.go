package entity

import "time"

const (
	SubscriptionStatusActive  = "ACTIVE"
	SubscriptionStatusExpired = "EXPIRED"
)

// EmployerSubscription is an issued instance of a package: a time-bounded
// entitlement to post a limited number of jobs for one company.
// Amount, OriginalAmount and DiscountPercentage snapshot the price at
// purchase time. RemainingPosts never goes below zero.
type EmployerSubscription struct {
	ID                 uint64
	UserID             uint64
	CompanyID          uint64
	PackageID          uint64
	StartDate          time.Time
	EndDate            time.Time
	Status             string
	RemainingPosts     int32
	PaymentMethod      string
	Amount             int64
	OriginalAmount     int64
	DiscountPercentage float64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
