package entity

import "time"

// SubscriptionPackage is the purchasable template. Price is in VND.
// Changing price or limits never affects subscriptions already issued;
// those carry their own snapshot.
type SubscriptionPackage struct {
	ID            uint64
	Name          string
	Description   string
	Price         int64
	DurationDays  int32
	JobPostLimit  int32
	IsHighlighted bool
	IsPrioritized bool
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
