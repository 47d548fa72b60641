package entity

import "time"

// Promotion is a time-windowed discount rule bound to one package.
type Promotion struct {
	ID                 uint64
	PackageID          uint64
	Name               string
	Description        string
	Code               string
	DiscountPercentage float64
	StartDate          time.Time
	EndDate            time.Time
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (p *Promotion) IsCurrent(now time.Time) bool {
	return p.IsActive && !now.Before(p.StartDate) && !now.After(p.EndDate)
}
