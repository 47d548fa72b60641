package entity

import "time"

// JobPostingUsage tracks free daily posting allowance, one row per
// (user, company, calendar day). PostingDate carries day granularity only.
type JobPostingUsage struct {
	ID          uint64
	UserID      uint64
	CompanyID   uint64
	PostingDate time.Time
	UsedCount   int32
	FreeLimit   int32
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
