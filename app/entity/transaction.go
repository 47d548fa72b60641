package entity

import "time"

const (
	TransactionStatusPending = "PENDING"
	TransactionStatusSuccess = "SUCCESS"
	TransactionStatusFailed  = "FAILED"
)

// Transaction records one payment-gateway charge attempt. OrderID is the
// gateway-facing reference, unique per attempt. A transaction moves from
// PENDING to exactly one of SUCCESS or FAILED.
type Transaction struct {
	ID            uint64
	OrderID       string
	UserID        uint64
	CompanyID     uint64
	PackageID     uint64
	Amount        int64
	OrderInfo     string
	OrderType     string
	Status        string
	TransactionNo string
	ResponseCode  string
	PaymentDate   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (t *Transaction) IsFinalized() bool {
	return t.Status != TransactionStatusPending
}
