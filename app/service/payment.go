package service

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/hstore/ms-go-employer-subscriptions/app/entity"
	"github.com/hstore/ms-go-employer-subscriptions/app/repository"
	"github.com/hstore/ms-go-employer-subscriptions/app/vnpay"
)

type paymentGateway interface {
	BuildPaymentURL(order vnpay.Order) string
	ValidateResponse(params map[string]string) bool
}

type transactionRepository interface {
	Create(ctx context.Context, transaction *entity.Transaction) error
	FindByOrderID(ctx context.Context, orderID string) (*entity.Transaction, error)
}

// TransactionTxStore and SubscriptionCreateStore are the operations the
// callback handler performs inside its transaction.
type TransactionTxStore interface {
	FindByOrderIDForUpdate(ctx context.Context, orderID string) (*entity.Transaction, error)
	Update(ctx context.Context, transaction *entity.Transaction) error
}

type SubscriptionCreateStore interface {
	Create(ctx context.Context, subscription *entity.EmployerSubscription) error
}

type PaymentTxStores struct {
	Transactions  TransactionTxStore
	Subscriptions SubscriptionCreateStore
}

// PaymentStoreFactory binds the callback stores to one transaction.
type PaymentStoreFactory func(tx repository.DBTX) PaymentTxStores

// PaymentRequest describes one outbound charge attempt. Amount is in VND.
type PaymentRequest struct {
	UserID    uint64
	CompanyID uint64
	PackageID uint64
	Amount    int64
	OrderInfo string
	OrderType string
	ClientIP  string
}

type PaymentService struct {
	userRepo        userRepository
	companyRepo     companyRepository
	packageRepo     packageRepository
	transactionRepo transactionRepository
	gateway         paymentGateway
	txRunner        txRunner
	stores          PaymentStoreFactory
}

func NewPaymentService(
	userRepo userRepository,
	companyRepo companyRepository,
	packageRepo packageRepository,
	transactionRepo transactionRepository,
	gateway paymentGateway,
	txRunner txRunner,
	stores PaymentStoreFactory,
) *PaymentService {
	return &PaymentService{
		userRepo:        userRepo,
		companyRepo:     companyRepo,
		packageRepo:     packageRepo,
		transactionRepo: transactionRepo,
		gateway:         gateway,
		txRunner:        txRunner,
		stores:          stores,
	}
}

// CreatePaymentURL persists a PENDING transaction under a fresh order
// reference and returns the signed redirect URL for it.
func (s *PaymentService) CreatePaymentURL(ctx context.Context, req PaymentRequest) (string, error) {
	user, err := s.userRepo.FindByID(ctx, req.UserID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}

	company, err := s.companyRepo.FindByID(ctx, req.CompanyID)
	if err != nil {
		return "", err
	}
	if company == nil {
		return "", ErrCompanyNotFound
	}

	pkg, err := s.packageRepo.FindByID(ctx, req.PackageID)
	if err != nil {
		return "", err
	}
	if pkg == nil {
		return "", ErrPackageNotFound
	}

	now := time.Now().UTC()
	transaction := &entity.Transaction{
		OrderID:   newTxnRef(),
		UserID:    req.UserID,
		CompanyID: req.CompanyID,
		PackageID: req.PackageID,
		Amount:    req.Amount,
		OrderInfo: req.OrderInfo,
		OrderType: req.OrderType,
		Status:    entity.TransactionStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.transactionRepo.Create(ctx, transaction); err != nil {
		return "", err
	}

	return s.gateway.BuildPaymentURL(vnpay.Order{
		TxnRef:    transaction.OrderID,
		Amount:    transaction.Amount,
		OrderInfo: transaction.OrderInfo,
		OrderType: transaction.OrderType,
		ClientIP:  req.ClientIP,
	}), nil
}

// ProcessCallback finalizes the transaction named by the callback parameters.
// A callback with no matching transaction is ignored rather than treated as
// an error: the gateway may replay or probe the endpoint. A transaction is
// finalized at most once; replays of a finalized order are no-ops, so a
// successful payment activates exactly one subscription.
func (s *PaymentService) ProcessCallback(ctx context.Context, params map[string]string) error {
	if !s.gateway.ValidateResponse(params) {
		return ErrInvalidSignature
	}

	orderID := params[vnpay.ParamTxnRef]
	if orderID == "" {
		return nil
	}

	return s.txRunner.WithinTx(ctx, func(ctx context.Context, tx repository.DBTX) error {
		stores := s.stores(tx)

		transaction, err := stores.Transactions.FindByOrderIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if transaction == nil || transaction.IsFinalized() {
			return nil
		}

		now := time.Now().UTC()
		transaction.TransactionNo = params[vnpay.ParamTransactionNo]
		transaction.ResponseCode = params[vnpay.ParamResponseCode]
		transaction.PaymentDate = params[vnpay.ParamPayDate]
		transaction.UpdatedAt = now

		if transaction.ResponseCode == vnpay.ResponseCodeSuccess {
			transaction.Status = entity.TransactionStatusSuccess
			if err := s.activateSubscription(ctx, stores, transaction, now); err != nil {
				return err
			}
		} else {
			transaction.Status = entity.TransactionStatusFailed
		}

		return stores.Transactions.Update(ctx, transaction)
	})
}

// activateSubscription issues the subscription paid for by the transaction.
// Callback activation grants a fixed one-month period; the purchase flow uses
// the package's configured duration instead.
func (s *PaymentService) activateSubscription(ctx context.Context, stores PaymentTxStores, transaction *entity.Transaction, now time.Time) error {
	pkg, err := s.packageRepo.FindByID(ctx, transaction.PackageID)
	if err != nil {
		return err
	}
	if pkg == nil {
		return ErrPackageNotFound
	}

	return stores.Subscriptions.Create(ctx, &entity.EmployerSubscription{
		UserID:         transaction.UserID,
		CompanyID:      transaction.CompanyID,
		PackageID:      transaction.PackageID,
		StartDate:      now,
		EndDate:        now.AddDate(0, 1, 0),
		Status:         entity.SubscriptionStatusActive,
		RemainingPosts: pkg.JobPostLimit,
		PaymentMethod:  "VNPAY",
		Amount:         transaction.Amount,
		OriginalAmount: transaction.Amount,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
}

func (s *PaymentService) GetTransaction(ctx context.Context, orderID string) (*entity.Transaction, error) {
	transaction, err := s.transactionRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if transaction == nil {
		return nil, ErrTransactionNotFound
	}
	return transaction, nil
}

func newTxnRef() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + uuid.NewString()[:8]
}
