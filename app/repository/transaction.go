package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hstore/ms-go-employer-subscriptions/app/entity"
)

var (
	ErrTransactionNotFound      = errors.New("transaction not found")
	ErrTransactionAlreadyExists = errors.New("transaction already exists")
)

type TransactionRepository struct {
	db DBTX
}

func NewTransactionRepository(db DBTX) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *TransactionRepository) WithTx(tx DBTX) *TransactionRepository {
	return &TransactionRepository{db: tx}
}

const transactionColumns = `
	id, order_id, user_id, company_id, package_id, amount, order_info,
	order_type, status, transaction_no, response_code, payment_date,
	created_at, updated_at
`

func (r *TransactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	query := `
		INSERT INTO transactions (
			order_id, user_id, company_id, package_id, amount, order_info,
			order_type, status, transaction_no, response_code, payment_date,
			created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		transaction.OrderID,
		transaction.UserID,
		transaction.CompanyID,
		transaction.PackageID,
		transaction.Amount,
		transaction.OrderInfo,
		transaction.OrderType,
		transaction.Status,
		transaction.TransactionNo,
		transaction.ResponseCode,
		transaction.PaymentDate,
		transaction.CreatedAt,
		transaction.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrTransactionAlreadyExists
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	transaction.ID = uint64(id)
	return nil
}

func (r *TransactionRepository) Update(ctx context.Context, transaction *entity.Transaction) error {
	query := `
		UPDATE transactions
		SET status = ?, transaction_no = ?, response_code = ?, payment_date = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		transaction.Status,
		transaction.TransactionNo,
		transaction.ResponseCode,
		transaction.PaymentDate,
		transaction.UpdatedAt,
		transaction.ID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTransactionNotFound
	}

	return nil
}

func (r *TransactionRepository) FindByOrderID(ctx context.Context, orderID string) (*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE order_id = ?`
	return r.findOne(ctx, query, orderID)
}

// FindByOrderIDForUpdate locks the transaction row so a replayed callback
// cannot finalize it twice; callers must already be inside a transaction.
func (r *TransactionRepository) FindByOrderIDForUpdate(ctx context.Context, orderID string) (*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE order_id = ? FOR UPDATE`
	return r.findOne(ctx, query, orderID)
}

func (r *TransactionRepository) findOne(ctx context.Context, query string, args ...interface{}) (*entity.Transaction, error) {
	item := &entity.Transaction{}
	var transactionNo, responseCode, paymentDate sql.NullString
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&item.ID,
		&item.OrderID,
		&item.UserID,
		&item.CompanyID,
		&item.PackageID,
		&item.Amount,
		&item.OrderInfo,
		&item.OrderType,
		&item.Status,
		&transactionNo,
		&responseCode,
		&paymentDate,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if transactionNo.Valid {
		item.TransactionNo = transactionNo.String
	}
	if responseCode.Valid {
		item.ResponseCode = responseCode.String
	}
	if paymentDate.Valid {
		item.PaymentDate = paymentDate.String
	}

	return item, nil
}
