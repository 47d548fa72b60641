package controller

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hstore/ms-go-employer-subscriptions/app/entity"
	"github.com/hstore/ms-go-employer-subscriptions/app/repository"
	"github.com/hstore/ms-go-employer-subscriptions/app/service"
	"github.com/hstore/ms-go-employer-subscriptions/app/vnpay"
)

type controllerTransactionRepo struct {
	createFn        func(ctx context.Context, transaction *entity.Transaction) error
	findByOrderIDFn func(ctx context.Context, orderID string) (*entity.Transaction, error)
}

func (r *controllerTransactionRepo) Create(ctx context.Context, transaction *entity.Transaction) error {
	if r.createFn != nil {
		return r.createFn(ctx, transaction)
	}
	return nil
}

func (r *controllerTransactionRepo) FindByOrderID(ctx context.Context, orderID string) (*entity.Transaction, error) {
	if r.findByOrderIDFn != nil {
		return r.findByOrderIDFn(ctx, orderID)
	}
	return nil, nil
}

type controllerTransactionTxStore struct {
	findForUpdateFn func(ctx context.Context, orderID string) (*entity.Transaction, error)
	updateFn        func(ctx context.Context, transaction *entity.Transaction) error
}

func (s *controllerTransactionTxStore) FindByOrderIDForUpdate(ctx context.Context, orderID string) (*entity.Transaction, error) {
	if s.findForUpdateFn != nil {
		return s.findForUpdateFn(ctx, orderID)
	}
	return nil, nil
}

func (s *controllerTransactionTxStore) Update(ctx context.Context, transaction *entity.Transaction) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, transaction)
	}
	return nil
}

type controllerSubscriptionCreateStore struct {
	createFn func(ctx context.Context, subscription *entity.EmployerSubscription) error
}

func (s *controllerSubscriptionCreateStore) Create(ctx context.Context, subscription *entity.EmployerSubscription) error {
	if s.createFn != nil {
		return s.createFn(ctx, subscription)
	}
	return nil
}

func testGatewayClient() *vnpay.Client {
	return vnpay.NewClient(vnpay.Config{
		TmnCode:      "TESTCODE",
		HashSecret:   "test-secret",
		PayURL:       "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		ReturnURL:    "https://jobs.local/payments/vnpay-callback",
		ExpireWindow: 15 * time.Minute,
	})
}

func newPaymentControllerForTest(
	transactions *controllerTransactionRepo,
	txTransactions *controllerTransactionTxStore,
	txSubscriptions *controllerSubscriptionCreateStore,
) *PaymentController {
	stores := func(_ repository.DBTX) service.PaymentTxStores {
		return service.PaymentTxStores{Transactions: txTransactions, Subscriptions: txSubscriptions}
	}
	paymentSvc := service.NewPaymentService(
		&controllerUserRepo{},
		&controllerCompanyRepo{},
		&controllerPackageRepo{findByIDFn: func(_ context.Context, id uint64) (*entity.SubscriptionPackage, error) {
			return &entity.SubscriptionPackage{ID: id, Name: "Pro", Price: 1000000, IsActive: true, DurationDays: 30, JobPostLimit: 10}, nil
		}},
		transactions,
		testGatewayClient(),
		&controllerTxRunner{},
		stores,
	)
	return NewPaymentController(paymentSvc)
}

func TestCreatePaymentSuccess(t *testing.T) {
	var created *entity.Transaction
	ctrl := newPaymentControllerForTest(
		&controllerTransactionRepo{createFn: func(_ context.Context, transaction *entity.Transaction) error {
			created = transaction
			return nil
		}},
		&controllerTransactionTxStore{},
		&controllerSubscriptionCreateStore{},
	)
	e := echo.New()
	body := `{"user_id":1,"company_id":2,"package_id":3,"amount":800000,"order_info":"Pro package","order_type":"subscription"}`
	req := httptest.NewRequest(http.MethodPost, "/payments", bytes.NewBufferString(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	_ = ctrl.CreatePayment(ctx)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if created == nil || created.Status != entity.TransactionStatusPending {
		t.Fatalf("expected pending transaction, got %+v", created)
	}

	var payload struct {
		PaymentURL string `json:"payment_url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !strings.Contains(payload.PaymentURL, "vnp_SecureHash=") {
		t.Fatalf("expected signed url, got %q", payload.PaymentURL)
	}
}

func TestCreatePaymentValidationError(t *testing.T) {
	ctrl := newPaymentControllerForTest(&controllerTransactionRepo{}, &controllerTransactionTxStore{}, &controllerSubscriptionCreateStore{})
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/payments", bytes.NewBufferString(`{"user_id":1}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	_ = ctrl.CreatePayment(ctx)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestVNPayCallbackInvalidSignature(t *testing.T) {
	ctrl := newPaymentControllerForTest(&controllerTransactionRepo{}, &controllerTransactionTxStore{}, &controllerSubscriptionCreateStore{})
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/payments/vnpay-callback?vnp_TxnRef=order-1&vnp_ResponseCode=00", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	_ = ctrl.VNPayCallback(ctx)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestVNPayCallbackSuccess(t *testing.T) {
	transaction := &entity.Transaction{
		ID:        1,
		OrderID:   "order-1",
		UserID:    1,
		CompanyID: 2,
		PackageID: 3,
		Amount:    800000,
		Status:    entity.TransactionStatusPending,
	}
	subscriptionsCreated := 0
	ctrl := newPaymentControllerForTest(
		&controllerTransactionRepo{},
		&controllerTransactionTxStore{findForUpdateFn: func(_ context.Context, _ string) (*entity.Transaction, error) {
			return transaction, nil
		}},
		&controllerSubscriptionCreateStore{createFn: func(_ context.Context, _ *entity.EmployerSubscription) error {
			subscriptionsCreated++
			return nil
		}},
	)

	rawQuery := signedCallbackQuery(map[string]string{
		vnpay.ParamTxnRef:        "order-1",
		vnpay.ParamResponseCode:  "00",
		vnpay.ParamTransactionNo: "14422574",
		vnpay.ParamPayDate:       "20260901103000",
		vnpay.ParamAmount:        "80000000",
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/payments/vnpay-callback?"+rawQuery, nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	_ = ctrl.VNPayCallback(ctx)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if transaction.Status != entity.TransactionStatusSuccess {
		t.Fatalf("expected SUCCESS transaction, got %q", transaction.Status)
	}
	if subscriptionsCreated != 1 {
		t.Fatalf("expected one subscription, got %d", subscriptionsCreated)
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if payload.Message != "Payment successful" {
		t.Fatalf("unexpected message: %q", payload.Message)
	}
}

// signedCallbackQuery renders a callback query string signed the way the
// gateway signs: sorted parameters, escaped values, HMAC-SHA512 over the
// canonical string.
func signedCallbackQuery(params map[string]string) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var hashData, query strings.Builder
	for i, name := range names {
		value := url.QueryEscape(params[name])
		if i > 0 {
			hashData.WriteByte('&')
			query.WriteByte('&')
		}
		hashData.WriteString(name + "=" + value)
		query.WriteString(url.QueryEscape(name) + "=" + value)
	}

	mac := hmac.New(sha512.New, []byte("test-secret"))
	mac.Write([]byte(hashData.String()))
	return query.String() + "&" + vnpay.ParamSecureHash + "=" + hex.EncodeToString(mac.Sum(nil))
}

func TestGetTransactionStatusNotFound(t *testing.T) {
	ctrl := newPaymentControllerForTest(&controllerTransactionRepo{}, &controllerTransactionTxStore{}, &controllerSubscriptionCreateStore{})
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/payments/missing", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("orderId")
	ctx.SetParamValues("missing")

	_ = ctrl.GetTransactionStatus(ctx)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetTransactionStatusFound(t *testing.T) {
	ctrl := newPaymentControllerForTest(
		&controllerTransactionRepo{findByOrderIDFn: func(_ context.Context, orderID string) (*entity.Transaction, error) {
			return &entity.Transaction{ID: 4, OrderID: orderID, Status: entity.TransactionStatusSuccess}, nil
		}},
		&controllerTransactionTxStore{},
		&controllerSubscriptionCreateStore{},
	)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/payments/order-4", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("orderId")
	ctx.SetParamValues("order-4")

	_ = ctrl.GetTransactionStatus(ctx)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var payload struct {
		Transaction struct {
			OrderID string `json:"order_id"`
			Status  string `json:"status"`
		} `json:"transaction"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if payload.Transaction.OrderID != "order-4" || payload.Transaction.Status != "SUCCESS" {
		t.Fatalf("unexpected payload: %s", rec.Body.String())
	}
}
