package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/hstore/ms-go-employer-subscriptions/app/dto"
	"github.com/hstore/ms-go-employer-subscriptions/app/factory"
	"github.com/hstore/ms-go-employer-subscriptions/app/mapper"
	"github.com/hstore/ms-go-employer-subscriptions/app/service"
	"github.com/hstore/ms-go-employer-subscriptions/app/types"
	"github.com/hstore/ms-go-employer-subscriptions/app/vnpay"
)

type PaymentController struct {
	paymentService *service.PaymentService
	logger         logrus.FieldLogger
}

func NewPaymentController(paymentService *service.PaymentService) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
		logger:         factory.NewModuleLogger("payments-controller"),
	}
}

func (c *PaymentController) CreatePayment(ctx echo.Context) error {
	req, err := types.NewCreatePaymentRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	paymentURL, err := c.paymentService.CreatePaymentURL(ctx.Request().Context(), service.PaymentRequest{
		UserID:    req.UserID,
		CompanyID: req.CompanyID,
		PackageID: req.PackageID,
		Amount:    req.Amount,
		OrderInfo: req.OrderInfo,
		OrderType: req.OrderType,
		ClientIP:  ctx.RealIP(),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound),
			errors.Is(err, service.ErrCompanyNotFound),
			errors.Is(err, service.ErrPackageNotFound):
			return c.writeError(ctx, http.StatusNotFound, err.Error())
		default:
			c.logger.WithError(err).Error("Create payment failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, &dto.CreatePaymentResponse{PaymentURL: paymentURL})
}

// VNPayCallback is the gateway's return endpoint. The signature check
// happens before anything else; no other parameter is read when it fails.
func (c *PaymentController) VNPayCallback(ctx echo.Context) error {
	logger := factory.RequestLogger(c.logger, ctx)
	params := types.CallbackParamsFromContext(ctx)

	if err := c.paymentService.ProcessCallback(ctx.Request().Context(), params); err != nil {
		if errors.Is(err, service.ErrInvalidSignature) {
			logger.WithField("order_id", params[vnpay.ParamTxnRef]).Warn("Callback signature rejected")
			return c.writeError(ctx, http.StatusBadRequest, "invalid signature")
		}
		logger.WithError(err).Error("Payment callback failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	if params[vnpay.ParamResponseCode] == vnpay.ResponseCodeSuccess {
		return ctx.JSON(http.StatusOK, &dto.MessageResponse{Message: "Payment successful"})
	}
	return ctx.JSON(http.StatusOK, &dto.MessageResponse{Message: "Payment failed"})
}

func (c *PaymentController) GetTransactionStatus(ctx echo.Context) error {
	orderID := ctx.Param("orderId")
	if orderID == "" {
		return c.writeError(ctx, http.StatusBadRequest, "invalid order id")
	}

	transaction, err := c.paymentService.GetTransaction(ctx.Request().Context(), orderID)
	if err != nil {
		if errors.Is(err, service.ErrTransactionNotFound) {
			return c.writeError(ctx, http.StatusNotFound, "transaction not found")
		}
		c.logger.WithError(err).Error("Get transaction status failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &dto.TransactionEnvelopeResponse{
		Transaction: mapper.TransactionToResponse(transaction),
	})
}

func (c *PaymentController) writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &dto.ErrorResponse{Error: message})
}
