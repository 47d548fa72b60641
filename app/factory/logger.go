package factory

import (
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

func NewModuleLogger(module string) logrus.FieldLogger {
	return logrus.WithField("module", module)
}

// RequestLogger scopes a module logger to one HTTP request. The request id
// comes from the RequestID middleware, which writes it to the response
// headers; gateway callbacks carry no inbound id of their own.
func RequestLogger(logger logrus.FieldLogger, ctx echo.Context) logrus.FieldLogger {
	requestID := ctx.Response().Header().Get(echo.HeaderXRequestID)
	if requestID == "" {
		requestID = ctx.Request().Header.Get(echo.HeaderXRequestID)
	}
	return logger.WithField("request_id", requestID)
}
