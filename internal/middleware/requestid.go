package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/suteetoe/hrms/pkg/logger"
	"go.uber.org/zap"
)

// HeaderRequestID is echoed back on every response
const HeaderRequestID = "X-Request-ID"

// RequestIDMiddleware tags each request with an id and a logger carrying it.
// The logger is stored both on the echo context and on the request context so
// services below the handlers log with the same request_id.
func RequestIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			requestID := req.Header.Get(HeaderRequestID)
			if requestID == "" {
				requestID = uuid.New().String()
				req.Header.Set(HeaderRequestID, requestID)
			}
			c.Response().Header().Set(HeaderRequestID, requestID)
			c.Set("request_id", requestID)

			ctxLogger := logger.GetLogger().With(zap.String("request_id", requestID))
			c.Set(logger.EchoKey, ctxLogger)
			c.SetRequest(req.WithContext(logger.WithContext(req.Context(), ctxLogger)))

			return next(c)
		}
	}
}
