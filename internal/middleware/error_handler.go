package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Eursukkul/salon-booking-service/internal/dto"
	"github.com/Eursukkul/salon-booking-service/pkg/logging"
)

// NewErrorHandler renders every error as {"message": ...}. Errors that are not
// *echo.HTTPError are logged and hidden behind a generic 500.
func NewErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	log := logging.OrNop(logger).Named("http")
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		resp := dto.ErrorResponse{Message: http.StatusText(code)}

		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			switch m := he.Message.(type) {
			case string:
				resp.Message = m
			case dto.ErrorResponse:
				resp = m
			default:
				resp.Message = http.StatusText(code)
			}
			if he.Internal != nil {
				err = he.Internal
			}
		}

		if code >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Int("status", code),
				zap.Error(err),
			)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}
