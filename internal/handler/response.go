package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/moementrabelsi/mma/internal/apperr"
	"github.com/moementrabelsi/mma/pkg/logger"
	"go.uber.org/zap"
)

// Response is the envelope of every API response
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func ok(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func okMessage(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, Response{Success: true, Message: message, Data: data})
}

// bind decodes the request body, reporting any decoding failure as a validation error
func bind(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		logger.FromContext(c).Warn("Invalid request data", zap.Error(err))
		return apperr.Validation("Invalid request data")
	}
	return nil
}

// resolveError maps any error returned by a handler or middleware to a status and a safe message
func resolveError(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch {
		case he.Code == http.StatusNotFound:
			return he.Code, "Route not found"
		case he.Code >= http.StatusInternalServerError:
			return he.Code, "Internal server error"
		default:
			return he.Code, http.StatusText(he.Code)
		}
	}
	return apperr.StatusCode(err), apperr.PublicMessage(err)
}

// ErrorHandler writes every error as an envelope; details of server errors are only logged
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, message := resolveError(err)
	log := logger.FromContext(c)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", zap.Int("status", status), zap.Error(err))
	} else {
		log.Debug("Request rejected", zap.Int("status", status), zap.String("message", message))
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(status)
	} else {
		werr = c.JSON(status, Response{Success: false, Message: message})
	}
	if werr != nil {
		log.Error("Failed to write error response", zap.Error(werr))
	}
}
