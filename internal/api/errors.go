package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"botdemo/internal/account"
	"botdemo/internal/catalog"
	"botdemo/internal/database"
	"botdemo/internal/i18n"
	"botdemo/internal/preferences"
	"botdemo/internal/sequence"
	"botdemo/internal/simulation"
	"botdemo/internal/validation"
)

var (
	badRequest = []error{
		simulation.ErrUnknownBotType,
		simulation.ErrInvalidConfig,
		catalog.ErrUnknownSortKey,
		sequence.ErrUnknownWallet,
		sequence.ErrUnknownPreset,
		sequence.ErrPresetRequired,
		account.ErrValidation,
		validation.ErrInvalidAddress,
		validation.ErrUnsupportedChain,
		validation.ErrInvalidEmail,
		validation.ErrInvalidHandle,
		preferences.ErrInvalidVisitor,
		i18n.ErrUnsupportedLanguage,
	}
	notFound = []error{
		database.ErrNotFound,
		sequence.ErrSessionNotFound,
	}
	conflict = []error{
		database.ErrConflict,
		sequence.ErrInvalidTransition,
	}
)

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// statusFor maps a service error to an HTTP status code.
func statusFor(err error) int {
	switch {
	case isAny(err, badRequest):
		return http.StatusBadRequest
	case isAny(err, notFound):
		return http.StatusNotFound
	case isAny(err, conflict):
		return http.StatusConflict
	case errors.Is(err, sequence.ErrTooManySessions):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func requestID(c *gin.Context) string {
	if id, ok := c.Get(RequestIDContextKey); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return "unknown"
}

// handleServiceError picks the status for err and writes the error body.
// Details of internal errors are logged but not returned.
func (h *APIHandler) handleServiceError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	h.handleError(c, err, status, msg)
}

// handleError logs the error and sends appropriate HTTP response
func (h *APIHandler) handleError(c *gin.Context, err error, statusCode int, userMessage string) {
	level := slog.LevelWarn
	if statusCode >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(c.Request.Context(), level, "API error",
		slog.String("request_id", requestID(c)),
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("error", err.Error()),
		slog.Int("status_code", statusCode),
	)

	c.AbortWithStatusJSON(statusCode, gin.H{
		"error":      userMessage,
		"request_id": requestID(c),
	})
}

// handleValidationError handles request binding errors
func (h *APIHandler) handleValidationError(c *gin.Context, err error) {
	h.handleError(c, err, http.StatusBadRequest, err.Error())
}
