package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	regdomain "github.com/lexperience/backend/internal/registration/domain"
	"gorm.io/gorm"
)

type response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, message := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, response{Success: false, Message: message})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, response{Success: true, Data: data})
}

func mapError(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, "internal server error"
	}

	if isValidationError(err) {
		return http.StatusBadRequest, err.Error()
	}

	switch {
	case errors.Is(err, regdomain.ErrPaymentNotVerified):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, regdomain.ErrPaidDowngrade):
		return http.StatusConflict, err.Error()
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case isNotFoundError(err):
		return http.StatusNotFound, "not found"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, regdomain.ErrInvalidName),
		errors.Is(err, regdomain.ErrInvalidEmail),
		errors.Is(err, regdomain.ErrInvalidAffiliation),
		errors.Is(err, regdomain.ErrMissingReference),
		errors.Is(err, regdomain.ErrDocumentRequired),
		errors.Is(err, regdomain.ErrAmountMismatch),
		errors.Is(err, regdomain.ErrInvalidAmount),
		errors.Is(err, regdomain.ErrInvalidState):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, regdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func classifyErrorForLog(err error) (string, string) {
	if err == nil {
		return "", ""
	}
	switch {
	case isValidationError(err):
		return "validation_error", err.Error()
	case errors.Is(err, regdomain.ErrPaidDowngrade):
		return "conflict", err.Error()
	case errors.Is(err, regdomain.ErrPaymentNotVerified):
		return "payment_error", err.Error()
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized", "unauthorized"
	case isNotFoundError(err):
		return "not_found", "not_found"
	default:
		return "internal_error", "internal_error"
	}
}
