package delivery

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sezy0/NeoMart-Backend/internal/domain"
	"github.com/Sezy0/NeoMart-Backend/internal/usecase"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Status:  "error",
		Message: message,
	})
}

// RespondError maps a use-case error to its HTTP status. Unknown errors are
// reported as 500 without leaking internals.
func RespondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidState):
		ErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrAccessDenied):
		ErrorResponse(c, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrConflict):
		ErrorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, usecase.ErrInvalidCredentials):
		ErrorResponse(c, http.StatusUnauthorized, "Invalid credentials")
	default:
		ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
	}
}
