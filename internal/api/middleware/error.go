package middleware

import (
	"errors"
	"log"
	"net/http"

	"finops-arcade/internal/api/models"
	apperrors "finops-arcade/internal/errors"

	"github.com/gin-gonic/gin"
)

// ErrorHandler middleware handles panics and errors
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("ErrorHandler: recovered panic on %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		message := "An unexpected error occurred"
		if s, ok := recovered.(string); ok {
			message = s
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INTERNAL_ERROR",
				Message: message,
			},
		})
	})
}

// WriteError renders err with the status of its code. Errors without a code
// are logged and reported as INTERNAL_ERROR.
func WriteError(c *gin.Context, err error) {
	code := apperrors.GetCode(err)
	if code == apperrors.CodeUnknown {
		log.Printf("Handler error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INTERNAL_ERROR",
				Message: "An unexpected error occurred",
			},
		})
		return
	}

	status := code.HTTPStatus()
	if status >= http.StatusInternalServerError {
		log.Printf("Handler error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	detail := models.ErrorDetail{Code: string(code), Message: err.Error()}
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		detail.Message = appErr.Message
	}
	if md := apperrors.GetMetadata(err); len(md) > 0 {
		detail.Details = make(map[string]interface{}, len(md))
		for k, v := range md {
			detail.Details[k] = v
		}
	}
	c.AbortWithStatusJSON(status, models.ErrorResponse{Error: detail})
}

// BadRequest renders a binding failure as INVALID_REQUEST.
func BadRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    string(apperrors.CodeInvalidRequest),
			Message: err.Error(),
		},
	})
}
