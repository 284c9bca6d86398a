// internal/api/response.go
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Corphon/RepurposeAI/internal/errors"
)

// respondError maps an application error category onto an HTTP status and
// writes the standard error envelope.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "INTERNAL_ERROR"
	message := err.Error()

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		code = appErr.Code
		switch appErr.Type {
		case apperrors.ErrorTypeValidation:
			status = http.StatusBadRequest
		case apperrors.ErrorTypeNotFound:
			status = http.StatusNotFound
		case apperrors.ErrorTypeRetryable:
			status = http.StatusServiceUnavailable
		case apperrors.ErrorTypeFatal, apperrors.ErrorTypeParse,
			apperrors.ErrorTypePersistence, apperrors.ErrorTypeProcessing:
			status = http.StatusInternalServerError
		}
	}

	c.JSON(status, gin.H{
		"success": false,
		"error":   message,
		"code":    code,
	})
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    data,
	})
}
