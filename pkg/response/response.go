package response

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/ekodaeng/ctgold-admin-gateway/pkg/errors"
)

// OK sends a successful JSON response. The fields map is merged into the
// envelope so clients see a flat {"ok": true, ...} object.
func OK(c *gin.Context, status int, fields gin.H) {
	body := gin.H{"ok": true}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(status, body)
}

// Error sends an error JSON response
func Error(c *gin.Context, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		c.JSON(appErr.Status, gin.H{
			"ok":         false,
			"error":      appErr.Message,
			"error_code": appErr.Code,
		})
		return
	}

	// Default internal server error
	c.JSON(500, gin.H{
		"ok":         false,
		"error":      "Internal server error",
		"error_code": apperrors.ErrCodeInternalError,
	})
}

// AbortError sends an error response and aborts the request chain
func AbortError(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

// ValidationError sends a validation error response
func ValidationError(c *gin.Context, message string) {
	c.JSON(400, gin.H{
		"ok":         false,
		"error":      message,
		"error_code": apperrors.ErrCodeValidationFailed,
	})
}
