package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/ekodaeng/ctgold-admin-gateway/pkg/errors"
)

// Recovery creates a panic recovery middleware. Unexpected faults surface
// as SERVER_ERROR with no internal detail leaked.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					zap.Any("error", err),
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"ok":         false,
					"error":      "Internal server error",
					"error_code": apperrors.ErrCodeInternalError,
				})
			}
		}()

		c.Next()
	}
}
