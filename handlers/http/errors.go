package httpHandler

import (
	"errors"
	"net/http"

	"chat-api/apperrors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func statusFor(code apperrors.Code) int {
	switch code {
	case apperrors.CodeInvalidArgument:
		return http.StatusBadRequest
	case apperrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.CodeForbidden:
		return http.StatusForbidden
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeDuplicate:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError maps a typed error to its transport status. Internal details
// never reach the caller; they are logged server-side by the middleware.
func respondError(c *gin.Context, err error) {
	var app *apperrors.AppError
	if errors.As(err, &app) {
		status := statusFor(app.Code)
		if status == http.StatusInternalServerError {
			_ = c.Error(err)
			c.JSON(status, gin.H{"error": "Internal server error"})
			return
		}
		c.JSON(status, gin.H{"error": app.Message})
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// RequestLogger logs one line per request, plus any internal errors the
// handlers attached to the context.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
		}
		for _, e := range c.Errors {
			fields = append(fields, zap.Error(e.Err))
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Error("request failed", fields...)
		} else {
			logger.Info("request", fields...)
		}
	}
}
