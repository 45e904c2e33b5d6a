package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"arka.dev/learnhub/pkg/apperror"
)

// GetUserID retrieves the authenticated account ID from the context.
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	userIDStr, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, apperror.Unauthorized("authentication required")
	}

	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		return uuid.Nil, apperror.Unauthorized("authentication required")
	}

	return userID, nil
}

// OK writes the standard success envelope.
func OK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, gin.H{
		"success":    true,
		"statusCode": status,
		"message":    message,
		"data":       data,
	})
}

// Paginated writes the success envelope with page metadata alongside the data.
func Paginated(c *gin.Context, message string, data any, meta any) {
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"statusCode": http.StatusOK,
		"message":    message,
		"data":       data,
		"meta":       meta,
	})
}

// Error writes the standard error response for err's kind.
func Error(c *gin.Context, log *zap.Logger, err error) {
	code := apperror.MapErrorToStatus(err)

	if code >= http.StatusInternalServerError && log != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Err != nil {
			log.Error("internal error", zap.String("path", c.FullPath()), zap.Error(appErr.Err))
		} else {
			log.Error("internal error", zap.String("path", c.FullPath()), zap.Error(err))
		}
	}

	c.JSON(code, gin.H{
		"success":    false,
		"statusCode": code,
		"message":    err.Error(),
	})
}
