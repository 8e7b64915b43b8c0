package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/craftlink/craftlink-backend/internal/logger"
	"github.com/craftlink/craftlink-backend/internal/pkg/apperror"
)

// ErrorHandler turns errors attached to the gin context into JSON responses.
// Domain errors carry their own status and code; everything else is masked
// as an internal error so storage details never leak to clients.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"error":  err.Error(),
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}).Error("request error")
		}

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			c.JSON(appErr.HTTPStatus, gin.H{
				"error": appErr.Message,
				"code":  appErr.Code,
			})
			return
		}

		status := http.StatusInternalServerError
		message := "internal server error"
		if !containsInternalKeywords(err.Error()) {
			status = http.StatusBadRequest
			message = err.Error()
		}
		c.JSON(status, gin.H{"error": message})
	}
}

// containsInternalKeywords reports whether an error message looks like an
// infrastructure failure that must not reach clients verbatim.
func containsInternalKeywords(s string) bool {
	keywords := []string{
		"sql:",
		"database",
		"connection",
		"timeout",
		"internal",
		"panic",
		"runtime",
	}

	lowered := strings.ToLower(s)
	for _, keyword := range keywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}
