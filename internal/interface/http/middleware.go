package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/learnloop/learnloop-hub/internal/interface/http/handlers"
	"github.com/learnloop/learnloop-hub/pkg/logger"
)

// TokenVerifier checks a bearer token and returns the user ID it belongs to.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// requestLogger logs one line per request after it completes.
func requestLogger(log *logger.Logger) gin.HandlerFunc {
	log = log.With("component", "http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Error("request failed", fields...)
		} else {
			log.Info("request", fields...)
		}
	}
}

// requireAuth rejects requests without a valid bearer token and stores the
// authenticated user ID in the gin context for the handlers.
func requireAuth(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearer(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "unauthorized", "message": "missing or invalid token"},
			})
			return
		}
		userID, err := tokens.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "unauthorized", "message": "missing or invalid token"},
			})
			return
		}
		c.Set(handlers.ContextUserID, userID)
		c.Next()
	}
}

func extractBearer(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return header[7:]
	}
	return ""
}
