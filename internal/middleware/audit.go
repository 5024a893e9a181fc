package middleware

import (
	"context"

	"carteira/internal/logutil"
	"carteira/internal/models"

	"github.com/gin-gonic/gin"
)

// AuditRecorder persists one audit row; path is stored encrypted.
type AuditRecorder interface {
	Record(ctx context.Context, entry models.AuditLog, path string) error
}

// Audit records every authenticated request after the handler ran.
// Bodies, headers and cookies are never recorded.
func Audit(recorder AuditRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		userID, ok := CurrentUserID(c)
		if !ok {
			return
		}

		ua := c.Request.UserAgent()
		if len(ua) > 255 {
			ua = ua[:255]
		}
		entry := models.AuditLog{
			UserID:    userID,
			Method:    c.Request.Method,
			Status:    c.Writer.Status(),
			IP:        c.ClientIP(),
			UserAgent: ua,
		}
		if err := recorder.Record(context.WithoutCancel(c.Request.Context()), entry, c.Request.URL.Path); err != nil {
			log := logutil.GetOrDefault(c.Request.Context())
			log.Warn().Err(err).Str("method", c.Request.Method).Msg("Unable to record audit entry")
		}
	}
}
