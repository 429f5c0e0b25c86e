package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	ua "github.com/mssola/user_agent"
	"github.com/sirupsen/logrus"
)

// RequestLogger writes one structured line per request.
func RequestLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": time.Since(start).Milliseconds(),
			"has_auth":   c.GetHeader("Authorization") != "",
		}
		if raw := c.Request.UserAgent(); raw != "" {
			agent := ua.New(raw)
			browser, version := agent.Browser()
			fields["browser"] = browser
			fields["browser_version"] = version
			fields["os"] = agent.OS()
			fields["mobile"] = agent.Mobile()
			fields["bot"] = agent.Bot()
		}
		if id, ok := GetIdentity(c); ok {
			fields["user_id"] = id.UserID
			fields["role"] = id.Role
		}

		entry := logger.WithFields(fields)
		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("request failed")
			return
		}

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("request completed with server error")
		case status >= 400:
			entry.Warn("request completed with client error")
		default:
			entry.Info("request completed")
		}
	}
}
