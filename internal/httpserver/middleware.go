package httpserver

import (
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/internal/metrics"
	"storefront/internal/store"
)

const (
	sessionHeader = "X-Session-ID"
	sessionCookie = "storefront_session"
	sessionKey    = "storefront.session"
	storeKey      = "storefront.store"

	sessionMaxAge = 365 * 24 * 60 * 60
)

var validSession = regexp.MustCompile(`^[A-Za-z0-9_-]{8,128}$`)

// sessionMiddleware resolves the session scope from the header, then the
// cookie. A missing or malformed id is replaced by a new one, which is
// returned both as a cookie and in the response header.
func sessionMiddleware(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(sessionHeader)
		if !validSession.MatchString(id) {
			id, _ = c.Cookie(sessionCookie)
		}
		if !validSession.MatchString(id) {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, id, sessionMaxAge, "/", "", secure, true)
		}
		c.Header(sessionHeader, id)
		c.Set(sessionKey, id)
		c.Next()
	}
}

func sessionFrom(c *gin.Context) string {
	return c.GetString(sessionKey)
}

// leaseStore holds the session's store for the rest of the request.
func leaseStore(sessions Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := sessionFrom(c)
		c.Set(storeKey, sessions.Acquire(c.Request.Context(), scope))
		defer sessions.Release(scope)
		c.Next()
	}
}

func storeFrom(c *gin.Context) *store.Store {
	return c.MustGet(storeKey).(*store.Store)
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if session := sessionFrom(c); session != "" {
			fields = append(fields, zap.String("session", session))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			logger.Error("request", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}

func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err any) {
		logger.Error("panic recovered",
			zap.Any("panic", err),
			zap.String("path", c.Request.URL.Path),
		)
		respondError(c, http.StatusInternalServerError, "internal_error", "an internal error occurred")
	})
}
