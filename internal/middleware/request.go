package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cyber-doctor/internal/metrics"
	pkgLog "cyber-doctor/pkg/log"
)

const (
	HeaderRequestID = "X-Request-ID"
	routeUnmatched  = "unmatched"
)

// RequestID tags the request context with the incoming X-Request-ID or a
// fresh one, and echoes it back.
func (mw Middleware) RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Request = c.Request.WithContext(pkgLog.WithRequestID(c.Request.Context(), id))
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// Metrics counts requests by route and status and logs slow ones.
func (mw Middleware) Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = routeUnmatched
		}
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		mw.l.Debugf(c.Request.Context(), "middleware.Metrics: %s %s %d %s", c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
