package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"cyber-doctor/internal/metrics"
	pkgLog "cyber-doctor/pkg/log"
)

func newEngine(mw Middleware) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw.RequestID(), mw.Metrics(), mw.RateLimit())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, pkgLog.RequestID(c.Request.Context()))
	})
	return r
}

func get(r *gin.Engine, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if header != "" {
		req.Header.Set(HeaderRequestID, header)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	r := newEngine(New(pkgLog.NewNop(), 0))

	w := get(r, "req-1")
	assert.Equal(t, "req-1", w.Body.String())
	assert.Equal(t, "req-1", w.Header().Get(HeaderRequestID))

	w = get(r, "")
	assert.Len(t, w.Body.String(), 36)
	assert.Equal(t, w.Body.String(), w.Header().Get(HeaderRequestID))
}

func TestMetrics(t *testing.T) {
	r := newEngine(New(pkgLog.NewNop(), 0))
	before := testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("/ping", "200"))
	missBefore := testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues(routeUnmatched, "404"))

	get(r, "")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("/ping", "200")))
	assert.Equal(t, missBefore+1, testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues(routeUnmatched, "404")))
}

func TestRateLimit(t *testing.T) {
	// 60/min gives a burst of 6.
	r := newEngine(New(pkgLog.NewNop(), 60))

	for i := 0; i < 6; i++ {
		assert.Equal(t, http.StatusOK, get(r, "").Code, "request %d", i)
	}
	assert.Equal(t, http.StatusTooManyRequests, get(r, "").Code)
}

func TestRateLimit_Disabled(t *testing.T) {
	r := newEngine(New(pkgLog.NewNop(), 0))
	for i := 0; i < 50; i++ {
		assert.Equal(t, http.StatusOK, get(r, "").Code)
	}
}

func TestRateLimiter_PerClient(t *testing.T) {
	rl := newRateLimiter(10)
	assert.True(t, rl.allow("a"))
	assert.False(t, rl.allow("a"))
	assert.True(t, rl.allow("b"))
}
