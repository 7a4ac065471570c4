package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(mw...)
	router.GET("/tools", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func do(router http.Handler, method, remote string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/tools", nil)
	if remote != "" {
		req.RemoteAddr = remote
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		origins    []string
		method     string
		origin     string
		wantStatus int
		wantAllow  string
	}{
		{name: "wildcard", origins: []string{"*"}, method: http.MethodGet, origin: "http://localhost:3000", wantStatus: http.StatusOK, wantAllow: "*"},
		{name: "empty list allows all", method: http.MethodGet, origin: "http://localhost:3000", wantStatus: http.StatusOK, wantAllow: "*"},
		{name: "preflight", origins: []string{"*"}, method: http.MethodOptions, origin: "http://localhost:3000", wantStatus: http.StatusNoContent, wantAllow: "*"},
		{name: "no origin header", origins: []string{"*"}, method: http.MethodGet, wantStatus: http.StatusOK},
		{name: "listed origin", origins: []string{"https://agent.example"}, method: http.MethodGet, origin: "https://agent.example", wantStatus: http.StatusOK, wantAllow: "https://agent.example"},
		{name: "unlisted origin", origins: []string{"https://agent.example"}, method: http.MethodGet, origin: "https://evil.example", wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := map[string]string{}
			if tt.origin != "" {
				header["Origin"] = tt.origin
			}
			if tt.method == http.MethodOptions {
				header["Access-Control-Request-Method"] = http.MethodPost
			}

			w := do(newRouter(CORS(tt.origins)), tt.method, "", header)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantAllow, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
		})
	}
}

func TestRateLimitPerClient(t *testing.T) {
	router := newRouter(RateLimit(RateLimitConfig{RequestsPerSecond: 1, Burst: 2}))

	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "10.0.0.1:1000", nil).Code)
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "10.0.0.1:1001", nil).Code)

	w := do(router, http.MethodGet, "10.0.0.1:1002", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"code":"RATE_LIMITED","message":"rate limit exceeded"}`, w.Body.String())

	// a second client has its own bucket
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "10.0.0.2:1000", nil).Code)
}

func TestVisitorsSweepIdle(t *testing.T) {
	v := &visitors{
		cfg:       RateLimitConfig{RequestsPerSecond: 1, Burst: 1, IdleTTL: time.Minute},
		byKey:     make(map[string]*visitor),
		lastSweep: time.Unix(0, 0),
	}
	start := time.Unix(1000, 0)

	v.get("10.0.0.1", start)
	v.get("10.0.0.2", start.Add(30*time.Second))
	assert.Equal(t, 2, v.size())

	// past the TTL for the first client only
	v.get("10.0.0.2", start.Add(90*time.Second))
	assert.Equal(t, 1, v.size())
}

func TestVisitorsNoTTLKeepsClients(t *testing.T) {
	v := &visitors{cfg: RateLimitConfig{RequestsPerSecond: 1, Burst: 1}, byKey: make(map[string]*visitor)}
	start := time.Unix(1000, 0)
	v.get("a", start)
	v.get("b", start.Add(24*time.Hour))
	assert.Equal(t, 2, v.size())
}

func TestDefaultRateLimitConfig(t *testing.T) {
	cfg := DefaultRateLimitConfig()
	assert.Equal(t, 100, cfg.RequestsPerSecond)
	assert.Equal(t, 200, cfg.Burst)
	assert.Equal(t, 10*time.Minute, cfg.IdleTTL)
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())

	var seen string
	router.GET("/tools", func(c *gin.Context) {
		seen = GetRequestID(c)
		c.Status(http.StatusOK)
	})

	w := do(router, http.MethodGet, "", nil)
	generated := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(generated)
	require.NoError(t, err)
	assert.Equal(t, generated, seen)

	w = do(router, http.MethodGet, "", map[string]string{RequestIDHeader: "client-chosen"})
	assert.Equal(t, "client-chosen", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "client-chosen", seen)
}

func TestDeadline(t *testing.T) {
	tests := []struct {
		name         string
		timeout      time.Duration
		wantDeadline bool
	}{
		{name: "bounded", timeout: 50 * time.Millisecond, wantDeadline: true},
		{name: "disabled", timeout: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			router := gin.New()
			router.Use(Deadline(tt.timeout))

			var ctx context.Context
			router.GET("/tools", func(c *gin.Context) {
				ctx = c.Request.Context()
				c.Status(http.StatusOK)
			})
			do(router, http.MethodGet, "", nil)

			deadline, has := ctx.Deadline()
			assert.Equal(t, tt.wantDeadline, has)
			if has {
				assert.LessOrEqual(t, time.Until(deadline), tt.timeout)
			}
		})
	}
}

func BenchmarkRateLimit(b *testing.B) {
	router := newRouter(RateLimit(DefaultRateLimitConfig()))
	req := httptest.NewRequest(http.MethodGet, "/tools", nil)
	req.RemoteAddr = "10.0.0.1:1000"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		router.ServeHTTP(httptest.NewRecorder(), req)
	}
}
