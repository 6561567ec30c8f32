package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedRouter(t *testing.T, pre ...gin.HandlerFunc) (*gin.Engine, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.DebugLevel)
	router := gin.New()
	router.Use(pre...)
	router.Use(GinMiddleware(zap.New(core)))
	return router, recorded
}

func httpLogEntry(t *testing.T, recorded *observer.ObservedLogs) observer.LoggedEntry {
	t.Helper()
	entries := recorded.FilterMessage("HTTP Request").All()
	require.Len(t, entries, 1)
	return entries[0]
}

func TestGinMiddleware_LevelByStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  zapcore.Level
	}{
		{"ok", http.StatusOK, zapcore.InfoLevel},
		{"client error", http.StatusConflict, zapcore.WarnLevel},
		{"server error", http.StatusInternalServerError, zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, recorded := newObservedRouter(t)
			router.GET("/api/v1/cart", func(c *gin.Context) { c.Status(tt.status) })

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cart?page=2", nil))

			entry := httpLogEntry(t, recorded)
			assert.Equal(t, tt.level, entry.Level)
			fields := entry.ContextMap()
			assert.Equal(t, "/api/v1/cart", fields["path"])
			assert.Equal(t, "page=2", fields["query"])
			assert.Contains(t, fields, "latency")
			assert.Contains(t, fields, "client_ip")
		})
	}
}

func TestGinMiddleware_RequestAndPrincipalFields(t *testing.T) {
	router, recorded := newObservedRouter(t, func(c *gin.Context) {
		c.Set("request_id", "req-cart-1")
		c.Next()
	})
	router.POST("/api/v1/orders", func(c *gin.Context) {
		// auth middleware runs inside the chain
		c.Set("user_id", "user-42")
		c.Set("vendor_id", "vendor-7")
		c.Status(http.StatusCreated)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil))

	fields := httpLogEntry(t, recorded).ContextMap()
	assert.Equal(t, "req-cart-1", fields["request_id"])
	assert.Equal(t, "user-42", fields["user_id"])
	assert.Equal(t, "vendor-7", fields["vendor_id"])
}

func TestGinMiddleware_PropagatesLoggerToRequestContext(t *testing.T) {
	router, recorded := newObservedRouter(t, func(c *gin.Context) {
		c.Set("request_id", "req-ctx")
		c.Next()
	})
	router.GET("/api/v1/orders/:id", func(c *gin.Context) {
		assert.Equal(t, "req-ctx", GetRequestID(c.Request.Context()))
		L(c.Request.Context()).Info("loading order")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/orders/abc", nil))

	entries := recorded.FilterMessage("loading order").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-ctx", entries[0].ContextMap()["request_id"])
	assert.Equal(t, "GET", entries[0].ContextMap()["method"])
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.ErrorLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) {
		panic("checkout exploded")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, 1, recorded.FilterMessage("Panic recovered").Len())
}

func TestGetGinLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("set by middleware", func(t *testing.T) {
		router, _ := newObservedRouter(t)
		var got *zap.Logger
		router.GET("/", func(c *gin.Context) {
			got = GetGinLogger(c)
			c.Status(http.StatusOK)
		})
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.NotNil(t, got)
	})

	t.Run("missing falls back to nop", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		assert.NotPanics(t, func() { GetGinLogger(c).Info("ignored") })
	})
}
