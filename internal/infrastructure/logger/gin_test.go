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

func serveLogged(t *testing.T, method, target string, register func(*gin.Engine)) (*httptest.ResponseRecorder, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.InfoLevel)
	router := gin.New()
	router.Use(GinMiddleware(zap.New(core)))
	register(router)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	router.ServeHTTP(w, req)
	return w, recorded
}

func requestLog(t *testing.T, recorded *observer.ObservedLogs) observer.LoggedEntry {
	t.Helper()
	for _, entry := range recorded.All() {
		if entry.Message == "http request" {
			return entry
		}
	}
	t.Fatal("no http request log entry")
	return observer.LoggedEntry{}
}

func TestGinMiddleware_LogLevels(t *testing.T) {
	cases := []struct {
		status int
		level  zapcore.Level
	}{
		{http.StatusOK, zapcore.InfoLevel},
		{http.StatusUnprocessableEntity, zapcore.WarnLevel},
		{http.StatusBadGateway, zapcore.ErrorLevel},
	}

	for _, tc := range cases {
		w, recorded := serveLogged(t, "GET", "/receipts", func(r *gin.Engine) {
			r.GET("/receipts", func(c *gin.Context) {
				c.JSON(tc.status, gin.H{})
			})
		})

		assert.Equal(t, tc.status, w.Code)
		assert.Equal(t, tc.level, requestLog(t, recorded).Level)
	}
}

func TestGinMiddleware_CarriesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.InfoLevel)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(requestIDHeader, "req-abc")
		c.Next()
	})
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/loans", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/loans", nil))

	entry := requestLog(t, recorded)
	var got string
	for _, field := range entry.Context {
		if field.Key == "request_id" {
			got = field.String
		}
	}
	assert.Equal(t, "req-abc", got)
}

func TestGinMiddleware_QueryAndFields(t *testing.T) {
	_, recorded := serveLogged(t, "GET", "/warehouses?latitude=19.9&longitude=73.7", func(r *gin.Engine) {
		r.GET("/warehouses", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{})
		})
	})

	entry := requestLog(t, recorded)
	fields := make(map[string]zap.Field)
	for _, f := range entry.Context {
		fields[f.Key] = f
	}

	assert.Contains(t, fields, "status")
	assert.Contains(t, fields, "latency")
	assert.Contains(t, fields, "client_ip")
	assert.Contains(t, fields, "method")
	assert.Contains(t, fields, "path")
	require.Contains(t, fields, "query")
	assert.Contains(t, fields["query"].String, "latitude=19.9")
}

func TestGinMiddleware_SkipsHealth(t *testing.T) {
	w, recorded := serveLogged(t, "GET", "/health", func(r *gin.Engine) {
		r.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, recorded.All())
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.ErrorLevel)
	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		router.ServeHTTP(w, httptest.NewRequest("GET", "/panic", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	logs := recorded.All()
	require.NotEmpty(t, logs)
	assert.Equal(t, "panic recovered", logs[0].Message)
}

func TestGetGinLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var fromHandler *zap.Logger
	core, _ := observer.New(zapcore.InfoLevel)
	router := gin.New()
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/x", func(c *gin.Context) {
		fromHandler = GetGinLogger(c)
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/x", nil))
	assert.NotNil(t, fromHandler)

	// without the middleware a no-op logger comes back
	bare := gin.New()
	bare.GET("/y", func(c *gin.Context) {
		fromHandler = GetGinLogger(c)
		c.Status(http.StatusOK)
	})
	bare.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/y", nil))
	assert.NotNil(t, fromHandler)
	assert.NotPanics(t, func() { fromHandler.Info("noop") })
}
