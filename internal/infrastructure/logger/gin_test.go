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

func init() {
	gin.SetMode(gin.TestMode)
}

// correlate mimics the RequestID middleware so the access log has an ID
func correlate(requestID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(
			ContextWithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}

func serveWithAccessLog(t *testing.T, level zapcore.Level, handler gin.HandlerFunc, mw ...gin.HandlerFunc) (*observer.ObservedLogs, *httptest.ResponseRecorder) {
	t.Helper()
	core, recorded := observer.New(level)

	router := gin.New()
	router.Use(mw...)
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/api/v1/bins", handler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bins?zone=A", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return recorded, rec
}

func TestGinMiddleware(t *testing.T) {
	t.Run("logs a handled request with correlation fields", func(t *testing.T) {
		recorded, _ := serveWithAccessLog(t, zapcore.InfoLevel, func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true})
		}, correlate("req-9"))

		require.Equal(t, 1, recorded.Len())
		entry := recorded.All()[0]
		assert.Equal(t, zapcore.InfoLevel, entry.Level)
		assert.Equal(t, "request handled", entry.Message)

		fields := entry.ContextMap()
		assert.Equal(t, "req-9", fields["request_id"])
		assert.Equal(t, "GET", fields["method"])
		assert.Equal(t, "/api/v1/bins", fields["path"])
		assert.Equal(t, int64(http.StatusOK), fields["status"])
		assert.Equal(t, "zone=A", fields["query"])
	})

	t.Run("attributes the operator after authentication", func(t *testing.T) {
		withOperator := func(c *gin.Context) {
			c.Request = c.Request.WithContext(
				ContextWithOperatorID(c.Request.Context(), "op-31"))
			c.Next()
		}

		recorded, _ := serveWithAccessLog(t, zapcore.InfoLevel, func(c *gin.Context) {
			c.Status(http.StatusOK)
		}, withOperator)

		require.Equal(t, 1, recorded.Len())
		assert.Equal(t, "op-31", recorded.All()[0].ContextMap()["operator_id"])
	})

	t.Run("client errors log at warn", func(t *testing.T) {
		recorded, _ := serveWithAccessLog(t, zapcore.InfoLevel, func(c *gin.Context) {
			c.JSON(http.StatusConflict, gin.H{"success": false})
		})

		require.Equal(t, 1, recorded.Len())
		assert.Equal(t, zapcore.WarnLevel, recorded.All()[0].Level)
	})

	t.Run("server errors log at error", func(t *testing.T) {
		recorded, _ := serveWithAccessLog(t, zapcore.InfoLevel, func(c *gin.Context) {
			c.Status(http.StatusInternalServerError)
		})

		require.Equal(t, 1, recorded.Len())
		assert.Equal(t, zapcore.ErrorLevel, recorded.All()[0].Level)
	})
}

func TestRecovery(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)

	router := gin.New()
	router.Use(correlate("req-14"))
	router.Use(Recovery(zap.New(core)))
	router.GET("/api/v1/bins", func(c *gin.Context) {
		panic("bin index out of range")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bins", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, 1, recorded.Len())
	entry := recorded.All()[0]
	assert.Equal(t, "panic recovered", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "req-14", fields["request_id"])
	assert.Equal(t, "bin index out of range", fields["error"])
}
