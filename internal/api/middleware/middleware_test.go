package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func serve(router *gin.Engine, method, path, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if remote != "" {
		req.RemoteAddr = remote
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCORS(t *testing.T) {
	router := setupTestRouter()
	router.Use(CORS(DefaultCORSConfig()))
	router.GET("/cache", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	tests := []struct {
		name           string
		method         string
		origin         string
		wantStatus     int
		wantCORSHeader bool
	}{
		{"simple GET with origin", "GET", "http://localhost:3000", http.StatusOK, true},
		{"preflight OPTIONS", "OPTIONS", "http://localhost:3000", http.StatusNoContent, true},
		{"no origin header", "GET", "", http.StatusOK, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/cache", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.method == "OPTIONS" {
				req.Header.Set("Access-Control-Request-Method", "GET")
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCORSHeader {
				assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestRateLimitPerClient(t *testing.T) {
	router := setupTestRouter()
	router.Use(RateLimit(RateLimitConfig{RequestsPerSecond: 1, Burst: 2}))
	router.GET("/cache", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, serve(router, "GET", "/cache", "192.168.1.1:1234").Code, "request %d", i+1)
	}

	w := serve(router, "GET", "/cache", "192.168.1.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"rate limit exceeded"}`, w.Body.String())

	// Other clients have their own bucket
	assert.Equal(t, http.StatusOK, serve(router, "GET", "/cache", "192.168.1.2:1234").Code)
}

func TestRateLimitPerProcess(t *testing.T) {
	router := setupTestRouter()
	router.Use(RateLimit(RateLimitConfig{RequestsPerSecond: 1, Burst: 1, Key: ProcessKey}))
	router.PUT("/processes/:pid/stats", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	remote := "10.0.0.1:5000"
	assert.Equal(t, http.StatusNoContent, serve(router, "PUT", "/processes/7/stats", remote).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(router, "PUT", "/processes/7/stats", remote).Code)

	// Same caller, different renderer
	assert.Equal(t, http.StatusNoContent, serve(router, "PUT", "/processes/8/stats", remote).Code)
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)

	router := setupTestRouter()
	router.Use(RequestLogger(zap.New(core)))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/fail", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	serve(router, "GET", "/ok", "")
	serve(router, "GET", "/fail", "")

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "Request handled", entries[0].Message)
		assert.Equal(t, zap.DebugLevel, entries[0].Level)
		assert.Equal(t, "Request failed", entries[1].Message)
		assert.Equal(t, zap.WarnLevel, entries[1].Level)
		assert.Equal(t, int64(500), entries[1].ContextMap()["status"])
	}
}
