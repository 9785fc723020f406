package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestRequestID はRequestIDミドルウェアを検証する。
func TestRequestID(t *testing.T) {
	t.Parallel()

	newRouter := func(got *string) *gin.Engine {
		router := gin.New()
		router.Use(RequestID())
		router.GET("/test", func(c *gin.Context) {
			*got = GetRequestID(c)
			c.Status(http.StatusOK)
		})
		return router
	}

	t.Run("ヘッダーが無い場合はUUIDが生成されること", func(t *testing.T) {
		t.Parallel()

		var got string
		w := httptest.NewRecorder()
		newRouter(&got).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		if _, err := uuid.Parse(got); err != nil {
			t.Errorf("リクエストIDがUUIDではない: %q", got)
		}
		if w.Header().Get(HeaderRequestID) != got {
			t.Errorf("%s = %q, want %q", HeaderRequestID, w.Header().Get(HeaderRequestID), got)
		}
	})

	t.Run("クライアントのリクエストIDを引き継ぐこと", func(t *testing.T) {
		t.Parallel()

		var got string
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(HeaderRequestID, "client-id-1")
		w := httptest.NewRecorder()
		newRouter(&got).ServeHTTP(w, req)

		if got != "client-id-1" {
			t.Errorf("リクエストID = %q, want %q", got, "client-id-1")
		}
	})
}

// TestCacheControl はCacheControlミドルウェアを検証する。
func TestCacheControl(t *testing.T) {
	t.Parallel()

	router := gin.New()
	router.Use(CacheControl(DefaultCacheControl))
	router.GET("/missing", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "not found"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	if got := w.Header().Get("Cache-Control"); got != "s-maxage=300, stale-while-revalidate=600" {
		t.Errorf("Cache-Control = %q", got)
	}
}

// TestLogger はLoggerミドルウェアのログレベルとフィールドを検証する。
func TestLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		wantLevel zapcore.Level
	}{
		{name: "2xxはinfo", status: http.StatusOK, wantLevel: zapcore.InfoLevel},
		{name: "4xxはwarn", status: http.StatusNotFound, wantLevel: zapcore.WarnLevel},
		{name: "5xxはerror", status: http.StatusBadGateway, wantLevel: zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			core, logs := observer.New(zapcore.DebugLevel)
			router := gin.New()
			router.Use(RequestID(), Logger(zap.New(core)))
			router.GET("/test", func(c *gin.Context) {
				c.Status(tt.status)
			})

			req := httptest.NewRequest(http.MethodGet, "/test?name=x", nil)
			req.Header.Set(HeaderRequestID, "rid")
			router.ServeHTTP(httptest.NewRecorder(), req)

			if logs.Len() != 1 {
				t.Fatalf("ログ件数 = %d, want 1", logs.Len())
			}
			entry := logs.All()[0]
			if entry.Level != tt.wantLevel {
				t.Errorf("Level = %v, want %v", entry.Level, tt.wantLevel)
			}
			fields := entry.ContextMap()
			if fields["request_id"] != "rid" {
				t.Errorf("request_id = %v, want %q", fields["request_id"], "rid")
			}
			if fields["query"] != "name=x" {
				t.Errorf("query = %v, want %q", fields["query"], "name=x")
			}
			if fields["status"] != int64(tt.status) {
				t.Errorf("status = %v, want %d", fields["status"], tt.status)
			}
		})
	}
}
