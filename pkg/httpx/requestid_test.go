package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Gunvolt24/ad_renderer/pkg/httpx"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// serveWithID - прогоняет запрос через middleware и возвращает id из заголовка и из gin-контекста.
func serveWithID(t *testing.T, incoming string) (header, fromCtx string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(httpx.RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		fromCtx = httpx.RequestID(c)
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	if incoming != "" {
		req.Header.Set(httpx.RequestIDHeader, incoming)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Header().Get(httpx.RequestIDHeader), fromCtx
}

func TestRequestIDMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"missing", "", false},
		{"platform_id", "call-42:abc/7_x.y", true},
		{"max_length", strings.Repeat("a", 128), true},
		{"too_long", strings.Repeat("a", 129), false},
		{"newline_injection", "id\nlevel=error", false},
		{"spaces", "two words", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header, fromCtx := serveWithID(t, tt.incoming)

			if header == "" || header != fromCtx {
				t.Fatalf("id в заголовке и контексте должен совпадать: header=%q ctx=%q", header, fromCtx)
			}
			if tt.keep {
				if header != tt.incoming {
					t.Fatalf("пригодный X-Request-ID должен сохраняться: got=%q want=%q", header, tt.incoming)
				}
				return
			}
			if _, err := uuid.Parse(header); err != nil {
				t.Fatalf("вместо непригодного id должен быть UUID, got=%q err=%v", header, err)
			}
		})
	}
}

func TestRequestID_WithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var got string
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		got = httpx.RequestID(c)
		c.Status(http.StatusNoContent)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	if got != "" {
		t.Fatalf("без middleware id пустой, got %q", got)
	}
}
