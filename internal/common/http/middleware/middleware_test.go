package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"fantasy/pkg/utils/contextkey"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestTraceContextMiddlewareGeneratesIDs(t *testing.T) {
	router := gin.New()
	router.Use(TraceContextMiddleware())
	var ctxTrace string
	router.GET("/ping", func(c *gin.Context) {
		ctxTrace = contextkey.TraceIDFrom(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	traceID := w.Header().Get(TraceIDHeader)
	if traceID == "" || w.Header().Get(RequestIDHeader) == "" {
		t.Fatalf("expected generated ids, headers = %v", w.Header())
	}
	if ctxTrace != traceID {
		t.Fatalf("context trace id %s, header %s", ctxTrace, traceID)
	}
}

func TestTraceContextMiddlewareReusesHeader(t *testing.T) {
	router := gin.New()
	router.Use(TraceContextMiddleware())
	router.GET("/ping", func(c *gin.Context) {
		if c.GetString(traceIDContextKey) != "abc" {
			t.Errorf("gin context trace id = %q", c.GetString(traceIDContextKey))
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(TraceIDHeader, "abc")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get(TraceIDHeader); got != "abc" {
		t.Fatalf("trace header = %q, want abc", got)
	}
}

func TestCORSPreflightWithCredentials(t *testing.T) {
	router := gin.New()
	router.Use(CORSMiddleware(DefaultCORSConfig()))
	router.GET("/api/countries", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/countries", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Headers", "content-type")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("allow origin = %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("allow credentials = %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Headers"); got != "content-type" {
		t.Fatalf("allow headers = %q", got)
	}
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowedOrigins = []string{"http://admin.local"}
	router := gin.New()
	router.Use(CORSMiddleware(cfg))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://evil.local")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestCORSDisabled(t *testing.T) {
	router := gin.New()
	router.Use(CORSMiddleware(CORSConfig{}))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://localhost")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatal("disabled CORS must not set headers")
	}
}
