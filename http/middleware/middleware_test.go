package middlewares

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tnqbao/gau-bucket-list/config"
	"github.com/tnqbao/gau-bucket-list/infra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{name: "echoes caller id", incoming: "req-123", keep: true},
		{name: "generates when missing", incoming: ""},
		{name: "replaces oversized id", incoming: strings.Repeat("x", maxRequestIDLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			r := gin.New()
			r.Use(RequestIDMiddleware())
			r.GET("/", func(c *gin.Context) {
				seen = infra.RequestIDFromContext(c.Request.Context())
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			got := w.Header().Get(RequestIDHeader)
			if got != seen {
				t.Errorf("header %q does not match context %q", got, seen)
			}
			if tt.keep {
				if got != tt.incoming {
					t.Errorf("request id = %q, want %q", got, tt.incoming)
				}
				return
			}
			if _, err := uuid.Parse(got); err != nil {
				t.Errorf("generated request id %q is not a uuid", got)
			}
		})
	}
}

func TestCORSMiddleware_RestrictedOrigins(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &config.EnvConfig{}
	cfg.CORS.AllowDomains = "https://bucket.example.com"

	r := gin.New()
	r.Use(CORSMiddleware(cfg))
	r.GET("/api/items", func(c *gin.Context) { c.Status(http.StatusOK) })

	allowed := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	allowed.Header.Set("Origin", "https://bucket.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, allowed)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://bucket.example.com" {
		t.Errorf("allowed origin header = %q", got)
	}

	denied := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	denied.Header.Set("Origin", "https://evil.example.net")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, denied)
	if w.Code != http.StatusForbidden {
		t.Errorf("foreign origin status = %d, want 403", w.Code)
	}
}

func TestTraceMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	r := gin.New()
	r.Use(TraceMiddleware("bucket-list-test"))
	r.GET("/api/items/:id", func(c *gin.Context) {
		if c.Param("id") == "500" {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})

	for _, path := range []string{"/api/items/1", "/api/items/500"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("recorded %d spans, want 2", len(spans))
	}
	for _, span := range spans {
		if span.Name() != "GET /api/items/:id" {
			t.Errorf("span name = %q", span.Name())
		}
	}
	if spans[0].Status().Code == codes.Error {
		t.Error("successful request marked as error")
	}
	if spans[1].Status().Code != codes.Error {
		t.Error("500 response not marked as error")
	}

	var status int64
	for _, attr := range spans[1].Attributes() {
		if attr.Key == attribute.Key("http.response.status_code") {
			status = attr.Value.AsInt64()
		}
	}
	if status != http.StatusInternalServerError {
		t.Errorf("status attribute = %d, want 500", status)
	}
}
