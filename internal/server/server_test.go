package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	appconfig "dataproxy/internal/config"
	"dataproxy/internal/metrics"
	"dataproxy/internal/telemetry"
)

func TestNew_BindsConfiguredPort(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := appconfig.Default()
	cfg.ApplyEnv(func(string) (string, bool) { return "", false })
	if srv := New(cfg, nil); srv.Addr != ":3000" {
		t.Fatalf("expect :3000 by default, got %s", srv.Addr)
	}

	cfg.ApplyEnv(func(key string) (string, bool) {
		if key == "PORT" {
			return "8123", true
		}
		return "", false
	})
	if srv := New(cfg, nil); srv.Addr != ":8123" {
		t.Fatalf("expect :8123 from PORT, got %s", srv.Addr)
	}
}

func TestNew_EndToEnd(t *testing.T) {
	gin.SetMode(gin.TestMode)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer abc123" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(`{"x":1}`))
	}))
	defer upstream.Close()

	cfg := appconfig.Default()
	cfg.Upstream.URL = upstream.URL
	cfg.Upstream.APIKey = "abc123"
	srv := New(cfg, metrics.NewRecorder())

	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/data", nil))
	if w.Code != http.StatusOK || w.Body.String() != `{"x":1}` {
		t.Fatalf("expect 200 {\"x\":1}, got %d %q", w.Code, w.Body.String())
	}
}

func TestNew_MissingEndpointIs500(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv := New(appconfig.Default(), nil)
	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/data", nil))
	if w.Code != http.StatusInternalServerError || w.Body.String() != "Error" {
		t.Fatalf("expect 500 Error, got %d %q", w.Code, w.Body.String())
	}
}

func TestNewRouter_SingleRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := NewRouter(nil, nil)
	routes := r.Routes()
	if len(routes) != 1 {
		t.Fatalf("expect exactly one route, got %v", routes)
	}
	if routes[0].Method != http.MethodGet || routes[0].Path != "/api/data" {
		t.Fatalf("unexpected route %s %s", routes[0].Method, routes[0].Path)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("/metrics must not be on the proxy listener, got %d", w.Code)
	}
}

func TestNewMetricsServer(t *testing.T) {
	if NewMetricsServer("", metrics.NewRecorder()) != nil {
		t.Fatal("empty addr should disable the metrics listener")
	}

	srv := NewMetricsServer(":9100", metrics.NewRecorder())
	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expect 200 from /metrics, got %d", w.Code)
	}
}

func TestNew_PropagatesTraceContextUpstream(t *testing.T) {
	gin.SetMode(gin.TestMode)

	shutdown, err := telemetry.SetupOTelSDK(context.Background(), "")
	if err != nil {
		t.Fatalf("setup telemetry: %v", err)
	}
	defer shutdown(context.Background())

	const (
		traceID  = "4bf92f3577b34da6a3ce929d0e0e4736"
		parentID = "00f067aa0ba902b7"
	)

	gotTraceparent := make(chan string, 1)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTraceparent <- r.Header.Get("traceparent")
		_, _ = w.Write([]byte(`{"x":1}`))
	}))
	defer upstream.Close()

	cfg := appconfig.Default()
	cfg.Upstream.URL = upstream.URL
	srv := New(cfg, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/data", nil)
	req.Header.Set("traceparent", "00-"+traceID+"-"+parentID+"-01")
	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expect 200, got %d %q", w.Code, w.Body.String())
	}
	tp := <-gotTraceparent
	parts := strings.Split(tp, "-")
	if len(parts) != 4 || parts[1] != traceID {
		t.Fatalf("upstream traceparent should carry trace id %s, got %q", traceID, tp)
	}
}
