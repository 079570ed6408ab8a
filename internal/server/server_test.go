package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/tabled-dev/tabled/internal/auth"
	"github.com/tabled-dev/tabled/internal/config"
	"github.com/tabled-dev/tabled/internal/providers"
	"github.com/tabled-dev/tabled/internal/server/endpoints"
)

// newTestServer builds a server backed by a mock LLM client.
func newTestServer(t *testing.T, mock *providers.MockClient) *Server {
	t.Helper()

	mgr, err := config.NewManager("")
	if err != nil {
		t.Fatalf("config.NewManager() error = %v", err)
	}

	srv, err := New(Config{
		ConfigManager: mgr,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// Replace whatever the config built with the mock.
	srv.registry.Reload(context.Background(), providers.RegistryConfig{})
	srv.registry.Register("mock", mock)
	return srv
}

func TestServer_ProcessRoundTrip(t *testing.T) {
	mock := providers.NewMockClient()
	mock.Responses = []string{
		"data_transformation",
		`{"TRANSFORMED_DATA": [{"name": "ivan", "region": "eastern europe"}], "EXPLANATION": "Categorized by name."}`,
	}
	srv := newTestServer(t, mock)

	body := `{"instruction": "categorize by likely region", "table": [{"name": "ivan"}]}`
	req := httptest.NewRequest("POST", "/api/v1/process", strings.NewReader(body))
	req.Header.Set(auth.HeaderAPIKey, "test-key")
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp endpoints.ProcessResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Message != "Categorized by name." {
		t.Fatalf("Message = %q", resp.Message)
	}
	if len(resp.Table) != 1 {
		t.Fatalf("got %d rows, want 1", len(resp.Table))
	}

	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("X-Request-ID header missing")
	}
}

func TestServer_ProcessRequiresAPIKey(t *testing.T) {
	srv := newTestServer(t, providers.NewMockClient())

	req := httptest.NewRequest("POST", "/api/v1/process", strings.NewReader(`{"instruction":"x","table":[]}`))
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestServer_ProcessRateLimited(t *testing.T) {
	mock := providers.NewMockClient()
	mock.ResponseText = `{"TRANSFORMED_DATA": []}`
	srv := newTestServer(t, mock)
	srv.limiter = auth.NewKeyLimiter(1)

	send := func() int {
		req := httptest.NewRequest("POST", "/api/v1/process", strings.NewReader(`{"instruction":"x","table":[]}`))
		req.Header.Set(auth.HeaderAPIKey, "budget-key")
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		return w.Code
	}

	if code := send(); code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", code)
	}
	if code := send(); code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", code)
	}
}

func TestServer_HealthNeedsNoAuth(t *testing.T) {
	srv := newTestServer(t, providers.NewMockClient())

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestServer_RootBanner(t *testing.T) {
	srv := newTestServer(t, providers.NewMockClient())

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp endpoints.RootResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Message != "tabled API" {
		t.Fatalf("Message = %q", resp.Message)
	}
}

func TestServer_RequiresConfigManager(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("New() without a config manager expected error")
	}
}

func TestServer_AddrFromConfigFile(t *testing.T) {
	// The manager state is process-wide; reset it so later tests see a
	// clean slate.
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "config.yaml")
	cfgYAML := "server:\n  host: 0.0.0.0\n  port: \"9911\"\n"
	if err := os.WriteFile(path, []byte(cfgYAML), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	mgr, err := config.NewManager(path)
	if err != nil {
		t.Fatalf("config.NewManager() error = %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv, err := New(Config{ConfigManager: mgr, Logger: logger})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if srv.Addr() != "0.0.0.0:9911" {
		t.Fatalf("Addr() = %q, want config file address", srv.Addr())
	}

	// An explicit Host/Port still wins over the config file.
	srv, err = New(Config{ConfigManager: mgr, Logger: logger, Port: "7777"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if srv.Addr() != "0.0.0.0:7777" {
		t.Fatalf("Addr() = %q, want explicit port to win", srv.Addr())
	}
}
