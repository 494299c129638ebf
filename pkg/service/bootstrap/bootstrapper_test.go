package bootstrap

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komodo-tools/komodo-mcp/pkg/config"
)

func testConfig(url string) *config.Config {
	return &config.Config{
		URL:       url,
		APIKey:    "key",
		APISecret: "secret",
		Access:    config.AccessFull,
		Transport: config.TransportStdio,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRegisterComponents(t *testing.T) {
	b := New(testLogger(), testConfig("http://localhost:9120"), "test")
	s := b.CreateMCPServer()
	require.NotNil(t, s)
	require.NoError(t, b.RegisterComponents(s))
}

func TestRegisterComponentsNoToolsIsError(t *testing.T) {
	cfg := testConfig("http://localhost:9120")
	cfg.Categories = []string{"nonexistent"}
	b := New(testLogger(), cfg, "test")

	err := b.RegisterComponents(b.CreateMCPServer())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no tools registered")
}

func TestCheckConnectivity(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"version": "1.18.4"})
	}))
	defer api.Close()

	b := New(testLogger(), testConfig(api.URL), "test")
	require.NoError(t, b.CheckConnectivity(context.Background()))
}

func TestCheckConnectivitySanitizesFailure(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "bad secret: secret"})
	}))
	defer api.Close()

	b := New(testLogger(), testConfig(api.URL), "test")
	err := b.CheckConnectivity(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), api.URL)
	assert.NotContains(t, err.Error(), "bad secret: secret")
}

func TestRunUnknownTransport(t *testing.T) {
	cfg := testConfig("http://localhost:9120")
	cfg.Transport = "carrier-pigeon"
	b := New(testLogger(), cfg, "test")

	err := b.Run(context.Background(), b.CreateMCPServer())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported transport")
}
