package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEnv() map[string]string {
	return map[string]string{
		EnvURL:       "https://komodo.example.com",
		EnvAPIKey:    "K-test-key",
		EnvAPISecret: "S-test-secret",
	}
}

func TestParseMissingRequiredListsAllNames(t *testing.T) {
	_, err := Parse(map[string]string{})
	require.Error(t, err)

	// Every missing variable must appear in the one message.
	assert.Contains(t, err.Error(), EnvURL)
	assert.Contains(t, err.Error(), EnvAPIKey)
	assert.Contains(t, err.Error(), EnvAPISecret)
}

func TestParseMissingSingleVariable(t *testing.T) {
	env := validEnv()
	delete(env, EnvAPISecret)

	_, err := Parse(env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvAPISecret)
	assert.NotContains(t, err.Error(), "K-test-key")
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(validEnv())
	require.NoError(t, err)

	assert.Equal(t, AccessFull, cfg.Access)
	assert.Nil(t, cfg.Categories)
	assert.False(t, cfg.Debug)
	assert.Equal(t, TransportStdio, cfg.Transport)
	assert.Equal(t, defaultHTTPPort, cfg.HTTPPort)
	assert.Equal(t, defaultHTTPAddr, cfg.HTTPAddr)
}

func TestParseAccessLevel(t *testing.T) {
	tests := []struct {
		raw  string
		want AccessLevel
	}{
		{"read-only", AccessReadOnly},
		{"READ-ONLY", AccessReadOnly},
		{" read-execute ", AccessReadExecute},
		{"full", AccessFull},
		{"", AccessFull},
		// Unknown values intentionally fall back to the most
		// permissive level rather than failing startup.
		{"readonly", AccessFull},
		{"admin", AccessFull},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAccessLevel(tt.raw))
		})
	}
}

func TestParseCategories(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"absent", "", nil},
		{"whitespace only", "   ", nil},
		{"single", "servers", []string{"servers"}},
		{"multiple with spaces", " servers , stacks ", []string{"servers", "stacks"}},
		{"empty segments dropped", "servers,,stacks,", []string{"servers", "stacks"}},
		// Only separators means the operator named no categories;
		// that must not become an empty allowlist that disables
		// every tool.
		{"only separators", ",,,", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseCategories(tt.raw))
		})
	}
}

func TestCategoryAllowed(t *testing.T) {
	unrestricted := &Config{}
	assert.True(t, unrestricted.CategoryAllowed("servers"))
	assert.True(t, unrestricted.CategoryAllowed("anything"))

	restricted := &Config{Categories: []string{"servers", "stacks"}}
	assert.True(t, restricted.CategoryAllowed("servers"))
	assert.True(t, restricted.CategoryAllowed("stacks"))
	assert.False(t, restricted.CategoryAllowed("builds"))
	assert.False(t, restricted.CategoryAllowed(""))
}

func TestParseTransport(t *testing.T) {
	env := validEnv()
	env[EnvTransport] = "http"
	cfg, err := Parse(env)
	require.NoError(t, err)
	assert.Equal(t, TransportHTTP, cfg.Transport)

	env[EnvTransport] = "websocket"
	_, err = Parse(env)
	assert.Error(t, err)
}

func TestParseHTTPSettings(t *testing.T) {
	env := validEnv()
	env[EnvHTTPPort] = "9000"
	env[EnvHTTPAddr] = "0.0.0.0"
	cfg, err := Parse(env)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.HTTPPort)
	assert.Equal(t, "0.0.0.0", cfg.HTTPAddr)

	env[EnvHTTPPort] = "not-a-port"
	_, err = Parse(env)
	assert.Error(t, err)
}

func TestParseDebug(t *testing.T) {
	for raw, want := range map[string]bool{
		"true": true, "1": true, "YES": true, "on": true,
		"false": false, "0": false, "": false, "maybe": false,
	} {
		env := validEnv()
		env[EnvDebug] = raw
		cfg, err := Parse(env)
		require.NoError(t, err)
		assert.Equal(t, want, cfg.Debug, "raw=%q", raw)
	}
}
