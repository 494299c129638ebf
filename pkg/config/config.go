// Package config loads and validates server configuration from the
// environment. Parsing is a pure function over an environment snapshot
// so tests never have to mutate the real process environment.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Environment variable names recognized by Load.
const (
	EnvURL        = "KOMODO_URL"
	EnvAPIKey     = "KOMODO_API_KEY"
	EnvAPISecret  = "KOMODO_API_SECRET"
	EnvAccess     = "KOMODO_MCP_ACCESS"
	EnvCategories = "KOMODO_MCP_CATEGORIES"
	EnvDebug      = "KOMODO_MCP_DEBUG"
	EnvTransport  = "KOMODO_MCP_TRANSPORT"
	EnvHTTPPort   = "KOMODO_MCP_HTTP_PORT"
	EnvHTTPAddr   = "KOMODO_MCP_HTTP_ADDR"
)

// Supported transports.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

const (
	defaultHTTPPort = 8222
	defaultHTTPAddr = "127.0.0.1"
)

// AccessLevel is the ordinal capability level gating which tools are
// registered. Higher levels expose a strict superset of the tools of
// lower levels.
type AccessLevel int

const (
	AccessReadOnly AccessLevel = iota
	AccessReadExecute
	AccessFull
)

func (l AccessLevel) String() string {
	switch l {
	case AccessReadOnly:
		return "read-only"
	case AccessReadExecute:
		return "read-execute"
	default:
		return "full"
	}
}

// ParseAccessLevel maps an access level name to its level. Unknown or
// empty values fall back to full: operators who want a restricted
// server must spell the level exactly.
func ParseAccessLevel(s string) AccessLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "read-only":
		return AccessReadOnly
	case "read-execute":
		return AccessReadExecute
	default:
		return AccessFull
	}
}

// Config holds all server settings. It is loaded once at startup and
// never mutated afterwards.
type Config struct {
	URL       string
	APIKey    string
	APISecret string

	Access AccessLevel

	// Categories restricts tool registration to the listed categories.
	// nil means unrestricted. Parse never produces an empty non-nil
	// slice, which would silently disable every tool.
	Categories []string

	Debug     bool
	Transport string
	HTTPAddr  string
	HTTPPort  int
}

// CategoryAllowed reports whether tools of the given category may be
// registered under this configuration.
func (c *Config) CategoryAllowed(category string) bool {
	if c.Categories == nil {
		return true
	}
	for _, cat := range c.Categories {
		if cat == category {
			return true
		}
	}
	return false
}

// Load reads configuration from the process environment. If envFile is
// non-empty the file is loaded into the environment first; a missing
// file is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to load env file %s", envFile)
		}
	}
	return Parse(Snapshot())
}

// Snapshot copies the process environment into a map.
func Snapshot() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if key, value, ok := strings.Cut(kv, "="); ok {
			env[key] = value
		}
	}
	return env
}

// Parse builds a Config from an environment snapshot. All missing
// required variables are reported in a single error, by name only.
func Parse(env map[string]string) (*Config, error) {
	var missing []string
	for _, name := range []string{EnvURL, EnvAPIKey, EnvAPISecret} {
		if strings.TrimSpace(env[name]) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, errors.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	cfg := &Config{
		URL:        strings.TrimSpace(env[EnvURL]),
		APIKey:     strings.TrimSpace(env[EnvAPIKey]),
		APISecret:  strings.TrimSpace(env[EnvAPISecret]),
		Access:     ParseAccessLevel(env[EnvAccess]),
		Categories: parseCategories(env[EnvCategories]),
		Debug:      parseBool(env[EnvDebug]),
		Transport:  TransportStdio,
		HTTPAddr:   defaultHTTPAddr,
		HTTPPort:   defaultHTTPPort,
	}

	if v := strings.ToLower(strings.TrimSpace(env[EnvTransport])); v != "" {
		switch v {
		case TransportStdio, TransportHTTP:
			cfg.Transport = v
		default:
			return nil, errors.Errorf("unsupported transport %q: must be %s or %s", v, TransportStdio, TransportHTTP)
		}
	}
	if v := strings.TrimSpace(env[EnvHTTPPort]); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port < 1 || port > 65535 {
			return nil, errors.Errorf("invalid %s value %q", EnvHTTPPort, v)
		}
		cfg.HTTPPort = port
	}
	if v := strings.TrimSpace(env[EnvHTTPAddr]); v != "" {
		cfg.HTTPAddr = v
	}

	return cfg, nil
}

// parseCategories splits a comma-separated allowlist, trimming
// whitespace and dropping empty segments. Absent or effectively empty
// input yields nil, meaning no restriction.
func parseCategories(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var categories []string
	for _, segment := range strings.Split(raw, ",") {
		if segment = strings.TrimSpace(segment); segment != "" {
			categories = append(categories, segment)
		}
	}
	return categories
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
