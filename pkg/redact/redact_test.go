package redact

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeRemovesRegisteredSecrets(t *testing.T) {
	r := New()
	r.Register("sekret-key-123")
	r.Register("sekret-value-456")

	tests := []struct {
		name  string
		input string
	}{
		{"single occurrence", "request failed: sekret-key-123 rejected"},
		{"multiple occurrences", "sekret-key-123 then again sekret-key-123"},
		{"adjacent occurrences", "sekret-key-123sekret-key-123"},
		{"both secrets", "key sekret-key-123 secret sekret-value-456"},
		{"embedded", "prefix-sekret-value-456-suffix"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := r.Sanitize(tt.input)
			assert.NotContains(t, out, "sekret-key-123")
			assert.NotContains(t, out, "sekret-value-456")
			assert.Contains(t, out, Token)
		})
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	r := New()
	r.Register("hunter2")

	inputs := []string{
		"failed with hunter2",
		"x-api-key: hunter2 rejected",
		"Authorization: Bearer hunter2",
		"no secrets here",
		"",
	}
	for _, input := range inputs {
		once := r.Sanitize(input)
		twice := r.Sanitize(once)
		assert.Equal(t, once, twice, "sanitize must be idempotent for %q", input)
	}
}

func TestSanitizeHeaderPatterns(t *testing.T) {
	r := New()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"api key header",
			"X-Api-Key: abc123 was rejected",
			"X-Api-Key: " + Token + " was rejected",
		},
		{
			"api secret header lowercase",
			"x-api-secret: topsecret",
			"x-api-secret: " + Token,
		},
		{
			"authorization bearer",
			"Authorization: Bearer eyJhbGci.token",
			"Authorization: " + Token,
		},
		{
			"authorization basic",
			"authorization: Basic dXNlcjpwYXNz",
			"authorization: " + Token,
		},
		{
			"equals separator",
			"x-api-key=abc123",
			"x-api-key=" + Token,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Sanitize(tt.input))
		})
	}
}

func TestRegisterEmptyIsNoOp(t *testing.T) {
	r := New()
	r.Register("")

	// An empty secret must not cause Token to be inserted everywhere.
	in := "plain message"
	assert.Equal(t, in, r.Sanitize(in))
}

func TestSanitizeSecretWithRegexMetacharacters(t *testing.T) {
	r := New()
	secret := `p@$$w(or)d.*+?[]`
	r.Register(secret)

	out := r.Sanitize("the value " + secret + " leaked")
	require.NotContains(t, out, secret)
	assert.Equal(t, "the value "+Token+" leaked", out)
}

func TestSanitizeRegistrationOrder(t *testing.T) {
	r := New()
	r.Register("abcdef")
	r.Register("abc")

	// Longer secret registered first wins on the overlap; the shorter
	// one still masks its own occurrences.
	out := r.Sanitize("abcdef and abc")
	assert.False(t, strings.Contains(out, "abc"), "no registered secret may survive, got %q", out)
}
