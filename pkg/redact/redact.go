// Package redact keeps credentials out of anything the server emits.
//
// A Redactor is constructed once by the composition root and handed to
// every component that can produce user-visible error text. Secrets are
// registered during startup, before the Komodo client can issue its
// first request; after that the redactor is read-only, so Sanitize
// needs no locking.
package redact

import (
	"regexp"
	"strings"
)

// Token is the placeholder substituted for every detected secret.
const Token = "[REDACTED]"

// headerPatterns catch credential-bearing headers that can show up in
// transport-level errors even when the raw secret string does not.
// The header name is preserved; only the value is replaced.
var headerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(x-api-key\s*[:=]\s*)[^\s,;]+`),
	regexp.MustCompile(`(?i)(x-api-secret\s*[:=]\s*)[^\s,;]+`),
	regexp.MustCompile(`(?i)(authorization\s*[:=]\s*)(?:bearer\s+|basic\s+)?[^\s,;]+`),
}

// Redactor is an append-only set of secret substrings to strip from
// outbound text.
type Redactor struct {
	secrets []string
}

// New returns an empty Redactor.
func New() *Redactor {
	return &Redactor{}
}

// Register adds a secret to the redaction set. Empty strings are
// ignored. Duplicates are not deduplicated; a repeated secret just
// causes a redundant replacement pass.
func (r *Redactor) Register(secret string) {
	if secret == "" {
		return
	}
	r.secrets = append(r.secrets, secret)
}

// Sanitize replaces every occurrence of every registered secret, in
// registration order, with Token, then masks conventional auth header
// values. Secret matching is exact substring matching, never regex, so
// secrets containing metacharacters are handled correctly.
func (r *Redactor) Sanitize(message string) string {
	for _, secret := range r.secrets {
		message = strings.ReplaceAll(message, secret, Token)
	}
	for _, pattern := range headerPatterns {
		message = pattern.ReplaceAllString(message, "${1}"+Token)
	}
	return message
}
