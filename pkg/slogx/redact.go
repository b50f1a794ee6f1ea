package slogx

import (
	"log/slog"
	"strings"
)

// RedactedValue replaces the value of any masked attribute.
const RedactedValue = "[REDACTED]"

var secretKeys = map[string]struct{}{
	"authorization":     {},
	"auth_token":        {},
	"api_key":           {},
	"smtp_pass":         {},
	"page_access_token": {},
	"config":            {},
	"credentials":       {},
	"resume_token":      {},
	"master_key":        {},
	"password":          {},
}

// Redact is a slog ReplaceAttr hook that masks attributes whose key names a
// secret, at any group depth.
func Redact(_ []string, a slog.Attr) slog.Attr {
	if IsSecretKey(a.Key) {
		return slog.String(a.Key, RedactedValue)
	}
	return a
}

// IsSecretKey reports whether values logged under key must be masked.
func IsSecretKey(key string) bool {
	_, ok := secretKeys[strings.ToLower(key)]
	return ok
}
