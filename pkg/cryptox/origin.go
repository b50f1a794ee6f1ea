package cryptox

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"strings"
)

// HashOrigin returns a short opaque identifier for a client address.
// The port is dropped so reconnects from the same host hash identically.
func HashOrigin(addr string) string {
	addr = strings.TrimSpace(addr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	if addr == "" {
		return ""
	}

	sum := sha256.Sum256([]byte(addr))
	return hex.EncodeToString(sum[:8])
}
