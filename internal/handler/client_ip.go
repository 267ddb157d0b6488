package handler

import (
	"net/http"
	"strings"
)

// ClientIP resolves the viewer's address for share-code redemption: first
// X-Forwarded-For entry, then X-Real-IP, else "unknown". Same-IP re-access
// tolerance keys off this exact string, so the precedence must stay stable.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	return "unknown"
}
