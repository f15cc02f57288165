package ratelimit

import (
	"net/http"
	"strings"
)

// UnknownClient is the shared key for requests with no forwarded address.
// All unidentified clients share one bucket.
const UnknownClient = "unknown"

// ClientKey derives the limiter key for a request from forwarded-IP
// headers: the first X-Forwarded-For entry, then X-Real-IP, then the
// shared unknown bucket.
func ClientKey(r *http.Request) string {
	if r == nil {
		return UnknownClient
	}
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	return UnknownClient
}
