// Package baseurl resolves the absolute origin used in links handed to MCP clients.
package baseurl

import (
	"net/http"
	"strings"
)

// Resolve returns override without a trailing slash when set. Otherwise it is
// derived from the request: https when served over TLS or when a proxy sets
// X-Forwarded-Proto, plus the Host header.
func Resolve(r *http.Request, override string) string {
	if override = strings.TrimRight(strings.TrimSpace(override), "/"); override != "" {
		return override
	}
	if r == nil {
		return ""
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		// Multiple proxies append; the first hop is the client-facing one.
		if i := strings.IndexByte(proto, ','); i >= 0 {
			proto = proto[:i]
		}
		scheme = strings.ToLower(strings.TrimSpace(proto))
	}
	return scheme + "://" + r.Host
}
