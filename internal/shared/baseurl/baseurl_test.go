package baseurl

import (
	"crypto/tls"
	"net/http/httptest"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		tls      bool
		proto    string
		override string
		want     string
	}{
		{name: "plain http", host: "docs.local:8080", want: "http://docs.local:8080"},
		{name: "tls", host: "docs.local", tls: true, want: "https://docs.local"},
		{name: "forwarded proto", host: "docs.example", proto: "https", want: "https://docs.example"},
		{name: "forwarded chain", host: "docs.example", proto: "HTTPS, http", want: "https://docs.example"},
		{name: "override wins", host: "internal:8080", override: "https://public.example/", want: "https://public.example"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/mcp/manifest/", nil)
			req.Host = tt.host
			if tt.tls {
				req.TLS = &tls.ConnectionState{}
			} else {
				req.TLS = nil
			}
			if tt.proto != "" {
				req.Header.Set("X-Forwarded-Proto", tt.proto)
			}
			if got := Resolve(req, tt.override); got != tt.want {
				t.Fatalf("Resolve = %q, want %q", got, tt.want)
			}
		})
	}
}
