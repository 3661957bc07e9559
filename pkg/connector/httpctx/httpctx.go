// Package httpctx abstracts the hosting web framework's request/response
// objects behind a small provider interface. The connector core performs all
// cookie and header access through this interface and never touches raw
// sockets; adapters exist for Gin and plain net/http.
package httpctx

import "time"

// Provider exposes the per-request HTTP capabilities the connector needs.
// Implementations are request-scoped; a Provider must never be shared across
// requests.
type Provider interface {
	// GetCookie returns the named cookie's value, or "" if absent.
	GetCookie(name string) string
	// SetCookie writes a cookie on the response. A zero domain means
	// host-only; expiresAt in the past signals deletion to the browser.
	SetCookie(name, value, domain string, expiresAt time.Time, httpOnly, secure bool)
	// Header returns the named request header, or "" if absent.
	Header(name string) string
	// UserAgent returns the request's User-Agent header.
	UserAgent() string
	// ClientAddress returns the remote client IP.
	ClientAddress() string
	// RequestURL returns the full URL of the current request.
	RequestURL() string
}
