package httpctx

import (
	"net"
	"net/http"
	"net/url"
	"time"
)

// HTTPProvider adapts a plain net/http request/response pair to the Provider
// interface, for integrations that do not use Gin.
type HTTPProvider struct {
	w http.ResponseWriter
	r *http.Request
}

// NewHTTPProvider wraps the given response writer and request.
func NewHTTPProvider(w http.ResponseWriter, r *http.Request) *HTTPProvider {
	return &HTTPProvider{w: w, r: r}
}

func (p *HTTPProvider) GetCookie(name string) string {
	cookie, err := p.r.Cookie(name)
	if err != nil {
		return ""
	}
	value, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return cookie.Value
	}
	return value
}

func (p *HTTPProvider) SetCookie(name, value, domain string, expiresAt time.Time, httpOnly, secure bool) {
	http.SetCookie(p.w, &http.Cookie{
		Name:     name,
		Value:    url.QueryEscape(value),
		Path:     "/",
		Domain:   domain,
		Expires:  expiresAt,
		HttpOnly: httpOnly,
		Secure:   secure,
	})
}

func (p *HTTPProvider) Header(name string) string {
	return p.r.Header.Get(name)
}

func (p *HTTPProvider) UserAgent() string {
	return p.r.UserAgent()
}

func (p *HTTPProvider) ClientAddress() string {
	host, _, err := net.SplitHostPort(p.r.RemoteAddr)
	if err != nil {
		return p.r.RemoteAddr
	}
	return host
}

func (p *HTTPProvider) RequestURL() string {
	scheme := "http"
	if p.r.TLS != nil {
		scheme = "https"
	}
	if proto := p.r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	u := url.URL{
		Scheme:   scheme,
		Host:     p.r.Host,
		Path:     p.r.URL.Path,
		RawQuery: p.r.URL.RawQuery,
	}
	return u.String()
}
