package httpctx

import (
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
)

// GinProvider adapts a gin.Context to the Provider interface.
type GinProvider struct {
	ctx *gin.Context
}

// NewGinProvider wraps the given request context. The provider is only valid
// for the lifetime of the request.
func NewGinProvider(c *gin.Context) *GinProvider {
	return &GinProvider{ctx: c}
}

func (p *GinProvider) GetCookie(name string) string {
	value, err := p.ctx.Cookie(name)
	if err != nil {
		return ""
	}
	return value
}

func (p *GinProvider) SetCookie(name, value, domain string, expiresAt time.Time, httpOnly, secure bool) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge == 0 {
		maxAge = -1
	}
	p.ctx.SetCookie(name, value, maxAge, "/", domain, secure, httpOnly)
}

func (p *GinProvider) Header(name string) string {
	return p.ctx.GetHeader(name)
}

func (p *GinProvider) UserAgent() string {
	return p.ctx.Request.UserAgent()
}

func (p *GinProvider) ClientAddress() string {
	return p.ctx.ClientIP()
}

func (p *GinProvider) RequestURL() string {
	scheme := "http"
	if p.ctx.Request.TLS != nil {
		scheme = "https"
	}
	if proto := p.ctx.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	u := url.URL{
		Scheme:   scheme,
		Host:     p.ctx.Request.Host,
		Path:     p.ctx.Request.URL.Path,
		RawQuery: p.ctx.Request.URL.RawQuery,
	}
	return u.String()
}
