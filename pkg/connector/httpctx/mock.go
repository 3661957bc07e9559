package httpctx

import "time"

// SetCookieCall records one SetCookie invocation on a MockProvider.
type SetCookieCall struct {
	Name      string
	Value     string
	Domain    string
	ExpiresAt time.Time
	HttpOnly  bool
	Secure    bool
}

// MockProvider is an in-memory Provider for tests. Cookies written via
// SetCookie become immediately readable through GetCookie unless expired.
type MockProvider struct {
	Cookies        map[string]string
	RequestHeaders map[string]string
	Agent          string
	ClientIP       string
	URL            string
	SetCookieCalls []SetCookieCall
}

// NewMockProvider returns an empty mock provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Cookies:        make(map[string]string),
		RequestHeaders: make(map[string]string),
	}
}

func (p *MockProvider) GetCookie(name string) string {
	return p.Cookies[name]
}

func (p *MockProvider) SetCookie(name, value, domain string, expiresAt time.Time, httpOnly, secure bool) {
	p.SetCookieCalls = append(p.SetCookieCalls, SetCookieCall{
		Name:      name,
		Value:     value,
		Domain:    domain,
		ExpiresAt: expiresAt,
		HttpOnly:  httpOnly,
		Secure:    secure,
	})
	if expiresAt.Before(time.Now()) {
		delete(p.Cookies, name)
		return
	}
	p.Cookies[name] = value
}

func (p *MockProvider) Header(name string) string {
	return p.RequestHeaders[name]
}

func (p *MockProvider) UserAgent() string {
	return p.Agent
}

func (p *MockProvider) ClientAddress() string {
	return p.ClientIP
}

func (p *MockProvider) RequestURL() string {
	return p.URL
}
