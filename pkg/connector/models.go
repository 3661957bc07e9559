package connector

import (
	"fmt"

	"github.com/AtRiskMedia/queuegate-go/pkg/connector/integration"
)

// DiagnosticsRedirectAction marks a result produced by the diagnostics
// verifier rather than a matched integration action.
const DiagnosticsRedirectAction integration.ActionType = "ConnectorDiagnosticsRedirect"

// QueueEventConfig carries the parameters of one queue event, supplied
// locally by the caller or built from a matched integration.
type QueueEventConfig struct {
	EventID              string
	LayoutName           string
	Culture              string
	QueueDomain          string
	ExtendCookieValidity bool
	CookieValidityMinute int
	CookieDomain         string
	IsCookieHTTPOnly     bool
	IsCookieSecure       bool
	Version              int
	ActionName           string
}

// NewQueueEventConfig returns a config with the version sentinel -1 and the
// default action name, matching the pre-config-download state.
func NewQueueEventConfig() *QueueEventConfig {
	return &QueueEventConfig{Version: -1, ActionName: "unspecified"}
}

// String serializes every field for the debug trace cookie.
func (c *QueueEventConfig) String() string {
	return fmt.Sprintf("EventId:%s&Version:%d&QueueDomain:%s&CookieDomain:%s&IsCookieHttpOnly:%t&IsCookieSecure:%t&ExtendCookieValidity:%t&CookieValidityMinute:%d&LayoutName:%s&Culture:%s&ActionName:%s",
		c.EventID, c.Version, c.QueueDomain, c.CookieDomain, c.IsCookieHTTPOnly, c.IsCookieSecure,
		c.ExtendCookieValidity, c.CookieValidityMinute, c.LayoutName, c.Culture, c.ActionName)
}

// CancelEventConfig carries the parameters of a cancel action.
type CancelEventConfig struct {
	EventID          string
	QueueDomain      string
	Version          int
	CookieDomain     string
	IsCookieHTTPOnly bool
	IsCookieSecure   bool
	ActionName       string
}

// NewCancelEventConfig returns a config with the version sentinel -1 and the
// default action name.
func NewCancelEventConfig() *CancelEventConfig {
	return &CancelEventConfig{Version: -1, ActionName: "unspecified"}
}

// String serializes every field for the debug trace cookie.
func (c *CancelEventConfig) String() string {
	return fmt.Sprintf("EventId:%s&Version:%d&QueueDomain:%s&CookieDomain:%s&IsCookieHttpOnly:%t&IsCookieSecure:%t&ActionName:%s",
		c.EventID, c.Version, c.QueueDomain, c.CookieDomain, c.IsCookieHTTPOnly, c.IsCookieSecure, c.ActionName)
}

// RequestValidationResult is the outcome of one validation. It is constructed
// once with all fields known, including the AJAX flag, and never mutated.
type RequestValidationResult struct {
	ActionType   integration.ActionType
	EventID      string
	QueueID      string
	RedirectURL  string
	RedirectType string
	ActionName   string
	IsAjaxResult bool
}

// DoRedirect reports whether the caller must redirect the visitor.
func (r RequestValidationResult) DoRedirect() bool {
	return r.RedirectURL != ""
}

// AjaxQueueRedirectHeaderKey is the response header an AJAX caller reads the
// redirect URL from instead of following an HTTP redirect.
func (r RequestValidationResult) AjaxQueueRedirectHeaderKey() string {
	return "x-queueit-redirect"
}

// AjaxRedirectURL is the component-encoded redirect URL for the AJAX header.
func (r RequestValidationResult) AjaxRedirectURL() string {
	if r.RedirectURL == "" {
		return ""
	}
	return urlEncode(r.RedirectURL)
}

// asAjax returns a copy with the AJAX flag bound.
func (r RequestValidationResult) asAjax(isAjax bool) RequestValidationResult {
	r.IsAjaxResult = isAjax
	return r
}
