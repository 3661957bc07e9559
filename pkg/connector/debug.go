package connector

import (
	"runtime"
	"strings"
	"time"

	"github.com/AtRiskMedia/queuegate-go/pkg/connector/httpctx"
)

// debugTrace accumulates diagnostic entries in insertion order and flushes
// them as one pipe-joined queueitdebug cookie. The cookie is deliberately
// neither HttpOnly nor Secure so diagnostic tooling in the page can read it.
type debugTrace struct {
	keys   []string
	values map[string]string
}

func newDebugTrace() *debugTrace {
	return &debugTrace{values: make(map[string]string)}
}

func (t *debugTrace) set(key, value string) {
	if _, exists := t.values[key]; !exists {
		t.keys = append(t.keys, key)
	}
	t.values[key] = value
}

// addRequestDetails records server time, client address and the standard
// forwarding headers.
func (t *debugTrace) addRequestDetails(provider httpctx.Provider) {
	t.set("ServerUtcTime", time.Now().UTC().Format(time.RFC3339Nano))
	t.set("RequestIP", provider.ClientAddress())
	t.set("RequestHttpHeader_Via", provider.Header("Via"))
	t.set("RequestHttpHeader_Forwarded", provider.Header("Forwarded"))
	t.set("RequestHttpHeader_XForwardedFor", provider.Header("X-Forwarded-For"))
	t.set("RequestHttpHeader_XForwardedHost", provider.Header("X-Forwarded-Host"))
	t.set("RequestHttpHeader_XForwardedProto", provider.Header("X-Forwarded-Proto"))
}

// flush writes the trace cookie. Empty traces write nothing, so requests
// without diagnostics enabled never grow a cookie.
func (t *debugTrace) flush(provider httpctx.Provider) {
	if len(t.keys) == 0 {
		return
	}

	pairs := make([]string, 0, len(t.keys))
	for _, key := range t.keys {
		pairs = append(pairs, key+"="+t.values[key])
	}

	provider.SetCookie(QueueITDebugKey, strings.Join(pairs, "|"), "",
		time.Now().UTC().Add(20*time.Minute), false, false)
}

// goRuntime tags trace entries with the hosting runtime version.
func goRuntime() string {
	return runtime.Version()
}
