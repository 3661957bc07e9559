package connector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/queuegate-go/pkg/connector/httpctx"
)

func TestDebugTracePreservesInsertionOrder(t *testing.T) {
	trace := newDebugTrace()
	trace.set("zebra", "1")
	trace.set("alpha", "2")
	trace.set("mango", "3")
	trace.set("zebra", "updated") // overwrite keeps original position

	provider := httpctx.NewMockProvider()
	trace.flush(provider)

	require.Len(t, provider.SetCookieCalls, 1)
	call := provider.SetCookieCalls[0]
	assert.Equal(t, QueueITDebugKey, call.Name)
	assert.Equal(t, "zebra=updated|alpha=2|mango=3", call.Value)
}

func TestDebugTraceEmptyFlushWritesNothing(t *testing.T) {
	provider := httpctx.NewMockProvider()
	newDebugTrace().flush(provider)
	assert.Empty(t, provider.SetCookieCalls)
}
