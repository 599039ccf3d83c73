package cluster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestContextRunAndFinish exercises scenario 6 of spec.md §8 at the
// assembled-cluster level: once every LCP and the MCP are running,
// Finish must return once both have observed their QUIT.
func TestContextRunAndFinish(t *testing.T) {
	ctx := buildTestContext(t)

	ctx.Run()

	done := make(chan struct{})
	go func() {
		ctx.Finish()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Context.Finish did not return")
	}

	require.True(t, ctx.MCP.Finished())
	for _, p := range ctx.Procs {
		require.True(t, p.LCP.Finished())
	}
}
