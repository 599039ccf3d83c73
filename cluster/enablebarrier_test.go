package cluster

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestEnableModelsDoubleBarrier exercises the double-barrier collective
// CarbonEnableModels is grounded on: every application core must reach
// the second barrier before any of them sees the models enabled.
func TestEnableModelsDoubleBarrier(t *testing.T) {
	ctx := buildTestContext(t)
	ctx.Run()
	t.Cleanup(func() {
		done := make(chan struct{})
		go func() { ctx.Finish(); close(done) }()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("Context.Finish did not return")
		}
	})

	InitModels(ctx, *ctx.Procs[0])

	var wg sync.WaitGroup
	for _, p := range ctx.Procs {
		for idx := range p.Cores {
			p, idx := p, idx
			wg.Add(1)
			go func() {
				defer wg.Done()
				EnableModels(ctx, *p, idx)
			}()
		}
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("EnableModels collective did not complete")
	}

	for _, p := range ctx.Procs {
		for _, core := range p.Cores {
			require.True(t, ctx.Tiles[core].Model.Enabled())
		}
	}
}
