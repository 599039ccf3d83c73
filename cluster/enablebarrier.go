package cluster

import "github.com/sarchlab/tilesim/control"

// modelsBarrierID is the single cluster-wide barrier id the collective
// enable/disable/reset operations share, the Go analogue of the
// original's process-global `models_barrier`.
const modelsBarrierID int32 = -1

// InitModels initializes the collective barrier sized to the cluster's
// application core count, grounded line-for-line on
// perf_counter_support.cc's CarbonInitModels: only process 0 performs
// the init, since the barrier is a single cluster-wide object.
func InitModels(ctx *Context, self Process) {
	if self.ID != 0 {
		return
	}
	control.SendBarrierInit(self.Network, ctx.MCPCore, self.Cores[0],
		modelsBarrierID, int32(ctx.Config.ApplicationCores()))
}

// EnableModels performs the double-barrier collective of
// CarbonEnableModels: every application core waits at the barrier, the
// process's core index 0 enables every tile's model in this process,
// then every core waits at the barrier again so no one observes a
// partially-enabled cluster.
func EnableModels(ctx *Context, self Process, coreIndexInProcess int) {
	collective(ctx, self, coreIndexInProcess, func() {
		for _, core := range self.Cores {
			if tile := ctx.Tiles[core]; tile != nil && tile.Model != nil {
				tile.Model.Enable()
			}
		}
	})
}

// DisableModels performs the double-barrier collective of
// CarbonDisableModels.
func DisableModels(ctx *Context, self Process, coreIndexInProcess int) {
	collective(ctx, self, coreIndexInProcess, func() {
		for _, core := range self.Cores {
			if tile := ctx.Tiles[core]; tile != nil && tile.Model != nil {
				tile.Model.Disable()
			}
		}
	})
}

// ResetModels performs the double-barrier collective of
// CarbonResetModels.
func ResetModels(ctx *Context, self Process, coreIndexInProcess int) {
	collective(ctx, self, coreIndexInProcess, func() {
		for _, core := range self.Cores {
			if tile := ctx.Tiles[core]; tile != nil && tile.Model != nil {
				tile.Model.Reset()
			}
		}
	})
}

// collective is the shared double-barrier shape every Carbon*Models
// function follows: wait, let core index 0 of the process act, wait
// again.
func collective(ctx *Context, self Process, coreIndexInProcess int, act func()) {
	requester := self.Cores[coreIndexInProcess]

	control.SendBarrierWait(self.Network, ctx.MCPCore, requester, modelsBarrierID)

	if coreIndexInProcess == 0 {
		act()
	}

	control.SendBarrierWait(self.Network, ctx.MCPCore, requester, modelsBarrierID)
}
