package cmd

import "github.com/sarchlab/tilesim/perfmodel"

// scenario drives a synthetic instruction stream through a tile's
// CorePerfModel, demonstrating the cost model end to end without a real
// functional simulator attached — wiring up that functional side is
// explicitly out of scope (spec.md §1's Non-goals). Adapted from
// benchmarkselection's switch-on-name-or-panic shape: each named
// scenario here plays the role a benchmark name played there.
type scenario func(cpm *perfmodel.CorePerfModel)

// selectScenario resolves name to its driver function, panicking on an
// unrecognized name just as benchmarkselection.SelectBenchmark does.
func selectScenario(name string) scenario {
	switch name {
	case "single-block":
		return singleBlockScenario
	case "stall-resume":
		return stallResumeScenario
	case "branch":
		return branchScenario
	default:
		panic("unknown scenario: " + name)
	}
}

// singleBlockScenario queues one basic block of three generic
// instructions and drains it in a single Iterate call.
func singleBlockScenario(cpm *perfmodel.CorePerfModel) {
	cpm.Enable()

	block := perfmodel.NewBasicBlock([]*perfmodel.Instruction{
		perfmodel.NewInstruction(perfmodel.InstructionGeneric, nil, 2),
		perfmodel.NewInstruction(perfmodel.InstructionGeneric, nil, 2),
		perfmodel.NewInstruction(perfmodel.InstructionGeneric, nil, 2),
	})
	cpm.QueueBasicBlock(block)
	cpm.QueueBasicBlock(perfmodel.NewBasicBlock(nil))

	cpm.Iterate()
}

// stallResumeScenario queues a memory read between two generic
// instructions, calls Iterate before the read's dynamic fact has
// arrived (observing a stall), then supplies the fact and calls Iterate
// again to drain the rest of the block.
func stallResumeScenario(cpm *perfmodel.CorePerfModel) {
	cpm.Enable()

	block := perfmodel.NewBasicBlock([]*perfmodel.Instruction{
		perfmodel.NewInstruction(perfmodel.InstructionGeneric, nil, 1),
		perfmodel.NewInstruction(perfmodel.InstructionMemory,
			[]perfmodel.Operand{{Direction: perfmodel.OperandRead, Location: perfmodel.OperandMemory}}, 0),
		perfmodel.NewInstruction(perfmodel.InstructionGeneric, nil, 1),
	})
	cpm.QueueBasicBlock(block)
	cpm.QueueBasicBlock(perfmodel.NewBasicBlock(nil))

	cpm.Iterate()
	cpm.PushDynamicInfo(perfmodel.NewMemoryReadInfo(0, 5))
	cpm.Iterate()
}

// branchScenario queues a single taken branch, exercising the branch
// predictor path.
func branchScenario(cpm *perfmodel.CorePerfModel) {
	cpm.Enable()

	block := perfmodel.NewBasicBlock([]*perfmodel.Instruction{
		perfmodel.NewInstruction(perfmodel.InstructionBranch, nil, 1),
	})
	cpm.QueueBasicBlock(block)
	cpm.QueueBasicBlock(perfmodel.NewBasicBlock(nil))

	cpm.PushDynamicInfo(perfmodel.NewBranchInfo(true, 0x1000, 0))
	cpm.Iterate()
}
