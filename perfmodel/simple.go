package perfmodel

import (
	"io"
)

// SimpleModel costs an instruction at its static cost plus the latency of
// any memory operands it carries, per spec.md §4.2.
type SimpleModel struct{}

// NewSimpleModel constructs the Simple concrete performance model.
func NewSimpleModel() *SimpleModel {
	return &SimpleModel{}
}

func (m *SimpleModel) HandleInstruction(cpm *CorePerfModel, ins *Instruction) CostOutcome {
	memLatency, outcome := consumeMemoryOperands(cpm, ins)
	if outcome == CostStalled {
		return CostStalled
	}

	branchPenalty, outcome := consumeBranch(cpm, ins)
	if outcome == CostStalled {
		return CostStalled
	}

	cpm.AddCycles(ins.StaticCost + memLatency + branchPenalty)
	return CostCompleted
}

func (m *SimpleModel) OutputSummary(cpm *CorePerfModel, w io.Writer) {
	WriteCommonSummary(cpm, w)
}
