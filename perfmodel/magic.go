package perfmodel

import (
	"io"
)

// MagicModel costs nothing for ordinary instructions but still drains
// the dynamic-info queue for memory operands, so the queue stays
// balanced even though the "magic" core never actually stalls the
// simulated program on memory latency, per spec.md §4.2.
type MagicModel struct{}

// NewMagicModel constructs the Magic concrete performance model.
func NewMagicModel() *MagicModel {
	return &MagicModel{}
}

func (m *MagicModel) HandleInstruction(cpm *CorePerfModel, ins *Instruction) CostOutcome {
	_, outcome := consumeMemoryOperands(cpm, ins)
	if outcome == CostStalled {
		return CostStalled
	}

	_, outcome = consumeBranch(cpm, ins)
	if outcome == CostStalled {
		return CostStalled
	}

	return CostCompleted
}

func (m *MagicModel) OutputSummary(cpm *CorePerfModel, w io.Writer) {
	WriteCommonSummary(cpm, w)
}
