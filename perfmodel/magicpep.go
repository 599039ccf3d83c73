package perfmodel

import (
	"io"
)

// MagicPepModel is the co-processor (pep) model. It costs only a closed
// subset of instruction types (RECV, SYNC, SPAWN) at their static cost;
// every other type contributes exactly one cycle. Memory operands still
// add their latency. Grounded line-for-line on
// magic_pep_performance_model.cc's handleInstruction.
type MagicPepModel struct{}

// NewMagicPepModel constructs the Magic-Pep concrete performance model.
func NewMagicPepModel() *MagicPepModel {
	return &MagicPepModel{}
}

// isModeled mirrors MagicPepPerformanceModel::isModeled: only RECV,
// SYNC, and SPAWN instructions use their own static cost.
func (m *MagicPepModel) isModeled(t InstructionType) bool {
	switch t {
	case InstructionRecv, InstructionSync, InstructionSpawn:
		return true
	default:
		return false
	}
}

func (m *MagicPepModel) HandleInstruction(cpm *CorePerfModel, ins *Instruction) CostOutcome {
	memLatency, outcome := consumeMemoryOperands(cpm, ins)
	if outcome == CostStalled {
		return CostStalled
	}

	var cost uint64
	if m.isModeled(ins.Type) {
		cost = ins.StaticCost
	} else {
		cost = 1
	}
	cost += memLatency

	cpm.AddCycles(cost)
	return CostCompleted
}

func (m *MagicPepModel) OutputSummary(cpm *CorePerfModel, w io.Writer) {
	WriteCommonSummary(cpm, w)
}
