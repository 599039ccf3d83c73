package perfmodel

import "github.com/sarchlab/tilesim/fatal"

// consumeMemoryOperands walks the memory operands of ins in order,
// popping exactly one matching DynamicInstructionInfo per operand and
// summing their latencies (spec.md §4.2's queue-balance invariant). It
// peeks before popping so a missing fact produces CostStalled instead of
// a panic, letting Iterate retry the same instruction later.
func consumeMemoryOperands(cpm *CorePerfModel, ins *Instruction) (latency uint64, outcome CostOutcome) {
	for _, op := range ins.MemoryOperands() {
		info, ok := cpm.GetDynamicInfo()
		if !ok {
			return latency, CostStalled
		}

		switch op.Direction {
		case OperandRead:
			if info.Kind != DynamicInfoMemoryRead {
				fatal.Fail("expected memory read info, got kind %d", info.Kind)
			}
		case OperandWrite:
			if info.Kind != DynamicInfoMemoryWrite {
				fatal.Fail("expected memory write info, got kind %d", info.Kind)
			}
		}

		cpm.PopDynamicInfo()
		latency += info.Latency
	}
	return latency, CostCompleted
}

// consumeBranch pops the single branch fact a branch-type instruction
// expects, runs it through the predictor, and returns any misprediction
// penalty to add to the instruction's cost.
func consumeBranch(cpm *CorePerfModel, ins *Instruction) (penalty uint64, outcome CostOutcome) {
	if !ins.HasBranchOperand() {
		return 0, CostCompleted
	}

	info, ok := cpm.GetDynamicInfo()
	if !ok {
		return 0, CostStalled
	}
	if info.Kind != DynamicInfoBranch {
		fatal.Fail("expected branch info, got kind %d", info.Kind)
	}
	cpm.PopDynamicInfo()

	bp := cpm.BranchPredictor()
	bp.Predict(0, info.Target)
	correct := bp.Update(0, info.Taken, info.Target)
	if !correct {
		penalty = info.MispredictPenalty
	}
	return penalty, CostCompleted
}
