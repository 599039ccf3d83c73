package perfmodel

import (
	"io"
)

// IOCOOMModel is the in-order, commit-out-of-order-memory model: it
// keeps a register-file scoreboard (a register written by instruction N
// is not ready again until N's cost has elapsed) plus separate busy-until
// counters for the load and store units, and costs each instruction as
// the maximum of the structural-hazard wait (register not ready yet) and
// the memory-latency wait (unit still busy, or the latency a consumed
// dynamic-info fact reports), per spec.md §4.2.
type IOCOOMModel struct {
	registerReady  map[int]uint64
	loadBusyUntil  uint64
	storeBusyUntil uint64
}

// NewIOCOOMModel constructs the IOCOOM concrete performance model.
func NewIOCOOMModel() *IOCOOMModel {
	return &IOCOOMModel{registerReady: make(map[int]uint64)}
}

func (m *IOCOOMModel) HandleInstruction(cpm *CorePerfModel, ins *Instruction) CostOutcome {
	now := cpm.CycleCount()

	var structuralWait uint64
	for _, op := range ins.Operands {
		if op.Location != OperandRegister || op.Direction != OperandRead {
			continue
		}
		if ready := m.registerReady[op.RegisterID]; ready > now {
			if w := ready - now; w > structuralWait {
				structuralWait = w
			}
		}
	}

	var memoryWait uint64
	for _, op := range ins.MemoryOperands() {
		info, ok := cpm.GetDynamicInfo()
		if !ok {
			return CostStalled
		}

		busyUntil := &m.loadBusyUntil
		if op.Direction == OperandWrite {
			busyUntil = &m.storeBusyUntil
		}

		unitWait := uint64(0)
		if *busyUntil > now {
			unitWait = *busyUntil - now
		}

		cpm.PopDynamicInfo()

		wait := unitWait + info.Latency
		*busyUntil = now + wait
		if wait > memoryWait {
			memoryWait = wait
		}
	}

	branchPenalty, outcome := consumeBranch(cpm, ins)
	if outcome == CostStalled {
		return CostStalled
	}

	cost := ins.StaticCost
	if structuralWait > cost {
		cost = structuralWait
	}
	if memoryWait > cost {
		cost = memoryWait
	}
	cost += branchPenalty

	for _, op := range ins.Operands {
		if op.Location == OperandRegister && op.Direction == OperandWrite {
			m.registerReady[op.RegisterID] = now + cost
		}
	}

	cpm.AddCycles(cost)
	return CostCompleted
}

func (m *IOCOOMModel) OutputSummary(cpm *CorePerfModel, w io.Writer) {
	WriteCommonSummary(cpm, w)
}
