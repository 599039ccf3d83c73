package perfmodel

import (
	"io"
	"sync"

	"github.com/sarchlab/tilesim/fatal"
)

// DefaultDynamicInfoSoftCap is the desync tripwire of spec.md §3 and §9:
// a dynamic-info queue is never supposed to grow unbounded, so exceeding
// this many pending facts means the functional and performance sides
// have drifted apart. Kept configurable via
// CorePerfModel.SetDynamicInfoSoftCap, default-fatal per spec.md §9.
const DefaultDynamicInfoSoftCap = 5000

// CostOutcome is the three-valued result of costing a single
// instruction, replacing the original's two sentinel exceptions
// (AbortInstructionException, DynamicInstructionInfoNotAvailableException)
// per spec.md §9's explicit design note.
type CostOutcome int

const (
	// CostCompleted means the instruction's cost was fully applied;
	// iteration advances to the next instruction.
	CostCompleted CostOutcome = iota
	// CostAborted means the model elected to discard this instruction's
	// remaining cost; whatever cost it already contributed (e.g. via
	// AddCycles before discovering the abort condition) is retained,
	// and iteration still advances.
	CostAborted
	// CostStalled means the model peeked at the dynamic-info queue via
	// GetDynamicInfo and found it empty. Iterate returns immediately
	// without advancing past this instruction.
	CostStalled
)

// Model is the narrow capability set a concrete performance model
// (Simple, IOCOOM, Magic, MagicPep) implements. It is handed the owning
// CorePerfModel so it can pull dynamic-info facts and add cycles.
type Model interface {
	HandleInstruction(cpm *CorePerfModel, ins *Instruction) CostOutcome
	OutputSummary(cpm *CorePerfModel, w io.Writer)
}

// CorePerfModel is the per-tile performance model: lifecycle, cycle/
// frequency bookkeeping, the two producer/consumer queues, and the
// cooperative Iterate loop. It dispatches per-instruction costing to a
// concrete Model.
type CorePerfModel struct {
	model           Model
	branchPredictor BranchPredictor
	isMCPCore       bool

	cycleCount             uint64
	checkpointedCycleCount uint64
	frequency              float64
	averageFrequency       float64
	totalTime              float64

	enabled bool

	bbMu             sync.Mutex
	basicBlockQueue  []*BasicBlock
	currentInsIndex  int

	diMu              sync.Mutex
	dynamicInfoQueue  []DynamicInstructionInfo
	dynamicInfoSoftCap int

	instructionCount uint64
}

// NewCorePerfModel constructs a CorePerfModel for one tile/core. isMCPCore
// marks the distinguished MCP core, which per spec.md §4.1 can never be
// enabled.
func NewCorePerfModel(model Model, frequency float64, isMCPCore bool) *CorePerfModel {
	return &CorePerfModel{
		model:              model,
		branchPredictor:    NewNullBranchPredictor(),
		isMCPCore:          isMCPCore,
		frequency:          frequency,
		dynamicInfoSoftCap: DefaultDynamicInfoSoftCap,
	}
}

// SetDynamicInfoSoftCap overrides the desync tripwire (spec.md §9).
func (c *CorePerfModel) SetDynamicInfoSoftCap(n int) {
	c.dynamicInfoSoftCap = n
}

// SetBranchPredictor installs the branch predictor this model costs
// branches against. CorePerfModel always owns a non-nil predictor
// (defaulting to NullBranchPredictor), per spec.md §3.
func (c *CorePerfModel) SetBranchPredictor(bp BranchPredictor) {
	c.branchPredictor = bp
}

// BranchPredictor returns the owned branch predictor.
func (c *CorePerfModel) BranchPredictor() BranchPredictor {
	return c.branchPredictor
}

// Enabled reports whether this model is currently accounting.
func (c *CorePerfModel) Enabled() bool {
	return c.enabled
}

// Enable turns accounting on, except for the MCP's own tile, which is
// never enabled (spec.md §4.1).
func (c *CorePerfModel) Enable() {
	if c.isMCPCore {
		return
	}
	c.enabled = true
}

// Disable turns accounting off. Per the invariant in spec.md §3, both
// queues must already be empty or become empty through normal draining;
// Disable itself does not clear them, matching the original, which
// relies on queueing paths checking m_enabled rather than Disable()
// flushing state out from under an in-flight Iterate.
func (c *CorePerfModel) Disable() {
	c.enabled = false
}

// CycleCount returns the monotonically non-decreasing cycle total.
func (c *CorePerfModel) CycleCount() uint64 { return c.cycleCount }

// CheckpointedCycleCount returns the cycle count as of the last
// frequency change or reset.
func (c *CorePerfModel) CheckpointedCycleCount() uint64 { return c.checkpointedCycleCount }

// Frequency returns the current frequency in cycles per unit time.
func (c *CorePerfModel) Frequency() float64 { return c.frequency }

// AverageFrequency returns the time-weighted average frequency across
// all reconfiguration epochs so far.
func (c *CorePerfModel) AverageFrequency() float64 { return c.averageFrequency }

// TotalTime returns the accumulated time (cycles / frequency, summed per
// epoch) accounted so far.
func (c *CorePerfModel) TotalTime() float64 { return c.totalTime }

// InstructionCount returns the number of instructions this model has
// finished costing (completed or aborted).
func (c *CorePerfModel) InstructionCount() uint64 { return c.instructionCount }

// AddCycles advances the cycle counter. Concrete models call this from
// HandleInstruction.
func (c *CorePerfModel) AddCycles(n uint64) {
	c.cycleCount += n
}

// RecomputeAverageFrequency folds the cycles accounted since the last
// checkpoint into the running time-weighted average, per spec.md §4.1:
//
//	Δ = cycle_count − checkpointed_cycle_count
//	total_time += Δ / frequency
//	average_frequency = (average_frequency × prev_total_time + Δ) / total_time
//	checkpointed_cycle_count = cycle_count
//
// Called whenever frequency changes, and on thread exit in the original;
// here it is exposed directly so callers control when an epoch closes.
func (c *CorePerfModel) RecomputeAverageFrequency() {
	delta := float64(c.cycleCount - c.checkpointedCycleCount)
	prevTotalTime := c.totalTime

	totalCyclesExecuted := c.averageFrequency*prevTotalTime + delta
	totalTimeTaken := prevTotalTime + delta/c.frequency

	c.averageFrequency = totalCyclesExecuted / totalTimeTaken
	c.totalTime = totalTimeTaken
	c.checkpointedCycleCount = c.cycleCount
}

// SetFrequency recomputes the average frequency for the epoch that just
// ended, then installs the new frequency.
func (c *CorePerfModel) SetFrequency(frequency float64) {
	c.RecomputeAverageFrequency()
	c.frequency = frequency
}

// SetCycleCount resets both the cycle count and its checkpoint, as the
// original does on thread start.
func (c *CorePerfModel) SetCycleCount(cycleCount uint64) {
	c.checkpointedCycleCount = cycleCount
	c.cycleCount = cycleCount
}

// Reset zeroes cycle/frequency bookkeeping and drops both queues, the Go
// analogue of Simulator::resetPerformanceModelsInCurrentProcess. It does
// not change Enabled.
func (c *CorePerfModel) Reset() {
	c.bbMu.Lock()
	c.basicBlockQueue = nil
	c.currentInsIndex = 0
	c.bbMu.Unlock()

	c.diMu.Lock()
	c.dynamicInfoQueue = nil
	c.diMu.Unlock()

	c.cycleCount = 0
	c.checkpointedCycleCount = 0
	c.averageFrequency = 0
	c.totalTime = 0
	c.instructionCount = 0
}

// CompletionTimeCycles returns cycle_count / current frequency, accurate
// only at steady state per spec.md §4.1; AverageFrequency is the
// portable metric across reconfiguration epochs.
func (c *CorePerfModel) CompletionTimeCycles() float64 {
	return float64(c.cycleCount) / c.frequency
}

// QueueInstruction wraps i in a fresh dynamic single-instruction
// BasicBlock and enqueues it. When disabled, the instruction is simply
// dropped (there is no destructor to call in Go).
func (c *CorePerfModel) QueueInstruction(i *Instruction) {
	if !c.enabled {
		return
	}
	c.QueueBasicBlock(NewDynamicBasicBlock(i))
}

// QueueBasicBlock enqueues an existing BasicBlock. When disabled, this is
// a no-op and the caller retains ownership, per spec.md §4.1.
func (c *CorePerfModel) QueueBasicBlock(b *BasicBlock) {
	if !c.enabled {
		return
	}
	c.bbMu.Lock()
	c.basicBlockQueue = append(c.basicBlockQueue, b)
	c.bbMu.Unlock()
}

// PushDynamicInfo enqueues a fact produced by the functional side. When
// disabled, the fact is dropped.
func (c *CorePerfModel) PushDynamicInfo(info DynamicInstructionInfo) {
	if !c.enabled {
		return
	}
	c.diMu.Lock()
	defer c.diMu.Unlock()

	if len(c.dynamicInfoQueue) >= c.dynamicInfoSoftCap {
		fatal.Fail("dynamic info queue exceeded soft cap of %d entries: producer/consumer desync", c.dynamicInfoSoftCap)
	}
	c.dynamicInfoQueue = append(c.dynamicInfoQueue, info)
}

// GetDynamicInfo returns the front of the dynamic-info queue without
// removing it. ok is false if the queue is empty, which a cost routine
// uses to signal CostStalled.
func (c *CorePerfModel) GetDynamicInfo() (info DynamicInstructionInfo, ok bool) {
	c.diMu.Lock()
	defer c.diMu.Unlock()

	if len(c.dynamicInfoQueue) == 0 {
		return DynamicInstructionInfo{}, false
	}
	return c.dynamicInfoQueue[0], true
}

// PopDynamicInfo removes exactly one fact from the front of the queue. It
// must only be called after a prior GetDynamicInfo confirmed the queue
// was non-empty and the caller has committed to consuming that fact;
// calling it on an empty queue is a desync and is fatal.
func (c *CorePerfModel) PopDynamicInfo() DynamicInstructionInfo {
	c.diMu.Lock()
	defer c.diMu.Unlock()

	if len(c.dynamicInfoQueue) == 0 {
		fatal.Fail("PopDynamicInfo called on an empty dynamic info queue")
	}
	info := c.dynamicInfoQueue[0]
	c.dynamicInfoQueue = c.dynamicInfoQueue[1:]
	return info
}

// Iterate drains the basic-block queue while more than one block
// remains, always preserving at least one trailing block as a sentinel
// so the producer never observes an empty queue mid-stream (spec.md
// §4.1, §8 boundary cases). For each instruction starting at
// currentInsIndex it invokes the concrete model's cost routine:
//
//   - CostCompleted / CostAborted advance currentInsIndex.
//   - CostStalled returns immediately without advancing; the same
//     instruction is retried on the next Iterate call once more facts
//     have arrived.
//
// When a block's last instruction completes, the block is popped and
// the cursor resets to 0.
func (c *CorePerfModel) Iterate() {
	c.bbMu.Lock()
	defer c.bbMu.Unlock()

	for len(c.basicBlockQueue) > 1 {
		head := c.basicBlockQueue[0]

		for c.currentInsIndex < head.Len() {
			outcome := c.model.HandleInstruction(c, head.At(c.currentInsIndex))
			if outcome == CostStalled {
				return
			}

			c.instructionCount++
			c.currentInsIndex++
		}

		c.basicBlockQueue = c.basicBlockQueue[1:]
		c.currentInsIndex = 0
	}
}
