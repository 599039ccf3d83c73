// Package perfmodel implements the per-tile performance model: the
// instruction/basic-block data types, the cooperative CorePerfModel
// iterate loop, and the concrete cost models built on top of it.
package perfmodel

// InstructionType is the closed enumeration of instruction kinds the
// performance side distinguishes. Everything else (opcode, immediate
// values, ...) is functional-side detail the performance model never
// sees.
type InstructionType int

const (
	InstructionGeneric InstructionType = iota
	InstructionBranch
	InstructionMemory
	InstructionRecv
	InstructionSync
	InstructionSpawn
)

func (t InstructionType) String() string {
	switch t {
	case InstructionGeneric:
		return "generic"
	case InstructionBranch:
		return "branch"
	case InstructionMemory:
		return "memory"
	case InstructionRecv:
		return "recv"
	case InstructionSync:
		return "sync"
	case InstructionSpawn:
		return "spawn"
	default:
		return "unknown"
	}
}

// OperandDirection says whether an operand is read or written by its
// instruction.
type OperandDirection int

const (
	OperandRead OperandDirection = iota
	OperandWrite
)

// OperandLocation is the closed set of places an operand can live.
type OperandLocation int

const (
	OperandRegister OperandLocation = iota
	OperandMemory
	OperandImmediate
)

// Operand is one operand of an Instruction. RegisterID only means
// something when Location is OperandRegister; it names the register for
// IOCOOM's scoreboard.
type Operand struct {
	Direction  OperandDirection
	Location   OperandLocation
	RegisterID int
}

// IsMemory reports whether this operand requires a matching
// DynamicInstructionInfo memory fact.
func (o Operand) IsMemory() bool {
	return o.Location == OperandMemory
}

// Instruction is immutable after construction. It is created by the
// functional side, transferred into a BasicBlock, and destroyed with the
// BasicBlock if the block is dynamic.
type Instruction struct {
	Type       InstructionType
	Operands   []Operand
	StaticCost uint64
}

// NewInstruction builds an Instruction. Operands is taken by reference;
// callers must not mutate the slice afterwards.
func NewInstruction(t InstructionType, operands []Operand, staticCost uint64) *Instruction {
	return &Instruction{
		Type:       t,
		Operands:   operands,
		StaticCost: staticCost,
	}
}

// HasBranchOperand reports whether this instruction expects a branch
// DynamicInstructionInfo fact. Branch facts are keyed off the
// instruction's type, not an operand, matching the original's
// "instruction with a branch operand" shorthand for "branch-type
// instruction".
func (i *Instruction) HasBranchOperand() bool {
	return i.Type == InstructionBranch
}

// MemoryOperands returns the subset of operands that require a matching
// memory DynamicInstructionInfo fact, in order.
func (i *Instruction) MemoryOperands() []Operand {
	var out []Operand
	for _, o := range i.Operands {
		if o.IsMemory() {
			out = append(out, o)
		}
	}
	return out
}
