package perfmodel

// BasicBlock is an ordered sequence of Instructions. A dynamic block is
// uniquely owned by the queue it sits in and is discarded once fully
// drained; a static block is interned elsewhere (e.g. by a compiler pass
// or a benchmark's instruction cache) and merely referenced here, so it
// outlives the queue.
type BasicBlock struct {
	Instructions []*Instruction
	Dynamic      bool
}

// NewBasicBlock wraps an existing, static instruction sequence.
func NewBasicBlock(instructions []*Instruction) *BasicBlock {
	return &BasicBlock{Instructions: instructions, Dynamic: false}
}

// NewDynamicBasicBlock builds a single-instruction, queue-owned block, the
// shape CorePerfModel.QueueInstruction wraps its argument in.
func NewDynamicBasicBlock(i *Instruction) *BasicBlock {
	return &BasicBlock{Instructions: []*Instruction{i}, Dynamic: true}
}

// Len returns the number of instructions in the block.
func (b *BasicBlock) Len() int {
	return len(b.Instructions)
}

// At returns the instruction at index idx.
func (b *BasicBlock) At(idx int) *Instruction {
	return b.Instructions[idx]
}
