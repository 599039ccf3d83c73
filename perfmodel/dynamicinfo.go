package perfmodel

// DynamicInfoKind discriminates the variants of DynamicInstructionInfo.
type DynamicInfoKind int

const (
	DynamicInfoMemoryRead DynamicInfoKind = iota
	DynamicInfoMemoryWrite
	DynamicInfoBranch
)

// DynamicInstructionInfo is a fact produced by the functional side and
// consumed in FIFO order by the performance side. Exactly one variant's
// fields are meaningful, selected by Kind.
type DynamicInstructionInfo struct {
	Kind DynamicInfoKind

	// MEMORY_READ / MEMORY_WRITE
	Address uint64
	Latency uint64

	// BRANCH
	Taken             bool
	Target            uint64
	MispredictPenalty uint64
}

// NewMemoryReadInfo builds a memory-read fact.
func NewMemoryReadInfo(address, latency uint64) DynamicInstructionInfo {
	return DynamicInstructionInfo{Kind: DynamicInfoMemoryRead, Address: address, Latency: latency}
}

// NewMemoryWriteInfo builds a memory-write fact.
func NewMemoryWriteInfo(address, latency uint64) DynamicInstructionInfo {
	return DynamicInstructionInfo{Kind: DynamicInfoMemoryWrite, Address: address, Latency: latency}
}

// NewBranchInfo builds a branch-outcome fact.
func NewBranchInfo(taken bool, target, mispredictPenalty uint64) DynamicInstructionInfo {
	return DynamicInstructionInfo{
		Kind:              DynamicInfoBranch,
		Taken:             taken,
		Target:            target,
		MispredictPenalty: mispredictPenalty,
	}
}

// IsMemory reports whether this fact matches a memory operand.
func (d DynamicInstructionInfo) IsMemory() bool {
	return d.Kind == DynamicInfoMemoryRead || d.Kind == DynamicInfoMemoryWrite
}
