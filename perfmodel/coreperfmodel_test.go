package perfmodel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIterateEmptyQueueIsNoOp(t *testing.T) {
	cpm := NewCorePerfModel(NewSimpleModel(), 1.0, false)
	cpm.Enable()

	cpm.Iterate()

	require.EqualValues(t, 0, cpm.CycleCount())
}

func TestIterateSentinelSizeOneIsNoOp(t *testing.T) {
	cpm := NewCorePerfModel(NewSimpleModel(), 1.0, false)
	cpm.Enable()

	cpm.QueueBasicBlock(NewBasicBlock([]*Instruction{
		NewInstruction(InstructionGeneric, nil, 2),
	}))

	cpm.Iterate()

	require.EqualValues(t, 0, cpm.CycleCount())
}

func TestSingleBlockCost(t *testing.T) {
	cpm := NewCorePerfModel(NewSimpleModel(), 1.0, false)
	cpm.Enable()

	ins := make([]*Instruction, 3)
	for i := range ins {
		ins[i] = NewInstruction(InstructionGeneric, nil, 2)
	}
	cpm.QueueBasicBlock(NewBasicBlock(ins))
	cpm.QueueBasicBlock(NewBasicBlock(nil)) // sentinel

	cpm.Iterate()

	require.EqualValues(t, 6, cpm.CycleCount())
	_, ok := cpm.GetDynamicInfo()
	require.False(t, ok)
}

func TestStallAndResume(t *testing.T) {
	cpm := NewCorePerfModel(NewSimpleModel(), 1.0, false)
	cpm.Enable()

	memRead := NewInstruction(InstructionMemory, []Operand{
		{Direction: OperandRead, Location: OperandMemory},
	}, 0)
	block := NewBasicBlock([]*Instruction{
		NewInstruction(InstructionGeneric, nil, 1),
		memRead,
		NewInstruction(InstructionGeneric, nil, 1),
	})
	cpm.QueueBasicBlock(block)
	cpm.QueueBasicBlock(NewBasicBlock(nil)) // sentinel

	cpm.Iterate()
	require.EqualValues(t, 1, cpm.CycleCount())

	cpm.PushDynamicInfo(NewMemoryReadInfo(0x1000, 5))
	cpm.Iterate()
	require.EqualValues(t, 7, cpm.CycleCount())
}

func TestDisabledDropsWork(t *testing.T) {
	cpm := NewCorePerfModel(NewSimpleModel(), 1.0, false)
	cpm.Disable()

	cpm.QueueInstruction(NewInstruction(InstructionGeneric, nil, 4))
	cpm.PushDynamicInfo(NewMemoryReadInfo(0, 5))

	require.EqualValues(t, 0, cpm.CycleCount())
	_, ok := cpm.GetDynamicInfo()
	require.False(t, ok)
}

func TestFrequencyChangeAccounting(t *testing.T) {
	cpm := NewCorePerfModel(NewSimpleModel(), 1.0, false)
	cpm.Enable()

	cpm.AddCycles(100)
	cpm.SetFrequency(2.0)
	cpm.AddCycles(100)
	cpm.RecomputeAverageFrequency()

	require.InDelta(t, 150.0, cpm.TotalTime(), 1e-9)
	require.InDelta(t, 200.0/150.0, cpm.AverageFrequency(), 1e-9)
}

func TestMCPCoreIsNeverEnabled(t *testing.T) {
	cpm := NewCorePerfModel(NewSimpleModel(), 1.0, true)
	cpm.Enable()

	require.False(t, cpm.Enabled())
}

func TestGetDynamicInfoOnEmptyQueueReportsNotOK(t *testing.T) {
	// PopDynamicInfo on an empty queue is fatal, so it is not called
	// here; this checks the peek that concrete models make before any
	// Pop: on an empty queue GetDynamicInfo reports ok=false.
	cpm := NewCorePerfModel(NewMagicModel(), 1.0, false)
	cpm.Enable()
	_, ok := cpm.GetDynamicInfo()
	require.False(t, ok)
}
