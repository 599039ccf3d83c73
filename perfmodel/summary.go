package perfmodel

import (
	"fmt"
	"io"
)

// Summary is the human-readable per-tile report of spec.md §6, shared by
// every concrete model's OutputSummary.
type Summary struct {
	Instructions     uint64
	CompletionTime   float64
	AverageFrequency float64
}

// BuildSummary snapshots cpm's counters into a Summary.
func BuildSummary(cpm *CorePerfModel) Summary {
	return Summary{
		Instructions:     cpm.InstructionCount(),
		CompletionTime:   cpm.CompletionTimeCycles(),
		AverageFrequency: cpm.AverageFrequency(),
	}
}

// WriteCommonSummary writes the three lines every concrete model's
// outputSummary emits before handing off to the branch predictor's own
// summary, grounded on magic_pep_performance_model.cc's outputSummary.
func WriteCommonSummary(cpm *CorePerfModel, w io.Writer) {
	s := BuildSummary(cpm)
	fmt.Fprintf(w, "  Instructions: %d\n", s.Instructions)
	fmt.Fprintf(w, "  Completion Time: %.0f\n", s.CompletionTime)
	fmt.Fprintf(w, "  Average Frequency: %g\n", s.AverageFrequency)
	cpm.BranchPredictor().OutputSummary(w)
}
