package perfmodel

import "github.com/sarchlab/tilesim/fatal"

// CoreType distinguishes a main application core from a pep co-processor
// core, per the GLOSSARY's Core definition.
type CoreType int

const (
	CoreTypeMain CoreType = iota
	CoreTypePep
)

// Create builds the concrete Model named by modelName for the given core
// type, mirroring CorePerfModel::create's dispatch on configured model
// name. An unrecognized name is a fatal configuration error per spec.md
// §7.
func Create(coreType CoreType, modelName string) Model {
	switch coreType {
	case CoreTypeMain:
		switch modelName {
		case "simple":
			return NewSimpleModel()
		case "iocoom":
			return NewIOCOOMModel()
		case "magic":
			return NewMagicModel()
		default:
			fatal.Fail("invalid core perf model type: %q", modelName)
		}
	case CoreTypePep:
		switch modelName {
		case "none":
			return nil
		case "magic":
			return NewMagicPepModel()
		default:
			fatal.Fail("invalid pep perf model type: %q", modelName)
		}
	default:
		fatal.Fail("invalid core type requested for perfmodel.Create")
	}
	return nil
}

// NewForCoreType builds a full CorePerfModel (model + bookkeeping) for a
// tile's core, the Go analogue of CorePerfModel::create followed by the
// constructor in the original.
func NewForCoreType(coreType CoreType, modelName string, frequency float64, isMCPCore bool) *CorePerfModel {
	model := Create(coreType, modelName)
	if model == nil {
		return nil
	}
	return NewCorePerfModel(model, frequency, isMCPCore)
}
