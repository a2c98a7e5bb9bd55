package cmp

import "github.com/MEDFormat/MEDC-sub005/layout"

// Objective selects what a find-directive binary search optimizes for
// (spec §4.5: "use_mean_residual_ratio vs use_compression_ratio selects
// the objective").
type Objective int

const (
	ObjectiveCompressionRatio Objective = iota
	ObjectiveMeanResidualRatio
)

// Directives bundles every CMP encode-time knob (spec §4.5). A zero
// value encodes losslessly with RED and no detrend/scale stages, the
// same conservative default medstate.DefaultBehavior() uses for the
// failure mask.
type Directives struct {
	Algorithm layout.Algorithm

	Detrend bool

	AmplitudeScale     float64 // 0 or 1 disables
	FindAmplitudeScale bool

	FrequencyScaleOutputLen int // 0 disables
	FindFrequencyScale      bool

	DerivativeLevel     int // 0..3
	FindDerivativeLevel bool

	// FallThroughToBestEncoding measures RED, PRED, and MBE output size
	// for the block and silently substitutes the smallest, ignoring
	// Algorithm (unless Algorithm is VDS, which is never substituted —
	// its lossy bound is a caller decision, not a size optimization).
	FallThroughToBestEncoding bool

	VDSThreshold         float64
	VDSAmplitudeEncoding layout.Algorithm
	VDSTimeEncoding      layout.Algorithm

	NoZeroCounts bool

	GoalRatio          float64
	GoalTolerance      float64
	MaximumGoalAttempts int
	Objective          Objective
	UseRelativeRatio   bool

	EncryptionLevel int8
	Discontinuous   bool
}

// DefaultDirectives is the conservative, lossless default.
func DefaultDirectives() Directives {
	return Directives{
		Algorithm:           layout.AlgorithmRED,
		GoalTolerance:       0.02,
		MaximumGoalAttempts: 8,
	}
}
