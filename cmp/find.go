package cmp

import "math"

// findAmplitudeScale binary-searches amplitude_scale in [1, 64] for the
// value whose resulting RED-encoded size best matches GoalRatio (spec
// §4.5 "find" directives). Convergence is advisory, not contractual —
// the search returns its best candidate even if it never lands within
// GoalTolerance within MaximumGoalAttempts.
func (p *ProcessingStruct) findAmplitudeScale(samples []int32) float64 {
	d := p.Directives
	if d.GoalRatio <= 0 {
		return 1
	}

	eval := func(scale float64) float64 {
		scaled := amplitudeScaleDown(samples, scale)
		return p.ratioFor(samples, scaled, scaled)
	}

	return bisectForRatio(1, 64, d.MaximumGoalAttempts, d.GoalRatio, d.GoalTolerance, eval)
}

// findFrequencyScaleLen binary-searches the decimated output length in
// [1, len(samples)] for the value whose resulting size best matches
// GoalRatio. The search runs over the number of dropped samples, so a
// larger parameter means a shorter output, as bisectForRatio assumes.
func (p *ProcessingStruct) findFrequencyScaleLen(samples []int32) int {
	d := p.Directives
	n := len(samples)
	if d.GoalRatio <= 0 || n < 2 {
		return 0
	}

	eval := func(drop float64) float64 {
		decimated := frequencyScaleDown(samples, n-int(math.Round(drop)))
		return p.ratioFor(samples, decimated, decimated)
	}

	drop := bisectForRatio(0, float64(n-1), d.MaximumGoalAttempts, d.GoalRatio, d.GoalTolerance, eval)

	return n - int(math.Round(drop))
}

// findDerivativeLevel scans derivative levels 0..3 (a tiny, exhaustive
// bounded search — binary search over four discrete points degenerates
// to exhaustive scan) and keeps whichever level's encoded size is
// closest to GoalRatio.
func (p *ProcessingStruct) findDerivativeLevel(samples []int32) int {
	d := p.Directives
	if d.GoalRatio <= 0 {
		return d.DerivativeLevel
	}

	best := 0
	bestDiff := math.Inf(1)

	for level := 0; level <= 3; level++ {
		residuals := applyDerivative(samples, level)
		ratio := p.ratioFor(samples, residuals, residuals)

		diff := math.Abs(ratio - d.GoalRatio)
		if diff < bestDiff {
			bestDiff = diff
			best = level
		}
	}

	return best
}

// ratioFor measures either compression ratio or mean-residual ratio
// against the original sample count, per Objective (spec §4.5:
// "use_mean_residual_ratio vs use_compression_ratio selects the
// objective"). UseRelativeRatio normalizes by the block's coefficient
// of variation so noisy blocks aren't penalized as heavily.
func (p *ProcessingStruct) ratioFor(original, transformed, residuals []int32) float64 {
	var ratio float64

	switch p.Directives.Objective {
	case ObjectiveMeanResidualRatio:
		ratio = meanAbs(residuals) / math.Max(meanAbs(original), 1)
	default:
		encoded, err := RED{}.Encode(transformed)
		if err != nil {
			return math.Inf(1)
		}
		ratio = float64(len(encoded)) / math.Max(float64(len(original)*4), 1)
	}

	if p.Directives.UseRelativeRatio {
		cv := coefficientOfVariation(original)
		if cv > 0 {
			ratio /= cv
		}
	}

	return ratio
}

func meanAbs(v []int32) float64 {
	if len(v) == 0 {
		return 0
	}

	var sum float64
	for _, x := range v {
		sum += math.Abs(float64(x))
	}

	return sum / float64(len(v))
}

func coefficientOfVariation(v []int32) float64 {
	if len(v) == 0 {
		return 0
	}

	var sum float64
	for _, x := range v {
		sum += float64(x)
	}
	mean := sum / float64(len(v))

	if mean == 0 {
		return 0
	}

	var variance float64
	for _, x := range v {
		d := float64(x) - mean
		variance += d * d
	}
	variance /= float64(len(v))

	return math.Sqrt(variance) / math.Abs(mean)
}

// bisectForRatio assumes eval is roughly monotonically decreasing in its
// parameter (a larger scale/shorter output compresses more aggressively)
// and bisects toward goal±tolerance within maxAttempts iterations,
// returning its closest candidate regardless of whether it converged.
func bisectForRatio(lo, hi float64, maxAttempts int, goal, tolerance float64, eval func(float64) float64) float64 {
	if maxAttempts <= 0 {
		maxAttempts = 8
	}

	best := lo
	bestDiff := math.Inf(1)

	for i := 0; i < maxAttempts; i++ {
		mid := (lo + hi) / 2
		ratio := eval(mid)

		diff := math.Abs(ratio - goal)
		if diff < bestDiff {
			bestDiff = diff
			best = mid
		}

		if diff <= tolerance {
			return mid
		}

		if ratio > goal {
			lo = mid
		} else {
			hi = mid
		}
	}

	return best
}
