package cmp

import (
	"math"

	"github.com/MEDFormat/MEDC-sub005/internal/regress"
)

// amplitudeScaleDown divides samples by scale and rounds (spec §4.5 step
// 2, lossy). scale <= 1 is treated as a no-op.
func amplitudeScaleDown(samples []int32, scale float64) []int32 {
	if scale <= 1 {
		return append([]int32(nil), samples...)
	}

	out := make([]int32, len(samples))
	for i, v := range samples {
		out[i] = int32(math.Round(float64(v) / scale))
	}

	return out
}

// amplitudeScaleUp is amplitudeScaleDown's inverse, applied on decode.
func amplitudeScaleUp(samples []int32, scale float64) []int32 {
	if scale <= 1 {
		return append([]int32(nil), samples...)
	}

	out := make([]int32, len(samples))
	for i, v := range samples {
		out[i] = int32(math.Round(float64(v) * scale))
	}

	return out
}

// frequencyScaleDown decimates samples to outputLen effective samples by
// picking every stride-th value (spec §4.5 step 3, lossy). outputLen <=
// 0 or >= len(samples) is a no-op.
func frequencyScaleDown(samples []int32, outputLen int) []int32 {
	n := len(samples)
	if outputLen <= 0 || outputLen >= n {
		return append([]int32(nil), samples...)
	}

	out := make([]int32, outputLen)
	for i := 0; i < outputLen; i++ {
		srcIdx := i * (n - 1) / maxInt(outputLen-1, 1)
		out[i] = samples[srcIdx]
	}

	return out
}

// frequencyScaleUp reconstructs fullLen samples from a decimated vertex
// set via monotone piecewise-cubic interpolation (this implementation's
// documented substitute for a full Makima spline, see SPEC_FULL.md
// §4.5 and DESIGN.md).
func frequencyScaleUp(decimated []int32, fullLen int) []int32 {
	n := len(decimated)
	if n == 0 || n >= fullLen {
		out := make([]int32, fullLen)
		copy(out, decimated)
		return out
	}

	x := make([]float64, n)
	y := make([]float64, n)
	for i, v := range decimated {
		x[i] = float64(i * (fullLen - 1) / maxInt(n-1, 1))
		y[i] = float64(v)
	}

	mc := regress.NewMonotoneCubic(x, y)

	out := make([]int32, fullLen)
	for i := 0; i < fullLen; i++ {
		out[i] = int32(math.Round(mc.At(float64(i))))
	}

	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
