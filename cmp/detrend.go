package cmp

import (
	"math"

	"github.com/MEDFormat/MEDC-sub005/internal/regress"
)

// detrend subtracts the best-fit line m*i + b from samples (spec §4.5
// step 1), returning integer residuals plus the fitted line so the block
// parameters (intercept, gradient) can be stored.
//
// The line value itself is rounded to an integer before subtraction
// (rather than rounding the difference), so retrend's integer addition
// is an exact inverse regardless of how ragged the fitted slope is —
// detrend is meant to be lossless when enabled, and float rounding of a
// difference can round either side up or down independently.
func detrend(samples []int32) ([]int32, regress.Line) {
	line := regress.FitLine(int32ToFloat64(samples))

	out := make([]int32, len(samples))
	for i, v := range samples {
		out[i] = v - roundedLineValue(line, i)
	}

	return out, line
}

// retrend is detrend's inverse, adding the fitted line back onto decoded
// residuals.
func retrend(residuals []int32, line regress.Line) []int32 {
	out := make([]int32, len(residuals))
	for i, v := range residuals {
		out[i] = v + roundedLineValue(line, i)
	}

	return out
}

func roundedLineValue(line regress.Line, i int) int32 {
	return int32(math.Round(line.Apply(float64(i))))
}

func int32ToFloat64(samples []int32) []float64 {
	y := make([]float64, len(samples))
	for i, v := range samples {
		y[i] = float64(v)
	}

	return y
}
