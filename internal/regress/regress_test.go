package regress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitLineRecoversExactLine(t *testing.T) {
	y := make([]float64, 10)
	for i := range y {
		y[i] = 3.5*float64(i) + 2.0
	}

	line := FitLine(y)
	assert.InDelta(t, 3.5, line.Slope, 1e-9)
	assert.InDelta(t, 2.0, line.Intercept, 1e-9)
}

func TestResidualsRetrendRoundTrip(t *testing.T) {
	y := []float64{1, 4, 2, 9, 3, 11, 0.5}
	line := FitLine(y)

	residuals := line.Residuals(y)
	restored := line.Retrend(residuals)

	for i := range y {
		assert.InDelta(t, y[i], restored[i], 1e-9)
	}
}

func TestFitLineEmpty(t *testing.T) {
	line := FitLine(nil)
	assert.Equal(t, Line{}, line)
}

func TestMonotoneCubicInterpolatesKnotsExactly(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4}
	y := []float64{0, 1, 4, 9, 16}

	mc := NewMonotoneCubic(x, y)
	for i := range x {
		assert.InDelta(t, y[i], mc.At(x[i]), 1e-9)
	}
}

func TestMonotoneCubicPreservesMonotonicity(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4, 5}
	y := []float64{0, 0, 1, 1, 2, 10}

	mc := NewMonotoneCubic(x, y)

	var prev float64 = -1
	for q := 0.0; q <= 5.0; q += 0.1 {
		v := mc.At(q)
		assert.GreaterOrEqual(t, v, prev-1e-9)
		prev = v
	}
}

func TestMonotoneCubicClampsOutsideRange(t *testing.T) {
	x := []float64{0, 1, 2}
	y := []float64{5, 6, 7}
	mc := NewMonotoneCubic(x, y)

	assert.Equal(t, 5.0, mc.At(-10))
	assert.Equal(t, 7.0, mc.At(10))
}

func TestMonotoneCubicSinglePoint(t *testing.T) {
	mc := NewMonotoneCubic([]float64{1}, []float64{42})
	assert.Equal(t, 42.0, mc.At(0))
	assert.Equal(t, 42.0, mc.At(100))
}
