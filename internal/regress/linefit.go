// Package regress provides the least-squares line fit and monotone
// piecewise-cubic interpolation used by the CMP codec's detrend and
// frequency-scale stages, adapted from mebo/regression's estimator math
// (least-squares fitting, residual analysis) to the per-block signal
// shapes the CMP pipeline needs instead of mebo's blob-size-estimation
// use case.
package regress

// Line is a fitted y = Slope*x + Intercept model.
type Line struct {
	Slope     float64
	Intercept float64
}

// FitLine computes the ordinary least-squares best-fit line through
// (0, y[0]), (1, y[1]), ..., (n-1, y[n-1]) — the "best-fit line m*i + b"
// CMP's detrend stage subtracts (spec §4.5 step 1).
func FitLine(y []float64) Line {
	n := float64(len(y))
	if n == 0 {
		return Line{}
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, v := range y {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return Line{Slope: 0, Intercept: sumY / n}
	}

	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	return Line{Slope: slope, Intercept: intercept}
}

// Apply evaluates the line at x.
func (l Line) Apply(x float64) float64 { return l.Slope*x + l.Intercept }

// Residuals returns y[i] - line(i) for each sample, the detrended signal
// CMP range-codes.
func (l Line) Residuals(y []float64) []float64 {
	out := make([]float64, len(y))
	for i, v := range y {
		out[i] = v - l.Apply(float64(i))
	}

	return out
}

// Retrend is the inverse of Residuals: adds the fitted line back onto a
// decoded residual stream.
func (l Line) Retrend(residuals []float64) []float64 {
	out := make([]float64, len(residuals))
	for i, v := range residuals {
		out[i] = v + l.Apply(float64(i))
	}

	return out
}
