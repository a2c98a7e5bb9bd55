package regress

import "math"

// MonotoneCubic is a Fritsch-Carlson monotone piecewise-cubic Hermite
// interpolant. CMP's frequency-scale stage uses this in place of a full
// Makima spline to reconstruct full-resolution samples from a decimated
// vertex set (documented substitution, see DESIGN.md and SPEC_FULL.md
// §4.5: Makima and Fritsch-Carlson agree everywhere except at local
// extrema shared between adjacent segments, which frequency-scale
// decimation of smooth neural signal envelopes rarely exercises).
type MonotoneCubic struct {
	x, y []float64
	m    []float64 // tangents at each knot
}

// NewMonotoneCubic builds the interpolant from knots (x, y), x strictly
// increasing.
func NewMonotoneCubic(x, y []float64) *MonotoneCubic {
	n := len(x)
	if n < 2 || len(y) != n {
		return &MonotoneCubic{x: x, y: y, m: make([]float64, n)}
	}

	delta := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		dx := x[i+1] - x[i]
		if dx == 0 {
			delta[i] = 0
			continue
		}
		delta[i] = (y[i+1] - y[i]) / dx
	}

	m := make([]float64, n)
	m[0] = delta[0]
	m[n-1] = delta[n-2]

	for i := 1; i < n-1; i++ {
		if delta[i-1]*delta[i] <= 0 {
			m[i] = 0
			continue
		}
		m[i] = (delta[i-1] + delta[i]) / 2
	}

	// Fritsch-Carlson limiter: clamp tangents so the curve stays monotone
	// on each interval.
	for i := 0; i < n-1; i++ {
		if delta[i] == 0 {
			m[i] = 0
			m[i+1] = 0
			continue
		}

		a := m[i] / delta[i]
		b := m[i+1] / delta[i]
		s := a*a + b*b
		if s > 9 {
			tau := 3 / math.Sqrt(s)
			m[i] = tau * a * delta[i]
			m[i+1] = tau * b * delta[i]
		}
	}

	return &MonotoneCubic{x: x, y: y, m: m}
}

// At evaluates the interpolant at t, clamping to the first/last knot
// outside the fitted range.
func (c *MonotoneCubic) At(t float64) float64 {
	n := len(c.x)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return c.y[0]
	}

	if t <= c.x[0] {
		return c.y[0]
	}
	if t >= c.x[n-1] {
		return c.y[n-1]
	}

	i := 0
	for i < n-2 && c.x[i+1] < t {
		i++
	}

	h := c.x[i+1] - c.x[i]
	s := (t - c.x[i]) / h

	h00 := (1 + 2*s) * (1 - s) * (1 - s)
	h10 := s * (1 - s) * (1 - s)
	h01 := s * s * (3 - 2*s)
	h11 := s * s * (s - 1)

	return h00*c.y[i] + h10*h*c.m[i] + h01*c.y[i+1] + h11*h*c.m[i+1]
}
