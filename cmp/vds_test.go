package cmp

import (
	"math"
	"testing"

	"github.com/MEDFormat/MEDC-sub005/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sineWave(n int, amplitude float64, samplesPerCycle float64) []int32 {
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(math.Round(amplitude * math.Sin(2*math.Pi*float64(i)/samplesPerCycle)))
	}

	return out
}

func TestVDSLosslessAtZeroThreshold(t *testing.T) {
	samples := sineWave(256, 1000, 32)

	enc := VDS{Threshold: 0}
	data, err := enc.Encode(samples)
	require.NoError(t, err)

	decoded, err := enc.Decode(data, len(samples))
	require.NoError(t, err)
	assert.Equal(t, samples, decoded)
}

func TestVDSLossyBound(t *testing.T) {
	// One low slope-per-sample cycle across the whole block, so the
	// threshold-bounded piecewise-linear approximation can genuinely
	// skip most intermediate samples (a densely oscillating waveform
	// would force a vertex at nearly every sample regardless of
	// threshold, which isn't what this property is testing).
	samples := sineWave(4096, 1000, 4096)

	threshold := 5.0
	enc := VDS{Threshold: threshold}
	data, err := enc.Encode(samples)
	require.NoError(t, err)

	decoded, err := enc.Decode(data, len(samples))
	require.NoError(t, err)
	require.Len(t, decoded, len(samples))

	var maxErr float64
	for i := range samples {
		diff := math.Abs(float64(samples[i] - decoded[i]))
		if diff > maxErr {
			maxErr = diff
		}
	}

	assert.LessOrEqual(t, maxErr, threshold)

	baseline, err := PRED{}.Encode(samples)
	require.NoError(t, err)

	assert.Less(t, len(data), len(baseline))
}

func TestVDSAlgorithmSelector(t *testing.T) {
	enc := VDS{}
	assert.Equal(t, layout.AlgorithmVDS, enc.Algorithm())
}
