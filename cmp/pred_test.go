package cmp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPREDRoundTrip(t *testing.T) {
	residuals := make([]int32, 500)
	for i := range residuals {
		switch {
		case i%3 == 0:
			residuals[i] = 2
		case i%3 == 1:
			residuals[i] = -1
		default:
			residuals[i] = 0
		}
	}

	enc := PRED{}
	data, err := enc.Encode(residuals)
	require.NoError(t, err)

	decoded, err := enc.Decode(data, len(residuals))
	require.NoError(t, err)
	assert.Equal(t, residuals, decoded)
}

func TestPREDRoundTripOnCorrelatedSignal(t *testing.T) {
	residuals := make([]int32, 1024)
	val := int32(0)
	for i := range residuals {
		if i%2 == 0 {
			val++
		} else {
			val--
		}
		residuals[i] = val % 4
	}

	red := RED{}
	redBytes, err := red.Encode(residuals)
	require.NoError(t, err)

	pred := PRED{}
	predBytes, err := pred.Encode(residuals)
	require.NoError(t, err)

	decoded, err := pred.Decode(predBytes, len(residuals))
	require.NoError(t, err)
	assert.Equal(t, residuals, decoded)

	t.Logf("RED: %d bytes, PRED: %d bytes", len(redBytes), len(predBytes))
}

func TestPREDEmptyBlock(t *testing.T) {
	enc := PRED{}
	data, err := enc.Encode(nil)
	require.NoError(t, err)

	decoded, err := enc.Decode(data, 0)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}
