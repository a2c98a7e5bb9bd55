package cmp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestREDRoundTrip(t *testing.T) {
	residuals := make([]int32, 1024)
	for i := range residuals {
		residuals[i] = int32(i%7) - 3
	}

	enc := RED{}
	data, err := enc.Encode(residuals)
	require.NoError(t, err)

	decoded, err := enc.Decode(data, len(residuals))
	require.NoError(t, err)
	assert.Equal(t, residuals, decoded)
}

func TestREDHandlesOverflow(t *testing.T) {
	residuals := []int32{0, 1, -1, 100000, -100000, 5, 5, 5, 5}

	enc := RED{}
	data, err := enc.Encode(residuals)
	require.NoError(t, err)

	decoded, err := enc.Decode(data, len(residuals))
	require.NoError(t, err)
	assert.Equal(t, residuals, decoded)
}

func TestREDEmptyBlock(t *testing.T) {
	enc := RED{}
	data, err := enc.Encode(nil)
	require.NoError(t, err)

	decoded, err := enc.Decode(data, 0)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestREDNoZeroCounts(t *testing.T) {
	residuals := []int32{1, 1, 1, 1, 2, 2, 3}

	enc := RED{NoZeroCounts: true}
	data, err := enc.Encode(residuals)
	require.NoError(t, err)

	decoded, err := enc.Decode(data, len(residuals))
	require.NoError(t, err)
	assert.Equal(t, residuals, decoded)
}
