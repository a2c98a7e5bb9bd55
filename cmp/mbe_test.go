package cmp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMBERoundTrip(t *testing.T) {
	residuals := []int32{-10, -5, 0, 5, 10, 127, -128, 3}

	enc := MBE{}
	data, err := enc.Encode(residuals)
	require.NoError(t, err)

	decoded, err := enc.Decode(data, len(residuals))
	require.NoError(t, err)
	assert.Equal(t, residuals, decoded)
}

func TestMBEConstantBlock(t *testing.T) {
	residuals := make([]int32, 100)
	for i := range residuals {
		residuals[i] = 42
	}

	enc := MBE{}
	data, err := enc.Encode(residuals)
	require.NoError(t, err)

	decoded, err := enc.Decode(data, len(residuals))
	require.NoError(t, err)
	assert.Equal(t, residuals, decoded)
}

func TestMBEEmptyBlock(t *testing.T) {
	enc := MBE{}
	data, err := enc.Encode(nil)
	require.NoError(t, err)

	decoded, err := enc.Decode(data, 0)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}
