package cmp

import (
	"testing"

	"github.com/MEDFormat/MEDC-sub005/layout"
	"github.com/MEDFormat/MEDC-sub005/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeBlockRoundTrip(t *testing.T) {
	samples := make([]int32, 1024)
	for i := range samples {
		samples[i] = int32(i)
	}

	p := &ProcessingStruct{
		Directives: Directives{
			Algorithm:       layout.AlgorithmPRED,
			DerivativeLevel: 1,
		},
	}

	block, err := p.EncodeBlock(samples, 7, 1000)
	require.NoError(t, err)
	assert.Less(t, len(block), 4*len(samples))

	decoded, err := p.DecodeBlock(block)
	require.NoError(t, err)
	assert.Equal(t, samples, decoded)
}

func TestDecodeBlockDetectsCorruption(t *testing.T) {
	samples := make([]int32, 256)
	for i := range samples {
		samples[i] = int32(i % 17)
	}

	p := &ProcessingStruct{Directives: Directives{Algorithm: layout.AlgorithmRED}}

	blockA, err := p.EncodeBlock(samples, 1, 0)
	require.NoError(t, err)
	blockB, err := p.EncodeBlock(samples, 2, int64(len(samples)))
	require.NoError(t, err)

	corrupt := append([]byte(nil), blockA...)
	corrupt[len(corrupt)-1] ^= 0x01

	_, err = p.DecodeBlock(corrupt)
	assert.Error(t, err)

	decodedB, err := p.DecodeBlock(blockB)
	require.NoError(t, err)
	assert.Equal(t, samples, decodedB)
}

func TestEncodeDecodeBlockWithDetrendAndFindDirectives(t *testing.T) {
	samples := make([]int32, 512)
	for i := range samples {
		samples[i] = int32(2*i + 3)
	}

	p := &ProcessingStruct{
		Directives: Directives{
			Algorithm:            layout.AlgorithmRED,
			Detrend:              true,
			FindDerivativeLevel:  true,
			FallThroughToBestEncoding: true,
		},
	}

	block, err := p.EncodeBlock(samples, 3, 42)
	require.NoError(t, err)

	decoded, err := p.DecodeBlock(block)
	require.NoError(t, err)
	assert.Equal(t, samples, decoded)
}

func TestEncodeDecodeBlockEncrypted(t *testing.T) {
	samples := make([]int32, 300)
	for i := range samples {
		samples[i] = int32(i%5) - 2
	}

	pd, _, err := security.DeriveForWrite(security.Passwords{Level1: "subject-pw"})
	require.NoError(t, err)

	p := &ProcessingStruct{
		Directives: Directives{
			Algorithm:       layout.AlgorithmMBE,
			EncryptionLevel: 1,
		},
		Passwords: pd,
	}

	block, err := p.EncodeBlock(samples, 9, 500)
	require.NoError(t, err)

	decoded, err := p.DecodeBlock(block)
	require.NoError(t, err)
	assert.Equal(t, samples, decoded)

	noKey := &ProcessingStruct{Directives: p.Directives}
	_, err = noKey.DecodeBlock(block)
	assert.Error(t, err)
}

func TestEncodeDecodeBlockVDS(t *testing.T) {
	samples := make([]int32, 128)
	for i := range samples {
		samples[i] = int32(i * i % 97)
	}

	p := &ProcessingStruct{
		Directives: Directives{
			Algorithm:    layout.AlgorithmVDS,
			VDSThreshold: 3,
		},
	}

	block, err := p.EncodeBlock(samples, 0, 0)
	require.NoError(t, err)

	decoded, err := p.DecodeBlock(block)
	require.NoError(t, err)
	require.Len(t, decoded, len(samples))

	for i := range samples {
		diff := samples[i] - decoded[i]
		if diff < 0 {
			diff = -diff
		}
		assert.LessOrEqual(t, diff, int32(3))
	}
}
