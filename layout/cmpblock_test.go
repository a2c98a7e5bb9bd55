package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCMPBlockHeaderRoundTrip(t *testing.T) {
	h := NewCMPBlockHeader()
	h.BlockFlags = MakeBlockFlags(true, 1, AlgorithmPRED)
	h.StartTime = 42
	h.AcquisitionChannel = 3
	h.SampleCount = 1024
	h.EncryptionStartOffset = CMPBlockHeaderSize

	raw := h.Bytes()
	require.Len(t, raw, CMPBlockHeaderSize)

	var parsed CMPBlockHeader
	require.NoError(t, parsed.Parse(raw))

	assert.Equal(t, AlgorithmPRED, parsed.Algorithm())
	assert.True(t, parsed.Discontinuous())
	assert.Equal(t, int8(1), parsed.EncryptionLevel())
	assert.Equal(t, uint16(1024), parsed.SampleCount)
}

func TestCMPBlockCRCCoversFromOffset12(t *testing.T) {
	h := NewCMPBlockHeader()
	h.BlockFlags = MakeBlockFlags(false, 0, AlgorithmRED)
	body := append(h.Bytes(), []byte("encoded samples here")...)

	h.FinalizeCRC(body)
	require.NoError(t, VerifyCRC(body))

	// Flipping a byte in the magic (before offset 12) must not affect the CRC.
	body[0] ^= 0xFF
	assert.NoError(t, VerifyCRC(body))

	// Flipping a byte after offset 12 must be detected.
	body[12] ^= 0xFF
	assert.Error(t, VerifyCRC(body))
}

func TestVerifyLayout(t *testing.T) {
	require.NoError(t, VerifyLayout())
}

func TestRecordIndexTerminalSentinel(t *testing.T) {
	idx := RecordIndex{Type: RecordTypeTerm, FileOffset: 4096}
	assert.True(t, idx.IsTerminal())

	raw := idx.Bytes()
	var parsed RecordIndex
	require.NoError(t, parsed.Parse(raw))
	assert.True(t, parsed.IsTerminal())
	assert.Equal(t, int64(4096), parsed.FileOffset)
}
