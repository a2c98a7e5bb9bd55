package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniversalHeaderRoundTrip(t *testing.T) {
	h := NewUniversalHeader(TypeTimeSeriesData)
	h.SessionStart = 1000
	h.FileStart = 1000
	h.SessionName = "sub005"
	h.ChannelName = "ch01"
	h.UIDs = UIDSet{Session: 1, Channel: 2, Segment: 3, File: 4, Provenance: 5}
	h.SegmentNumber = 1

	body := []byte("pretend CMP block bytes go here")
	raw := h.FinalizeCRCs(body)

	require.Len(t, raw, UniversalHeaderSize+len(body))
	require.NoError(t, VerifyHeaderCRC(raw))
	require.NoError(t, VerifyBodyCRC(raw))

	var parsed UniversalHeader
	require.NoError(t, parsed.Parse(raw))
	assert.Equal(t, "sub005", parsed.SessionName)
	assert.Equal(t, "ch01", parsed.ChannelName)
	assert.Equal(t, TypeTimeSeriesData, parsed.TypeCode)
	assert.Equal(t, uint64(3), parsed.UIDs.Segment)
}

func TestUniversalHeaderCRCDetectsCorruption(t *testing.T) {
	h := NewUniversalHeader(TypeMetadata)
	raw := h.FinalizeCRCs([]byte("body"))

	raw[UniversalHeaderSize] ^= 0xFF // flip a bit in the body

	assert.Error(t, VerifyBodyCRC(raw))
	assert.NoError(t, VerifyHeaderCRC(raw)) // header itself untouched
}

func TestUniversalHeaderRejectsShortBuffer(t *testing.T) {
	var h UniversalHeader
	assert.Error(t, h.Parse(make([]byte, 10)))
}
