package primitives

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCRC32Combine(t *testing.T) {
	a := []byte("the quick brown fox jumps over the lazy dog, ")
	b := []byte("and then it runs away quickly into the night.")

	crcA := CRC32(a)
	crcB := CRC32(b)
	combined := CRC32Combine(crcA, crcB, int64(len(b)))

	whole := CRC32(append(append([]byte{}, a...), b...))
	assert.Equal(t, whole, combined)
}

func TestCRC32CombineEmptyTail(t *testing.T) {
	a := []byte("abc")
	crcA := CRC32(a)

	require.Equal(t, crcA, CRC32Combine(crcA, 0, 0))
}

func TestCRC32MatchesSpecConvention(t *testing.T) {
	// §4.1: initial register 0, no final XOR — a single zero byte leaves
	// the register at 0, the value MED's CRC_NO_ENTRY sentinel depends on.
	assert.Equal(t, uint32(0x0), CRC32([]byte{0}))
	assert.Equal(t, uint32(0xca6598d0), CRC32([]byte("abc")))
}

func TestCRC32Update(t *testing.T) {
	data := []byte("streamed in two pieces")
	whole := CRC32(data)

	mid := len(data) / 2
	partial := CRC32Update(0, data[:mid])
	partial = CRC32Update(partial, data[mid:])

	assert.Equal(t, whole, partial)
}
