package cmp

import (
	"encoding/binary"
	"math/bits"

	"github.com/MEDFormat/MEDC-sub005/errs"
	"github.com/MEDFormat/MEDC-sub005/layout"
)

// MBE is the minimal-bit-encoding algorithm (spec §4.5): stores
// (min_value, bits_per_sample) and packs each residual, offset by
// min_value, into exactly bits_per_sample bits. It is the "fallthrough"
// algorithm used when RED/PRED's model region overhead would outweigh
// the savings on a near-uniform block.
type MBE struct{}

var _ Encoding = MBE{}

func (MBE) Algorithm() layout.Algorithm { return layout.AlgorithmMBE }

// mbeHeaderSize is (min_value int32, bits_per_sample uint8, reserved x3).
const mbeHeaderSize = 8

func (MBE) Encode(residuals []int32) ([]byte, error) {
	if len(residuals) == 0 {
		header := make([]byte, mbeHeaderSize)
		return header, nil
	}

	minV, maxV := residuals[0], residuals[0]
	for _, r := range residuals {
		if r < minV {
			minV = r
		}
		if r > maxV {
			maxV = r
		}
	}

	span := uint32(maxV - minV)
	width := uint(bits.Len32(span))
	if width == 0 {
		width = 1 // constant blocks still need one bit per sample
	}

	header := make([]byte, mbeHeaderSize)
	binary.LittleEndian.PutUint32(header[0:4], uint32(minV))
	header[4] = byte(width)

	w := &bitWriter{}
	for _, r := range residuals {
		w.writeBits(uint32(r-minV), width)
	}

	return append(header, w.flush()...), nil
}

func (MBE) Decode(data []byte, count int) ([]int32, error) {
	if len(data) < mbeHeaderSize {
		return nil, errs.ErrTruncated
	}

	minV := int32(binary.LittleEndian.Uint32(data[0:4]))
	width := uint(data[4])

	out := make([]int32, count)
	if count == 0 {
		return out, nil
	}

	payload := data[mbeHeaderSize:]
	if needed := (count*int(width) + 7) / 8; len(payload) < needed {
		return nil, errs.ErrTruncated
	}

	r := &bitReader{data: payload}
	for i := 0; i < count; i++ {
		out[i] = minV + int32(r.readBits(width))
	}

	return out, nil
}
