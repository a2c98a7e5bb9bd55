package cmp

import (
	"encoding/binary"

	"github.com/MEDFormat/MEDC-sub005/errs"
)

// numSymbols is the fixed alphabet size RED/PRED range-code over: zigzag
// residual magnitudes 0..254 are literal symbols, and 255 is an escape
// that defers to the overflow side channel (spec §4.5: "samples whose
// magnitude exceeds the histogram range are carried through a side
// channel in overflow_bytes width").
const numSymbols = 256

const escapeSymbol = numSymbols - 1

// overflowBytes is the width of each overflow side-channel entry. The
// source allows 2 or 3; this implementation fixes 3 (covers zigzag
// magnitudes up to 2^24, ample for 32-bit sample residuals in practice)
// and documents the simplification rather than exposing an unused knob.
const overflowBytes = 3

const overflowMask = 1<<(8*overflowBytes) - 1

// residualModel is the per-block cumulative-frequency table RED and PRED
// range-code against: a static histogram built once from the full
// residual stream (spec's "build a statistics histogram over residuals,
// emit a compact cumulative-count table").
type residualModel struct {
	freq [numSymbols]uint32
	cum  [numSymbols + 1]uint32
}

func zigzag32(v int32) uint32 {
	return uint32((v << 1) ^ (v >> 31))
}

func unzigzag32(z uint32) int32 {
	return int32(z>>1) ^ -int32(z&1)
}

// classifyResiduals converts residuals to range-coder symbols, routing
// anything that doesn't fit in a literal symbol to the overflow list in
// encounter order.
func classifyResiduals(residuals []int32) (symbols []uint8, overflow []uint32) {
	symbols = make([]uint8, len(residuals))

	for i, r := range residuals {
		z := zigzag32(r)
		if z < escapeSymbol {
			symbols[i] = uint8(z)
			continue
		}

		symbols[i] = escapeSymbol
		overflow = append(overflow, z&overflowMask)
	}

	return symbols, overflow
}

// buildModel tallies symbol frequencies. When noZeroCounts is set, every
// symbol's count is bumped by one so the model never assigns a symbol a
// zero-width range — the spec's optional "no-zero-counts" RED flag.
func buildModel(symbols []uint8, noZeroCounts bool) *residualModel {
	m := &residualModel{}

	base := uint32(0)
	if noZeroCounts {
		base = 1
	}

	for i := range m.freq {
		m.freq[i] = base
	}

	for _, s := range symbols {
		m.freq[s]++
	}

	m.rebuildCumulative()

	return m
}

func (m *residualModel) rebuildCumulative() {
	var total uint32
	for i, f := range m.freq {
		m.cum[i] = total
		total += f
	}
	m.cum[numSymbols] = total
}

func (m *residualModel) total() uint32 { return m.cum[numSymbols] }

// symbolFor maps a decoder's getFreq() result to a symbol via linear scan
// of the cumulative table. Block alphabets are 256 symbols, so this is
// cheap relative to the AES/CRC work already done per block.
func (m *residualModel) symbolFor(f uint32) uint8 {
	for s := 0; s < numSymbols; s++ {
		if f < m.cum[s+1] {
			return uint8(s)
		}
	}

	return escapeSymbol
}

// modelHeaderSize is the fixed 12-byte region preceding the per-bin
// counts (spec §4.5: "model region = 12B fixed + per-bin counts").
const modelHeaderSize = 12

// encodeModelRegion serializes the histogram and overflow side channel:
// 12-byte header (sample count, escape count, reserved) + 256 uint16
// counts (saturating) + escapeCount*overflowBytes raw overflow values.
func encodeModelRegion(m *residualModel, sampleCount int, overflow []uint32) []byte {
	buf := make([]byte, modelHeaderSize+numSymbols*2+len(overflow)*overflowBytes)

	binary.LittleEndian.PutUint32(buf[0:4], uint32(sampleCount))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(overflow)))
	// bytes 8-11 reserved.

	off := modelHeaderSize
	for _, f := range m.freq {
		c := f
		if c > 0xFFFF {
			c = 0xFFFF
		}
		binary.LittleEndian.PutUint16(buf[off:off+2], uint16(c))
		off += 2
	}

	for _, v := range overflow {
		putUint24ish(buf[off:off+overflowBytes], v)
		off += overflowBytes
	}

	return buf
}

func putUint24ish(b []byte, v uint32) {
	for i := 0; i < len(b); i++ {
		b[i] = byte(v >> (8 * i))
	}
}

func getUint24ish(b []byte) uint32 {
	var v uint32
	for i := 0; i < len(b); i++ {
		v |= uint32(b[i]) << (8 * i)
	}

	return v
}

// decodeModelRegion parses the region written by encodeModelRegion,
// returning the rebuilt model, sample count, overflow values, and the
// number of bytes consumed (the caller's range-coded payload starts
// immediately after).
func decodeModelRegion(data []byte) (m *residualModel, sampleCount int, overflow []uint32, consumed int, err error) {
	if len(data) < modelHeaderSize+numSymbols*2 {
		return nil, 0, nil, 0, errs.ErrTruncated
	}

	sampleCount = int(binary.LittleEndian.Uint32(data[0:4]))
	escapeCount := int(binary.LittleEndian.Uint32(data[4:8]))

	m = &residualModel{}
	off := modelHeaderSize
	for i := 0; i < numSymbols; i++ {
		m.freq[i] = uint32(binary.LittleEndian.Uint16(data[off : off+2]))
		off += 2
	}
	m.rebuildCumulative()

	need := off + escapeCount*overflowBytes
	if len(data) < need {
		return nil, 0, nil, 0, errs.ErrTruncated
	}

	overflow = make([]uint32, escapeCount)
	for i := 0; i < escapeCount; i++ {
		overflow[i] = getUint24ish(data[off : off+overflowBytes])
		off += overflowBytes
	}

	return m, sampleCount, overflow, off, nil
}
