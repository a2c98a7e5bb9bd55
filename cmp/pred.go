package cmp

import (
	"encoding/binary"

	"github.com/MEDFormat/MEDC-sub005/errs"
	"github.com/MEDFormat/MEDC-sub005/layout"
)

// PRED is the predictive-RED algorithm (spec §4.5): residuals are routed
// into one of three independent RED streams keyed by the sign category
// of the *previous* residual, each with its own histogram. Correlated
// signals cluster same-sign runs, so the per-category models are more
// peaked than RED's single global histogram.
type PRED struct {
	NoZeroCounts bool
}

var _ Encoding = PRED{}

func (PRED) Algorithm() layout.Algorithm { return layout.AlgorithmPRED }

// predHeaderSize prefixes the three length-delimited RED sub-streams
// with the total residual count, so Decode can size its output without
// summing the three embedded per-stream counts up front.
const predHeaderSize = 4

func (p PRED) Encode(residuals []int32) ([]byte, error) {
	var groups [categoryCount][]int32

	var prev int32
	hasPrev := false
	for _, r := range residuals {
		cat := categoryOf(prev, hasPrev)
		groups[cat] = append(groups[cat], r)
		prev = r
		hasPrev = true
	}

	red := RED{NoZeroCounts: p.NoZeroCounts}

	out := make([]byte, predHeaderSize)
	binary.LittleEndian.PutUint32(out[0:4], uint32(len(residuals)))

	for _, g := range groups {
		sub, err := red.Encode(g)
		if err != nil {
			return nil, err
		}

		lenBuf := make([]byte, 4)
		binary.LittleEndian.PutUint32(lenBuf, uint32(len(sub)))
		out = append(out, lenBuf...)
		out = append(out, sub...)
	}

	return out, nil
}

func (PRED) Decode(data []byte, count int) ([]int32, error) {
	if len(data) < predHeaderSize {
		return nil, errs.ErrTruncated
	}

	total := int(binary.LittleEndian.Uint32(data[0:4]))
	if total != count {
		return nil, errs.ErrInvalidFieldValue
	}

	off := predHeaderSize

	var groups [categoryCount][]int32
	red := RED{}

	for c := 0; c < int(categoryCount); c++ {
		if len(data) < off+4 {
			return nil, errs.ErrTruncated
		}

		subLen := int(binary.LittleEndian.Uint32(data[off : off+4]))
		off += 4

		if len(data) < off+subLen {
			return nil, errs.ErrTruncated
		}

		sub := data[off : off+subLen]
		off += subLen

		groupCount, err := peekRedSampleCount(sub)
		if err != nil {
			return nil, err
		}

		vals, err := red.Decode(sub, groupCount)
		if err != nil {
			return nil, err
		}

		groups[c] = vals
	}

	out := make([]int32, 0, count)

	var prev int32
	hasPrev := false
	idx := [categoryCount]int{}

	for i := 0; i < count; i++ {
		cat := categoryOf(prev, hasPrev)
		if idx[cat] >= len(groups[cat]) {
			return nil, errs.ErrTruncated
		}

		v := groups[cat][idx[cat]]
		idx[cat]++
		out = append(out, v)
		prev = v
		hasPrev = true
	}

	return out, nil
}

// peekRedSampleCount reads the sample count a RED stream's model header
// carries, without otherwise decoding it — PRED needs this to know how
// many residuals to ask RED.Decode for.
func peekRedSampleCount(data []byte) (int, error) {
	if len(data) < 4 {
		return 0, errs.ErrTruncated
	}

	return int(binary.LittleEndian.Uint32(data[0:4])), nil
}
