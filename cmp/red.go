package cmp

import (
	"github.com/MEDFormat/MEDC-sub005/errs"
	"github.com/MEDFormat/MEDC-sub005/layout"
)

// RED is the range-encoded-differences algorithm (spec §4.5): a static
// per-block histogram over zigzag-mapped residuals, range-coded against
// that histogram, with an overflow side channel for residuals outside
// the literal symbol range.
type RED struct {
	// NoZeroCounts forces every histogram bin to a nonzero count before
	// coding, trading a little model-region size for never emitting a
	// zero-width range (spec's optional "no-zero-counts" flag).
	NoZeroCounts bool
}

var _ Encoding = RED{}

func (RED) Algorithm() layout.Algorithm { return layout.AlgorithmRED }

func (r RED) Encode(residuals []int32) ([]byte, error) {
	symbols, overflow := classifyResiduals(residuals)
	model := buildModel(symbols, r.NoZeroCounts)

	region := encodeModelRegion(model, len(residuals), overflow)

	enc := newRangeEncoder()
	for _, s := range symbols {
		enc.encode(model.cum[s], model.freq[s], model.total())
	}

	return append(region, enc.finish()...), nil
}

func (RED) Decode(data []byte, count int) ([]int32, error) {
	model, sampleCount, overflow, consumed, err := decodeModelRegion(data)
	if err != nil {
		return nil, err
	}

	if sampleCount != count {
		return nil, errs.ErrInvalidFieldValue
	}

	dec := newRangeDecoder(data[consumed:])

	out := make([]int32, count)
	overflowIdx := 0

	for i := 0; i < count; i++ {
		f := dec.getFreq(model.total())
		s := model.symbolFor(f)
		dec.decode(model.cum[s], model.freq[s])

		var z uint32
		if s == escapeSymbol {
			if overflowIdx >= len(overflow) {
				return nil, errs.ErrTruncated
			}
			z = overflow[overflowIdx]
			overflowIdx++
		} else {
			z = uint32(s)
		}

		out[i] = unzigzag32(z)
	}

	return out, nil
}
