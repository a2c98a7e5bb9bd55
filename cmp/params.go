package cmp

import (
	"encoding/binary"
	"math"

	"github.com/MEDFormat/MEDC-sub005/internal/regress"
	"github.com/MEDFormat/MEDC-sub005/layout"
)

// blockParamsSize is this implementation's fixed parameter-region size.
// Offsets: 0 derivative level (1B), 1 intercept (8B), 9 gradient (8B),
// 17 amplitude scale (8B), 25 original length (4B), 29 encoded sample
// count (4B), 33-35 reserved.
const blockParamsSize = 36

// blockParams is this implementation's concrete parameter-region layout
// (spec §3.6 leaves the region's internal structure flag-driven but
// implementation-defined beyond "intercept, gradient, amplitude-scale,
// frequency-scale, noise-scores"). Every field is always present at a
// fixed offset rather than packed variable-offset by flag; the two
// fields not named by any §3.6 parameter flag (DerivativeLevel,
// EncodedSampleCount) are this implementation's own bookkeeping, needed
// because the source's C layout keeps that state in the in-memory
// processing struct rather than on disk.
type blockParams struct {
	DerivativeLevel    uint8
	Intercept          float64
	Gradient           float64
	AmplitudeScale     float64
	OriginalLength     uint32 // pre-frequency-scale sample count, 0 if unused
	EncodedSampleCount uint32 // length of the stream handed to the Encoding
}

func encodeParameters(d Directives, line regress.Line, derivLevel int, originalLength, encodedSampleCount int) (flags uint16, out []byte) {
	p := blockParams{
		DerivativeLevel:    uint8(derivLevel),
		EncodedSampleCount: uint32(encodedSampleCount),
	}

	if d.Detrend {
		flags |= layout.ParamFlagIntercept | layout.ParamFlagGradient
		p.Intercept = line.Intercept
		p.Gradient = line.Slope
	}

	if d.AmplitudeScale > 1 {
		flags |= layout.ParamFlagAmplitudeScale
		p.AmplitudeScale = d.AmplitudeScale
	}

	if originalLength > 0 && originalLength != encodedSampleCount {
		flags |= layout.ParamFlagFrequencyScale
		p.OriginalLength = uint32(originalLength)
	}

	out = make([]byte, blockParamsSize)
	out[0] = p.DerivativeLevel
	binary.LittleEndian.PutUint64(out[1:9], math.Float64bits(p.Intercept))
	binary.LittleEndian.PutUint64(out[9:17], math.Float64bits(p.Gradient))
	binary.LittleEndian.PutUint64(out[17:25], math.Float64bits(p.AmplitudeScale))
	binary.LittleEndian.PutUint32(out[25:29], p.OriginalLength)
	binary.LittleEndian.PutUint32(out[29:33], p.EncodedSampleCount)

	return flags, out
}

func decodeParametersFull(data []byte) blockParams {
	if len(data) < blockParamsSize {
		return blockParams{}
	}

	return blockParams{
		DerivativeLevel:    data[0],
		Intercept:          math.Float64frombits(binary.LittleEndian.Uint64(data[1:9])),
		Gradient:           math.Float64frombits(binary.LittleEndian.Uint64(data[9:17])),
		AmplitudeScale:     math.Float64frombits(binary.LittleEndian.Uint64(data[17:25])),
		OriginalLength:     binary.LittleEndian.Uint32(data[25:29]),
		EncodedSampleCount: binary.LittleEndian.Uint32(data[29:33]),
	}
}
