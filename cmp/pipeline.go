package cmp

import (
	"github.com/MEDFormat/MEDC-sub005/errs"
	"github.com/MEDFormat/MEDC-sub005/internal/regress"
	"github.com/MEDFormat/MEDC-sub005/layout"
	"github.com/MEDFormat/MEDC-sub005/primitives"
	"github.com/MEDFormat/MEDC-sub005/security"
)

// ProcessingStruct composes the stages common to all four CMP encodings
// (spec §4.5): detrend, amplitude scale, frequency scale, derivative,
// the chosen Encoding, encryption, and CRC — this package's analogue of
// mebo's blob encoders, which likewise separate "what gets laid out"
// (package layout, here) from "how the pipeline assembles it" (this
// type).
type ProcessingStruct struct {
	Directives Directives
	Passwords  *security.PasswordData
}

// EncodeBlock runs the full encode pipeline and returns a complete,
// CRC-finalized, optionally encrypted CMP block ready to append to a
// time-series data file.
func (p *ProcessingStruct) EncodeBlock(samples []int32, acqChannel uint32, startTime int64) ([]byte, error) {
	d := p.Directives

	working := append([]int32(nil), samples...)
	line := regress.Line{}

	if d.Detrend {
		working, line = detrend(working)
	}

	ampScale := d.AmplitudeScale
	if d.FindAmplitudeScale {
		ampScale = p.findAmplitudeScale(working)
		d.AmplitudeScale = ampScale // recorded in the parameter region for DecodeBlock
	}
	if ampScale > 1 {
		working = amplitudeScaleDown(working, ampScale)
	}

	preFreqLen := len(working)
	freqOutLen := d.FrequencyScaleOutputLen
	if d.FindFrequencyScale {
		freqOutLen = p.findFrequencyScaleLen(working)
	}
	if freqOutLen > 0 && freqOutLen < preFreqLen {
		working = frequencyScaleDown(working, freqOutLen)
	} else {
		preFreqLen = 0 // 0 signals "frequency scale not applied" to the decoder
	}

	derivLevel := d.DerivativeLevel
	if d.FindDerivativeLevel {
		derivLevel = p.findDerivativeLevel(working)
	}
	residuals := applyDerivative(working, derivLevel)

	alg := d.Algorithm
	var modelBytes []byte
	var err error

	switch {
	case alg == layout.AlgorithmVDS:
		enc := VDS{
			Threshold:         d.VDSThreshold,
			AmplitudeEncoding: encodingFor(d.VDSAmplitudeEncoding),
			TimeEncoding:      encodingFor(d.VDSTimeEncoding),
		}
		modelBytes, err = enc.Encode(residuals)
	case d.FallThroughToBestEncoding:
		alg, modelBytes, err = bestEncoding(residuals, d.NoZeroCounts)
	default:
		modelBytes, err = encodingForDirective(alg, d.NoZeroCounts).Encode(residuals)
	}
	if err != nil {
		return nil, err
	}

	paramFlags, paramBytes := encodeParameters(d, line, derivLevel, preFreqLen, len(residuals))

	header := layout.NewCMPBlockHeader()
	header.StartTime = startTime
	header.AcquisitionChannel = acqChannel
	header.SampleCount = uint16(len(samples))
	header.ParameterFlags = paramFlags
	header.ParameterRegionBytes = uint16(len(paramBytes))
	header.TotalHeaderBytes = layout.CMPBlockHeaderSize + header.RecordRegionBytes + header.ParameterRegionBytes + header.ProtectedRegionBytes + header.DiscretionaryRegionBytes

	encLevel := security.EncryptionLevel(d.EncryptionLevel)
	header.BlockFlags = layout.MakeBlockFlags(d.Discontinuous, int8(encLevel), alg)

	modelStart := int(header.TotalHeaderBytes)
	header.EncryptionStartOffset = uint32(modelStart)

	payloadLen := len(modelBytes)
	if encLevel.OriginalLevel() > 0 {
		payloadLen = padToBlockSize(payloadLen, primitives.AESBlockSize)
	}

	block := make([]byte, modelStart+payloadLen)
	copy(block[layout.CMPBlockHeaderSize:], paramBytes)
	copy(block[modelStart:], modelBytes)

	header.TotalBlockBytes = uint32(len(block))
	copy(block[:layout.CMPBlockHeaderSize], header.Bytes())

	if encLevel.OriginalLevel() > 0 && p.Passwords != nil {
		if _, err := p.Passwords.Encrypt(block[modelStart:], encLevel); err != nil {
			return nil, err
		}
	}

	header.FinalizeCRC(block)

	return block, nil
}

// DecodeBlock reverses EncodeBlock: CRC validate, decrypt if a key is
// available, decode the model region, then invert derivative,
// frequency scale, amplitude scale, and detrend in that order (spec
// §4.5: "Decode reverses the pipeline").
func (p *ProcessingStruct) DecodeBlock(block []byte) ([]int32, error) {
	if err := layout.VerifyCRC(block); err != nil {
		return nil, err
	}

	header := &layout.CMPBlockHeader{}
	if err := header.Parse(block); err != nil {
		return nil, err
	}

	encLevel := security.EncryptionLevel(header.EncryptionLevel())
	modelStart := int(header.EncryptionStartOffset)

	if len(block) < modelStart {
		return nil, errs.ErrTruncated
	}

	payload := append([]byte(nil), block[modelStart:]...)

	if encLevel.OriginalLevel() > 0 {
		if p.Passwords == nil || !p.Passwords.CanDecrypt(encLevel) {
			return nil, errs.ErrNoKey
		}

		if _, err := p.Passwords.Decrypt(payload, encLevel); err != nil {
			return nil, err
		}
	}

	if len(block) < layout.CMPBlockHeaderSize+int(header.ParameterRegionBytes) {
		return nil, errs.ErrTruncated
	}
	paramBytes := block[layout.CMPBlockHeaderSize : layout.CMPBlockHeaderSize+int(header.ParameterRegionBytes)]
	params := decodeParametersFull(paramBytes)

	alg := header.Algorithm()
	encodedCount := int(params.EncodedSampleCount)

	var enc Encoding
	if alg == layout.AlgorithmVDS {
		enc = VDS{}
	} else {
		enc = encodingFor(alg)
	}

	residuals, err := enc.Decode(payload, encodedCount)
	if err != nil {
		return nil, err
	}

	working := invertDerivative(residuals, int(params.DerivativeLevel))

	if header.HasParam(layout.ParamFlagFrequencyScale) && int(params.OriginalLength) != len(working) {
		working = frequencyScaleUp(working, int(params.OriginalLength))
	}

	if header.HasParam(layout.ParamFlagAmplitudeScale) {
		working = amplitudeScaleUp(working, params.AmplitudeScale)
	}

	if header.HasParam(layout.ParamFlagIntercept) || header.HasParam(layout.ParamFlagGradient) {
		line := regress.Line{Intercept: params.Intercept, Slope: params.Gradient}
		working = retrend(working, line)
	}

	if len(working) > int(header.SampleCount) {
		working = working[:header.SampleCount]
	}

	return working, nil
}

func padToBlockSize(n, blockSize int) int {
	if n%blockSize == 0 {
		return n
	}

	return n + (blockSize - n%blockSize)
}

func encodingForDirective(alg layout.Algorithm, noZero bool) Encoding {
	switch alg {
	case layout.AlgorithmPRED:
		return PRED{NoZeroCounts: noZero}
	case layout.AlgorithmMBE:
		return MBE{}
	default:
		return RED{NoZeroCounts: noZero}
	}
}

// bestEncoding implements fall_through_to_best_encoding: try RED, PRED,
// and MBE, keep whichever produced the smallest output (spec §4.5).
func bestEncoding(residuals []int32, noZero bool) (layout.Algorithm, []byte, error) {
	candidates := []Encoding{RED{NoZeroCounts: noZero}, PRED{NoZeroCounts: noZero}, MBE{}}

	var bestAlg layout.Algorithm
	var bestBytes []byte

	for _, c := range candidates {
		b, err := c.Encode(residuals)
		if err != nil {
			return 0, nil, err
		}

		if bestBytes == nil || len(b) < len(bestBytes) {
			bestBytes = b
			bestAlg = c.Algorithm()
		}
	}

	return bestAlg, bestBytes, nil
}
