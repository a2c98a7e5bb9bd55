package layout

import (
	"github.com/MEDFormat/MEDC-sub005/errs"
	"github.com/MEDFormat/MEDC-sub005/primitives"
)

// Algorithm is the CMP encoding algorithm selector packed into bits 3-6
// of BlockFlags (§3.6, §4.5).
type Algorithm uint8

const (
	AlgorithmRED  Algorithm = 1
	AlgorithmPRED Algorithm = 2
	AlgorithmMBE  Algorithm = 3
	AlgorithmVDS  Algorithm = 4
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmRED:
		return "RED"
	case AlgorithmPRED:
		return "PRED"
	case AlgorithmMBE:
		return "MBE"
	case AlgorithmVDS:
		return "VDS"
	default:
		return "Unknown"
	}
}

// BlockFlags bit layout (§3.6): bit 0 discontinuity, bits 1-2 encryption
// level, bits 3-6 algorithm, remaining bits reserved.
const (
	BlockFlagDiscontinuity uint32 = 0x1

	blockFlagEncryptionShift = 1
	blockFlagEncryptionMask  = 0x3 << blockFlagEncryptionShift

	blockFlagAlgorithmShift = 3
	blockFlagAlgorithmMask  = 0xF << blockFlagAlgorithmShift
)

// EncryptionLevelOf extracts the 2-bit encryption level from flags.
func EncryptionLevelOf(flags uint32) int8 {
	return int8((flags & blockFlagEncryptionMask) >> blockFlagEncryptionShift)
}

// AlgorithmOf extracts the 4-bit algorithm selector from flags.
func AlgorithmOf(flags uint32) Algorithm {
	return Algorithm((flags & blockFlagAlgorithmMask) >> blockFlagAlgorithmShift)
}

// MakeBlockFlags packs discontinuity/encryption/algorithm into a flags word.
func MakeBlockFlags(discontinuous bool, encryptionLevel int8, alg Algorithm) uint32 {
	var f uint32
	if discontinuous {
		f |= BlockFlagDiscontinuity
	}

	f |= (uint32(encryptionLevel) << blockFlagEncryptionShift) & blockFlagEncryptionMask
	f |= (uint32(alg) << blockFlagAlgorithmShift) & blockFlagAlgorithmMask

	return f
}

// ParameterFlags selects which optional per-block parameters are present
// in the block-parameters region (§3.6).
const (
	ParamFlagIntercept      uint16 = 0x1
	ParamFlagGradient       uint16 = 0x2
	ParamFlagAmplitudeScale uint16 = 0x4
	ParamFlagFrequencyScale uint16 = 0x8
	ParamFlagNoiseScores    uint16 = 0x10
)

// CMPBlockHeader is the fixed 56-byte header prefixing every CMP block
// (§3.6). The variable region (records, parameters, protected,
// discretionary, model) and the encoded samples follow immediately in
// the file/buffer; package cmp lays those out and interprets them.
type CMPBlockHeader struct {
	StartUID               uint64
	BlockCRC                uint32
	BlockFlags              uint32
	StartTime               int64
	AcquisitionChannel      uint32
	TotalBlockBytes         uint32
	EncryptionStartOffset   uint32
	SampleCount             uint16
	RecordCount             uint16
	RecordRegionBytes       uint16
	ParameterFlags          uint16
	ParameterRegionBytes    uint16
	ProtectedRegionBytes    uint16
	DiscretionaryRegionBytes uint16
	ModelRegionBytes        uint16
	TotalHeaderBytes        uint16
}

const (
	cbOffsetStartUID   = 0
	cbOffsetBlockCRC   = 8
	cbOffsetBlockFlags = 12
	cbOffsetStartTime  = 16
	cbOffsetAcqChannel = 24
	cbOffsetTotalBytes = 28
	cbOffsetEncStart   = 32
	cbOffsetSampleCnt  = 36
	cbOffsetRecordCnt  = 38
	cbOffsetRecRegion  = 40
	cbOffsetParamFlags = 42
	cbOffsetParamRegion = 44
	cbOffsetProtRegion  = 46
	cbOffsetDiscRegion  = 48
	cbOffsetModelRegion = 50
	cbOffsetTotalHeader = 52
	// bytes 54-55 reserved.
)

// NewCMPBlockHeader builds a header with the magic start UID and the
// fixed header size already populated.
func NewCMPBlockHeader() *CMPBlockHeader {
	return &CMPBlockHeader{
		StartUID:         CMPBlockStartUID,
		TotalHeaderBytes: CMPBlockHeaderSize,
	}
}

func (h *CMPBlockHeader) Algorithm() Algorithm          { return AlgorithmOf(h.BlockFlags) }
func (h *CMPBlockHeader) Discontinuous() bool           { return h.BlockFlags&BlockFlagDiscontinuity != 0 }
func (h *CMPBlockHeader) EncryptionLevel() int8         { return EncryptionLevelOf(h.BlockFlags) }
func (h *CMPBlockHeader) HasParam(flag uint16) bool     { return h.ParameterFlags&flag != 0 }

func (h *CMPBlockHeader) Parse(data []byte) error {
	if len(data) < CMPBlockHeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	e := primitives.Wire
	h.StartUID = e.Uint64(data[cbOffsetStartUID:])
	if h.StartUID != CMPBlockStartUID {
		return errs.ErrBadMagic
	}

	h.BlockCRC = e.Uint32(data[cbOffsetBlockCRC:])
	h.BlockFlags = e.Uint32(data[cbOffsetBlockFlags:])
	h.StartTime = int64(e.Uint64(data[cbOffsetStartTime:]))
	h.AcquisitionChannel = e.Uint32(data[cbOffsetAcqChannel:])
	h.TotalBlockBytes = e.Uint32(data[cbOffsetTotalBytes:])
	h.EncryptionStartOffset = e.Uint32(data[cbOffsetEncStart:])
	h.SampleCount = e.Uint16(data[cbOffsetSampleCnt:])
	h.RecordCount = e.Uint16(data[cbOffsetRecordCnt:])
	h.RecordRegionBytes = e.Uint16(data[cbOffsetRecRegion:])
	h.ParameterFlags = e.Uint16(data[cbOffsetParamFlags:])
	h.ParameterRegionBytes = e.Uint16(data[cbOffsetParamRegion:])
	h.ProtectedRegionBytes = e.Uint16(data[cbOffsetProtRegion:])
	h.DiscretionaryRegionBytes = e.Uint16(data[cbOffsetDiscRegion:])
	h.ModelRegionBytes = e.Uint16(data[cbOffsetModelRegion:])
	h.TotalHeaderBytes = e.Uint16(data[cbOffsetTotalHeader:])

	return nil
}

func (h *CMPBlockHeader) Bytes() []byte {
	b := make([]byte, CMPBlockHeaderSize)
	e := primitives.Wire
	e.PutUint64(b[cbOffsetStartUID:], h.StartUID)
	e.PutUint32(b[cbOffsetBlockCRC:], h.BlockCRC)
	e.PutUint32(b[cbOffsetBlockFlags:], h.BlockFlags)
	e.PutUint64(b[cbOffsetStartTime:], uint64(h.StartTime))
	e.PutUint32(b[cbOffsetAcqChannel:], h.AcquisitionChannel)
	e.PutUint32(b[cbOffsetTotalBytes:], h.TotalBlockBytes)
	e.PutUint32(b[cbOffsetEncStart:], h.EncryptionStartOffset)
	e.PutUint16(b[cbOffsetSampleCnt:], h.SampleCount)
	e.PutUint16(b[cbOffsetRecordCnt:], h.RecordCount)
	e.PutUint16(b[cbOffsetRecRegion:], h.RecordRegionBytes)
	e.PutUint16(b[cbOffsetParamFlags:], h.ParameterFlags)
	e.PutUint16(b[cbOffsetParamRegion:], h.ParameterRegionBytes)
	e.PutUint16(b[cbOffsetProtRegion:], h.ProtectedRegionBytes)
	e.PutUint16(b[cbOffsetDiscRegion:], h.DiscretionaryRegionBytes)
	e.PutUint16(b[cbOffsetModelRegion:], h.ModelRegionBytes)
	e.PutUint16(b[cbOffsetTotalHeader:], h.TotalHeaderBytes)

	return b
}

// FinalizeCRC computes the block CRC over block[12:] (offset 12 to
// end-of-block, §3.6: "The block CRC covers from offset 12 to
// end-of-block") and writes it into both the header struct and block.
func (h *CMPBlockHeader) FinalizeCRC(block []byte) {
	h.BlockCRC = primitives.CRC32(block[cbOffsetBlockFlags:])
	primitives.Wire.PutUint32(block[cbOffsetBlockCRC:], h.BlockCRC)
}

// VerifyCRC recomputes the block CRC over block[12:] and compares it to
// the stored value at offset 8.
func VerifyCRC(block []byte) error {
	if len(block) < CMPBlockHeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	stored := primitives.Wire.Uint32(block[cbOffsetBlockCRC:])
	got := primitives.CRC32(block[cbOffsetBlockFlags:])

	if stored != got {
		return errs.ErrBlockCRCMismatch
	}

	return nil
}
