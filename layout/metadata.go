package layout

import (
	"math"

	"github.com/MEDFormat/MEDC-sub005/errs"
	"github.com/MEDFormat/MEDC-sub005/primitives"
)

// ChannelKind distinguishes the time-series-channel vs video-channel
// variant union that occupies metadata §2 (§3.3).
type ChannelKind uint8

const (
	ChannelKindTimeSeries ChannelKind = 1
	ChannelKindVideo      ChannelKind = 2
)

// MetadataSection1 holds password hints and the per-section encryption
// levels (§3.3 §1, 1 KiB).
type MetadataSection1 struct {
	PasswordHintLevel1 string
	PasswordHintLevel2 string
	Section2Level      int8
	Section3Level      int8
	DataLevel          int8
}

const (
	s1OffsetHintL1   = 0
	s1HintSize       = 256
	s1OffsetHintL2   = s1OffsetHintL1 + s1HintSize
	s1OffsetSec2Lvl  = s1OffsetHintL2 + s1HintSize
	s1OffsetSec3Lvl  = s1OffsetSec2Lvl + 1
	s1OffsetDataLvl  = s1OffsetSec3Lvl + 1
)

func (s *MetadataSection1) Parse(data []byte) error {
	if len(data) < MetadataSection1Size {
		return errs.ErrInvalidHeaderSize
	}

	s.PasswordHintLevel1 = primitives.ParseFixedUTF8Field(data[s1OffsetHintL1 : s1OffsetHintL1+s1HintSize])
	s.PasswordHintLevel2 = primitives.ParseFixedUTF8Field(data[s1OffsetHintL2 : s1OffsetHintL2+s1HintSize])
	s.Section2Level = int8(data[s1OffsetSec2Lvl])
	s.Section3Level = int8(data[s1OffsetSec3Lvl])
	s.DataLevel = int8(data[s1OffsetDataLvl])

	return nil
}

func (s *MetadataSection1) Bytes() []byte {
	b := make([]byte, MetadataSection1Size)
	copy(b[s1OffsetHintL1:s1OffsetHintL1+s1HintSize], primitives.FixedUTF8Field(s.PasswordHintLevel1, s1HintSize))
	copy(b[s1OffsetHintL2:s1OffsetHintL2+s1HintSize], primitives.FixedUTF8Field(s.PasswordHintLevel2, s1HintSize))
	b[s1OffsetSec2Lvl] = uint8(s.Section2Level)
	b[s1OffsetSec3Lvl] = uint8(s.Section3Level)
	b[s1OffsetDataLvl] = uint8(s.DataLevel)

	return b
}

// TimeSeriesChannelMeta is the time-series variant of metadata §2.
type TimeSeriesChannelMeta struct {
	SamplingFrequency float64
	LowFilterHz       float64
	HighFilterHz      float64
	NotchFilterHz     float64
	AmplitudeUnitsConversion float64
	SampleCount       uint64
	BlockCount        uint32
	MaximumBlockBytes uint32
	MaximumBlockSamples uint32
}

const (
	ts2OffsetSF         = 0
	ts2OffsetLowFilt    = 8
	ts2OffsetHighFilt   = 16
	ts2OffsetNotchFilt  = 24
	ts2OffsetAmpConv    = 32
	ts2OffsetSampleCnt  = 40
	ts2OffsetBlockCnt   = 48
	ts2OffsetMaxBlkByte = 52
	ts2OffsetMaxBlkSamp = 56
)

func (m *TimeSeriesChannelMeta) Parse(data []byte) error {
	if len(data) < MetadataSection2Size {
		return errs.ErrInvalidHeaderSize
	}

	e := primitives.Wire
	m.SamplingFrequency = wireFloat64(e, data[ts2OffsetSF:])
	m.LowFilterHz = wireFloat64(e, data[ts2OffsetLowFilt:])
	m.HighFilterHz = wireFloat64(e, data[ts2OffsetHighFilt:])
	m.NotchFilterHz = wireFloat64(e, data[ts2OffsetNotchFilt:])
	m.AmplitudeUnitsConversion = wireFloat64(e, data[ts2OffsetAmpConv:])
	m.SampleCount = e.Uint64(data[ts2OffsetSampleCnt:])
	m.BlockCount = e.Uint32(data[ts2OffsetBlockCnt:])
	m.MaximumBlockBytes = e.Uint32(data[ts2OffsetMaxBlkByte:])
	m.MaximumBlockSamples = e.Uint32(data[ts2OffsetMaxBlkSamp:])

	return nil
}

func (m *TimeSeriesChannelMeta) Bytes() []byte {
	b := make([]byte, MetadataSection2Size)
	e := primitives.Wire
	putWireFloat64(e, b[ts2OffsetSF:], m.SamplingFrequency)
	putWireFloat64(e, b[ts2OffsetLowFilt:], m.LowFilterHz)
	putWireFloat64(e, b[ts2OffsetHighFilt:], m.HighFilterHz)
	putWireFloat64(e, b[ts2OffsetNotchFilt:], m.NotchFilterHz)
	putWireFloat64(e, b[ts2OffsetAmpConv:], m.AmplitudeUnitsConversion)
	e.PutUint64(b[ts2OffsetSampleCnt:], m.SampleCount)
	e.PutUint32(b[ts2OffsetBlockCnt:], m.BlockCount)
	e.PutUint32(b[ts2OffsetMaxBlkByte:], m.MaximumBlockBytes)
	e.PutUint32(b[ts2OffsetMaxBlkSamp:], m.MaximumBlockSamples)

	return b
}

// VideoChannelMeta is the video variant of metadata §2.
type VideoChannelMeta struct {
	FrameRate   float64
	FrameCount  uint64
	ClipCount   uint32
	MaximumClipBytes uint32
}

const (
	v2OffsetFrameRate  = 0
	v2OffsetFrameCount = 8
	v2OffsetClipCount  = 16
	v2OffsetMaxClip    = 20
)

func (m *VideoChannelMeta) Parse(data []byte) error {
	if len(data) < MetadataSection2Size {
		return errs.ErrInvalidHeaderSize
	}

	e := primitives.Wire
	m.FrameRate = wireFloat64(e, data[v2OffsetFrameRate:])
	m.FrameCount = e.Uint64(data[v2OffsetFrameCount:])
	m.ClipCount = e.Uint32(data[v2OffsetClipCount:])
	m.MaximumClipBytes = e.Uint32(data[v2OffsetMaxClip:])

	return nil
}

func (m *VideoChannelMeta) Bytes() []byte {
	b := make([]byte, MetadataSection2Size)
	e := primitives.Wire
	putWireFloat64(e, b[v2OffsetFrameRate:], m.FrameRate)
	e.PutUint64(b[v2OffsetFrameCount:], m.FrameCount)
	e.PutUint32(b[v2OffsetClipCount:], m.ClipCount)
	e.PutUint32(b[v2OffsetMaxClip:], m.MaximumClipBytes)

	return b
}

// MetadataSection3 carries the recording-time offset, DST codes, timezone
// acronyms/strings, demographics, and standard UTC offset (§3.3 §3).
type MetadataSection3 struct {
	RecordingTimeOffset int64
	StandardUTCOffset   int32
	StandardAcronym     string
	DaylightAcronym     string
	SubjectName         string
	SubjectID           string
	RecordingLocation   string
}

const (
	s3OffsetRTO       = 0
	s3OffsetStdOffset = 8
	s3OffsetStdAcro   = 12
	s3AcroSize        = 16
	s3OffsetDstAcro   = s3OffsetStdAcro + s3AcroSize
	s3OffsetSubjName  = s3OffsetDstAcro + s3AcroSize
	s3NameSize        = 256
	s3OffsetSubjID    = s3OffsetSubjName + s3NameSize
	s3IDSize          = 64
	s3OffsetLocation  = s3OffsetSubjID + s3IDSize
	s3LocationSize    = 256
)

func (s *MetadataSection3) Parse(data []byte) error {
	if len(data) < MetadataSection3Size {
		return errs.ErrInvalidHeaderSize
	}

	e := primitives.Wire
	s.RecordingTimeOffset = int64(e.Uint64(data[s3OffsetRTO:]))
	s.StandardUTCOffset = int32(e.Uint32(data[s3OffsetStdOffset:]))
	s.StandardAcronym = primitives.ParseFixedUTF8Field(data[s3OffsetStdAcro : s3OffsetStdAcro+s3AcroSize])
	s.DaylightAcronym = primitives.ParseFixedUTF8Field(data[s3OffsetDstAcro : s3OffsetDstAcro+s3AcroSize])
	s.SubjectName = primitives.ParseFixedUTF8Field(data[s3OffsetSubjName : s3OffsetSubjName+s3NameSize])
	s.SubjectID = primitives.ParseFixedUTF8Field(data[s3OffsetSubjID : s3OffsetSubjID+s3IDSize])
	s.RecordingLocation = primitives.ParseFixedUTF8Field(data[s3OffsetLocation : s3OffsetLocation+s3LocationSize])

	return nil
}

func (s *MetadataSection3) Bytes() []byte {
	b := make([]byte, MetadataSection3Size)
	e := primitives.Wire
	e.PutUint64(b[s3OffsetRTO:], uint64(s.RecordingTimeOffset))
	e.PutUint32(b[s3OffsetStdOffset:], uint32(s.StandardUTCOffset))
	copy(b[s3OffsetStdAcro:s3OffsetStdAcro+s3AcroSize], primitives.FixedUTF8Field(s.StandardAcronym, s3AcroSize))
	copy(b[s3OffsetDstAcro:s3OffsetDstAcro+s3AcroSize], primitives.FixedUTF8Field(s.DaylightAcronym, s3AcroSize))
	copy(b[s3OffsetSubjName:s3OffsetSubjName+s3NameSize], primitives.FixedUTF8Field(s.SubjectName, s3NameSize))
	copy(b[s3OffsetSubjID:s3OffsetSubjID+s3IDSize], primitives.FixedUTF8Field(s.SubjectID, s3IDSize))
	copy(b[s3OffsetLocation:s3OffsetLocation+s3LocationSize], primitives.FixedUTF8Field(s.RecordingLocation, s3LocationSize))

	return b
}

// wireFloat64/putWireFloat64 read/write an IEEE-754 float64 through the
// wire byte order, since encoding/binary.ByteOrder only has integer
// accessors.
func wireFloat64(e binaryByteOrder, b []byte) float64 {
	return math.Float64frombits(e.Uint64(b))
}

func putWireFloat64(e binaryByteOrder, b []byte, v float64) {
	e.PutUint64(b, math.Float64bits(v))
}

// binaryByteOrder is the minimal subset of binary.ByteOrder these helpers
// need.
type binaryByteOrder interface {
	Uint64([]byte) uint64
	PutUint64([]byte, uint64)
}
