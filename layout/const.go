// Package layout implements the MED wire format's fixed byte layouts:
// the universal header, metadata file sections, record header/index
// pairs, time-series/video indices, and the CMP block container
// (spec §3). Every exported type here has a Parse([]byte) and a
// Bytes() []byte method performing the exact byte-for-byte round-trip
// the format mandates, mirroring mebo/section's NumericHeader /
// NumericIndexEntry idiom.
package layout

import "math"

// Universal header layout (§3.2): fixed 1024-byte prefix of every file.
const (
	UniversalHeaderSize = 1024

	UHOffsetHeaderCRC      = 0
	UHOffsetBodyCRC        = 4
	UHOffsetFileEndTime    = 8
	UHOffsetNumberEntries  = 16
	UHOffsetMaxEntrySize   = 24
	UHOffsetSegmentNumber  = 28
	UHOffsetTypeCode       = 32
	UHOffsetVersionMajor   = 36
	UHOffsetVersionMinor   = 37
	UHOffsetByteOrder      = 38
	UHOffsetSessionStart   = 40
	UHOffsetFileStart      = 48
	UHOffsetSessionName    = 56
	UHOffsetChannelName    = 312
	UHOffsetAnonymizedID   = 568
	UHOffsetSessionUID     = 632
	UHOffsetChannelUID     = 640
	UHOffsetSegmentUID     = 648
	UHOffsetFileUID        = 656
	UHOffsetProvenanceUID  = 664
	UHOffsetPasswordValL1  = 672
	UHOffsetPasswordValL2  = 688
	UHOffsetPasswordValL3  = 704
	UHOffsetReserved       = 720
	UHOffsetReservedEnd    = UniversalHeaderSize

	// Fixed-width string field sizes.
	baseNameSize  = 256
	anonymizedIDSize = 64
)

// FormatVersionMajor and FormatVersionMinor are the fixed version
// identifiers the universal header carries (§6).
const (
	FormatVersionMajor uint8 = 1
	FormatVersionMinor uint8 = 0
)

// Segment-number sentinels (§3.2): channel-level and session-level files
// carry one of these instead of a real segment number.
const (
	SegmentNumberChannelLevel int32 = -1
	SegmentNumberSessionLevel int32 = -2
)

// TypeCode is the 4-byte little-endian-interpreted ASCII file/section type
// code (§3.2, §6). It overlays the same 4 bytes as a uint32 and as an
// ASCII string, the Go equivalent of the source's anonymous union.
type TypeCode [4]byte

func NewTypeCode(s string) TypeCode {
	var tc TypeCode
	copy(tc[:], s)

	return tc
}

func (tc TypeCode) String() string { return string(tc[:]) }

func (tc TypeCode) AsUint32() uint32 {
	return uint32(tc[0]) | uint32(tc[1])<<8 | uint32(tc[2])<<16 | uint32(tc[3])<<24
}

// Recognized file/section type codes (§3.2, §3.4).
var (
	TypeMetadata           = NewTypeCode("tmet")
	TypeTimeSeriesData     = NewTypeCode("tdat")
	TypeTimeSeriesIndex    = NewTypeCode("tidx")
	TypeRecordData         = NewTypeCode("rdat")
	TypeRecordIndex        = NewTypeCode("ridx")
	TypeVideoMetadata      = NewTypeCode("vmet")
	TypeVideoIndex         = NewTypeCode("vidx")
	TypeSessionDirectory   = NewTypeCode("sdir")
	TypeChannelDirectory   = NewTypeCode("cdir")
	TypeSegmentDirectory   = NewTypeCode("gdir")
)

// Record type codes (§4.6).
var (
	RecordTypeSgmt = NewTypeCode("Sgmt")
	RecordTypeStat = NewTypeCode("Stat")
	RecordTypeNote = NewTypeCode("Note")
	RecordTypeEDFA = NewTypeCode("EDFA")
	RecordTypeSeiz = NewTypeCode("Seiz")
	RecordTypeSyLg = NewTypeCode("SyLg")
	RecordTypeNlxP = NewTypeCode("NlxP")
	RecordTypeCurs = NewTypeCode("Curs")
	RecordTypeEpoc = NewTypeCode("Epoc")
	RecordTypeESti = NewTypeCode("ESti")
	RecordTypeCSti = NewTypeCode("CSti")
	RecordTypeTerm = NewTypeCode("Term")
)

// Sentinel values fixed by §6.
const (
	SampleNumberNoEntry uint64  = 0x8000000000000000
	UUTCNoEntry         int64   = math.MinInt64
	FrequencyNoEntry    float64 = -1.0
	FrequencyVariable   float64 = -2.0
	StandardUTCOffsetNoEntry int32 = 0x7FFFFFFF
	CMPBlockStartUID    uint64  = 0x0123456789ABCDEF
)

// Record header/index fixed size (§3.4).
const (
	RecordHeaderSize = 24
	RecordIndexSize  = 24
)

// Time-series/video index fixed size (§3.5).
const (
	TimeSeriesIndexSize = 24
	VideoIndexSize      = 24
)

// Metadata file layout (§3.3): 16 KiB total = 1 KiB universal header +
// 15 KiB payload split into three fixed-offset sections.
const (
	MetadataFileSize     = 16 * 1024
	MetadataSection1Size = 1 * 1024
	MetadataSection2Size = 10 * 1024
	MetadataSection3Size = 4 * 1024

	MetadataSection1Offset = UniversalHeaderSize
	MetadataSection2Offset = MetadataSection1Offset + MetadataSection1Size
	MetadataSection3Offset = MetadataSection2Offset + MetadataSection2Size
)

// CMP block header fixed size (§3.6).
const (
	CMPBlockHeaderSize       = 56
	CMPBlockEncryptionStart  = 32
)
