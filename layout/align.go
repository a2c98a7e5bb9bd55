package layout

import (
	"fmt"

	"github.com/MEDFormat/MEDC-sub005/errs"
)

// fieldSpan names one field's expected [offset, offset+size) span within
// a fixed-size on-disk struct, the unit VerifyLayout checks.
type fieldSpan struct {
	structName string
	field      string
	offset     int
	size       int
}

// universalHeaderSpans enumerates every named field of the universal
// header in declaration order (§3.2). VerifyLayout walks this list and
// confirms each span starts exactly where the previous one ended and
// that the whole struct totals UniversalHeaderSize — the Go-idiomatic
// equivalent of the source's unsafe.Offsetof comparison against
// *_OFFSET_m11 constants (§4.9): here the byte-offset constants in
// const.go ARE the authoritative layout, so VerifyLayout instead proves
// they are internally consistent (contiguous, non-overlapping, summing
// to the declared fixed size) rather than checking them against a
// compiler-derived struct layout that does not exist for packed,
// variable-type on-disk fields in Go.
var universalHeaderSpans = []fieldSpan{
	{"UniversalHeader", "HeaderCRC", UHOffsetHeaderCRC, 4},
	{"UniversalHeader", "BodyCRC", UHOffsetBodyCRC, 4},
	{"UniversalHeader", "FileEndTime", UHOffsetFileEndTime, 8},
	{"UniversalHeader", "NumberEntries", UHOffsetNumberEntries, 8},
	{"UniversalHeader", "MaxEntrySize", UHOffsetMaxEntrySize, 4},
	{"UniversalHeader", "SegmentNumber", UHOffsetSegmentNumber, 4},
	{"UniversalHeader", "TypeCode", UHOffsetTypeCode, 4},
	{"UniversalHeader", "VersionMajor", UHOffsetVersionMajor, 1},
	{"UniversalHeader", "VersionMinor", UHOffsetVersionMinor, 1},
	{"UniversalHeader", "ByteOrder", UHOffsetByteOrder, 1},
	{"UniversalHeader", "pad", UHOffsetByteOrder + 1, 1},
	{"UniversalHeader", "SessionStart", UHOffsetSessionStart, 8},
	{"UniversalHeader", "FileStart", UHOffsetFileStart, 8},
	{"UniversalHeader", "SessionName", UHOffsetSessionName, baseNameSize},
	{"UniversalHeader", "ChannelName", UHOffsetChannelName, baseNameSize},
	{"UniversalHeader", "AnonymizedID", UHOffsetAnonymizedID, anonymizedIDSize},
	{"UniversalHeader", "SessionUID", UHOffsetSessionUID, 8},
	{"UniversalHeader", "ChannelUID", UHOffsetChannelUID, 8},
	{"UniversalHeader", "SegmentUID", UHOffsetSegmentUID, 8},
	{"UniversalHeader", "FileUID", UHOffsetFileUID, 8},
	{"UniversalHeader", "ProvenanceUID", UHOffsetProvenanceUID, 8},
	{"UniversalHeader", "PasswordValidationL1", UHOffsetPasswordValL1, 16},
	{"UniversalHeader", "PasswordValidationL2", UHOffsetPasswordValL2, 16},
	{"UniversalHeader", "PasswordValidationL3", UHOffsetPasswordValL3, 16},
	{"UniversalHeader", "Reserved", UHOffsetReserved, UniversalHeaderSize - UHOffsetReserved},
}

var cmpBlockHeaderSpans = []fieldSpan{
	{"CMPBlockHeader", "StartUID", cbOffsetStartUID, 8},
	{"CMPBlockHeader", "BlockCRC", cbOffsetBlockCRC, 4},
	{"CMPBlockHeader", "BlockFlags", cbOffsetBlockFlags, 4},
	{"CMPBlockHeader", "StartTime", cbOffsetStartTime, 8},
	{"CMPBlockHeader", "AcquisitionChannel", cbOffsetAcqChannel, 4},
	{"CMPBlockHeader", "TotalBlockBytes", cbOffsetTotalBytes, 4},
	{"CMPBlockHeader", "EncryptionStartOffset", cbOffsetEncStart, 4},
	{"CMPBlockHeader", "SampleCount", cbOffsetSampleCnt, 2},
	{"CMPBlockHeader", "RecordCount", cbOffsetRecordCnt, 2},
	{"CMPBlockHeader", "RecordRegionBytes", cbOffsetRecRegion, 2},
	{"CMPBlockHeader", "ParameterFlags", cbOffsetParamFlags, 2},
	{"CMPBlockHeader", "ParameterRegionBytes", cbOffsetParamRegion, 2},
	{"CMPBlockHeader", "ProtectedRegionBytes", cbOffsetProtRegion, 2},
	{"CMPBlockHeader", "DiscretionaryRegionBytes", cbOffsetDiscRegion, 2},
	{"CMPBlockHeader", "ModelRegionBytes", cbOffsetModelRegion, 2},
	{"CMPBlockHeader", "TotalHeaderBytes", cbOffsetTotalHeader, 2},
	{"CMPBlockHeader", "Reserved", cbOffsetTotalHeader + 2, CMPBlockHeaderSize - (cbOffsetTotalHeader + 2)},
}

func verifySpans(spans []fieldSpan, totalSize int) error {
	next := 0
	for _, s := range spans {
		if s.offset != next {
			return fmt.Errorf("%w: %s.%s expected at offset %d, spans say %d",
				errs.ErrAlignmentMismatch, s.structName, s.field, next, s.offset)
		}

		next = s.offset + s.size
	}

	if next != totalSize {
		return fmt.Errorf("%w: %s total size %d does not match declared size %d",
			errs.ErrAlignmentMismatch, spans[0].structName, next, totalSize)
	}

	return nil
}

// VerifyLayout runs the alignment self-check over every fixed on-disk
// layout this package defines (§4.9). A single mismatch is fatal to
// initialization, matching the source's behavior; callers normally run
// this once via medstate.Initialize.
func VerifyLayout() error {
	if err := verifySpans(universalHeaderSpans, UniversalHeaderSize); err != nil {
		return err
	}

	if err := verifySpans(cmpBlockHeaderSpans, CMPBlockHeaderSize); err != nil {
		return err
	}

	if RecordHeaderSize != 24 || RecordIndexSize != 24 || TimeSeriesIndexSize != 24 || VideoIndexSize != 24 {
		return fmt.Errorf("%w: fixed 24-byte record/index structs drifted", errs.ErrAlignmentMismatch)
	}

	if MetadataSection1Offset+MetadataSection1Size+MetadataSection2Size+MetadataSection3Size != MetadataFileSize {
		return fmt.Errorf("%w: metadata section sizes do not sum to the 16KiB file size", errs.ErrAlignmentMismatch)
	}

	return nil
}
