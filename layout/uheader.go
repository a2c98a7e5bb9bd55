package layout

import (
	"github.com/MEDFormat/MEDC-sub005/errs"
	"github.com/MEDFormat/MEDC-sub005/primitives"
)

// UIDSet is the five UIDs every universal header carries: session,
// channel, segment, file, and provenance (§3.2).
type UIDSet struct {
	Session    uint64
	Channel    uint64
	Segment    uint64
	File       uint64
	Provenance uint64
}

// PasswordValidationFields are the three AES-encrypted sentinel blocks
// used to confirm which password level a reader supplied (§4.3): a
// successful decrypt of field N confirms password level N.
type PasswordValidationFields struct {
	Level1 [16]byte
	Level2 [16]byte
	Level3 [16]byte
}

// UniversalHeader is the fixed 1024-byte structure that prefixes every
// MED file (§3.2).
type UniversalHeader struct {
	HeaderCRC     uint32
	BodyCRC       uint32
	FileEndTime   int64
	NumberEntries uint64
	MaxEntrySize  uint32
	SegmentNumber int32
	TypeCode      TypeCode
	VersionMajor  uint8
	VersionMinor  uint8
	ByteOrderBE   bool

	SessionStart int64
	FileStart    int64

	SessionName string
	ChannelName string
	AnonymizedID string

	UIDs UIDSet

	PasswordValidation PasswordValidationFields
}

// NewUniversalHeader builds a header with the format's fixed version
// identifiers and little-endian byte order already set.
func NewUniversalHeader(typeCode TypeCode) *UniversalHeader {
	return &UniversalHeader{
		TypeCode:     typeCode,
		VersionMajor: FormatVersionMajor,
		VersionMinor: FormatVersionMinor,
	}
}

// Parse decodes a 1024-byte universal header from data. It does not
// validate CRCs; use VerifyHeaderCRC/VerifyBodyCRC for that.
func (h *UniversalHeader) Parse(data []byte) error {
	if len(data) < UniversalHeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	e := primitives.Wire

	h.HeaderCRC = e.Uint32(data[UHOffsetHeaderCRC:])
	h.BodyCRC = e.Uint32(data[UHOffsetBodyCRC:])
	h.FileEndTime = int64(e.Uint64(data[UHOffsetFileEndTime:]))
	h.NumberEntries = e.Uint64(data[UHOffsetNumberEntries:])
	h.MaxEntrySize = e.Uint32(data[UHOffsetMaxEntrySize:])
	h.SegmentNumber = int32(e.Uint32(data[UHOffsetSegmentNumber:]))
	copy(h.TypeCode[:], data[UHOffsetTypeCode:UHOffsetTypeCode+4])
	h.VersionMajor = data[UHOffsetVersionMajor]
	h.VersionMinor = data[UHOffsetVersionMinor]
	h.ByteOrderBE = data[UHOffsetByteOrder] != 0
	h.SessionStart = int64(e.Uint64(data[UHOffsetSessionStart:]))
	h.FileStart = int64(e.Uint64(data[UHOffsetFileStart:]))
	h.SessionName = primitives.ParseFixedUTF8Field(data[UHOffsetSessionName : UHOffsetSessionName+baseNameSize])
	h.ChannelName = primitives.ParseFixedUTF8Field(data[UHOffsetChannelName : UHOffsetChannelName+baseNameSize])
	h.AnonymizedID = primitives.ParseFixedUTF8Field(data[UHOffsetAnonymizedID : UHOffsetAnonymizedID+anonymizedIDSize])

	h.UIDs.Session = e.Uint64(data[UHOffsetSessionUID:])
	h.UIDs.Channel = e.Uint64(data[UHOffsetChannelUID:])
	h.UIDs.Segment = e.Uint64(data[UHOffsetSegmentUID:])
	h.UIDs.File = e.Uint64(data[UHOffsetFileUID:])
	h.UIDs.Provenance = e.Uint64(data[UHOffsetProvenanceUID:])

	copy(h.PasswordValidation.Level1[:], data[UHOffsetPasswordValL1:UHOffsetPasswordValL1+16])
	copy(h.PasswordValidation.Level2[:], data[UHOffsetPasswordValL2:UHOffsetPasswordValL2+16])
	copy(h.PasswordValidation.Level3[:], data[UHOffsetPasswordValL3:UHOffsetPasswordValL3+16])

	if h.TypeCode.AsUint32() == 0 {
		return errs.ErrBadMagic
	}

	return nil
}

// Bytes serializes the header into a fresh 1024-byte slice. HeaderCRC and
// BodyCRC are written as-is; callers compute them via FinalizeCRCs before
// calling Bytes for an on-disk write.
func (h *UniversalHeader) Bytes() []byte {
	b := make([]byte, UniversalHeaderSize)
	e := primitives.Wire

	e.PutUint32(b[UHOffsetHeaderCRC:], h.HeaderCRC)
	e.PutUint32(b[UHOffsetBodyCRC:], h.BodyCRC)
	e.PutUint64(b[UHOffsetFileEndTime:], uint64(h.FileEndTime))
	e.PutUint64(b[UHOffsetNumberEntries:], h.NumberEntries)
	e.PutUint32(b[UHOffsetMaxEntrySize:], h.MaxEntrySize)
	e.PutUint32(b[UHOffsetSegmentNumber:], uint32(h.SegmentNumber))
	copy(b[UHOffsetTypeCode:UHOffsetTypeCode+4], h.TypeCode[:])
	b[UHOffsetVersionMajor] = h.VersionMajor
	b[UHOffsetVersionMinor] = h.VersionMinor
	if h.ByteOrderBE {
		b[UHOffsetByteOrder] = 1
	}
	e.PutUint64(b[UHOffsetSessionStart:], uint64(h.SessionStart))
	e.PutUint64(b[UHOffsetFileStart:], uint64(h.FileStart))
	copy(b[UHOffsetSessionName:UHOffsetSessionName+baseNameSize], primitives.FixedUTF8Field(h.SessionName, baseNameSize))
	copy(b[UHOffsetChannelName:UHOffsetChannelName+baseNameSize], primitives.FixedUTF8Field(h.ChannelName, baseNameSize))
	copy(b[UHOffsetAnonymizedID:UHOffsetAnonymizedID+anonymizedIDSize], primitives.FixedUTF8Field(h.AnonymizedID, anonymizedIDSize))

	e.PutUint64(b[UHOffsetSessionUID:], h.UIDs.Session)
	e.PutUint64(b[UHOffsetChannelUID:], h.UIDs.Channel)
	e.PutUint64(b[UHOffsetSegmentUID:], h.UIDs.Segment)
	e.PutUint64(b[UHOffsetFileUID:], h.UIDs.File)
	e.PutUint64(b[UHOffsetProvenanceUID:], h.UIDs.Provenance)

	copy(b[UHOffsetPasswordValL1:UHOffsetPasswordValL1+16], h.PasswordValidation.Level1[:])
	copy(b[UHOffsetPasswordValL2:UHOffsetPasswordValL2+16], h.PasswordValidation.Level2[:])
	copy(b[UHOffsetPasswordValL3:UHOffsetPasswordValL3+16], h.PasswordValidation.Level3[:])

	return b
}

// FinalizeCRCs computes and sets HeaderCRC (covering bytes [4:1024) of the
// serialized header, i.e. all header bytes after the CRC field itself)
// and BodyCRC (covering body, everything after byte 1024), per §3.2.
func (h *UniversalHeader) FinalizeCRCs(body []byte) []byte {
	b := h.Bytes()

	h.BodyCRC = primitives.CRC32(body)
	e := primitives.Wire
	e.PutUint32(b[UHOffsetBodyCRC:], h.BodyCRC)

	h.HeaderCRC = primitives.CRC32(b[4:UniversalHeaderSize])
	e.PutUint32(b[UHOffsetHeaderCRC:], h.HeaderCRC)

	return append(b, body...)
}

// VerifyHeaderCRC recomputes the header CRC over raw (which must be at
// least 1024 bytes) and compares it to the stored value.
func VerifyHeaderCRC(raw []byte) error {
	if len(raw) < UniversalHeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	stored := primitives.Wire.Uint32(raw[UHOffsetHeaderCRC:])
	got := primitives.CRC32(raw[4:UniversalHeaderSize])

	if stored != got {
		return errs.ErrHeaderCRCMismatch
	}

	return nil
}

// VerifyBodyCRC recomputes the body CRC over raw[1024:] and compares it
// to the value stored in the header.
func VerifyBodyCRC(raw []byte) error {
	if len(raw) < UniversalHeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	stored := primitives.Wire.Uint32(raw[UHOffsetBodyCRC:])
	got := primitives.CRC32(raw[UniversalHeaderSize:])

	if stored != got {
		return errs.ErrBodyCRCMismatch
	}

	return nil
}
