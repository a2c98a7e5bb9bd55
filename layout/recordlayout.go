package layout

import (
	"github.com/MEDFormat/MEDC-sub005/errs"
	"github.com/MEDFormat/MEDC-sub005/primitives"
)

// RecordHeader is the 24-byte fixed prefix of every record body in a
// record-data file (§3.4). The body, which follows immediately, is
// type-specific and padded to 16-byte alignment.
type RecordHeader struct {
	RecordCRC       uint32
	TotalBytes      uint16 // header + body, <= 65535
	StartTime       int64
	Type            TypeCode
	VersionMajor    uint8
	VersionMinor    uint8
	EncryptionLevel int8
}

const (
	rhOffsetCRC       = 0
	rhOffsetTotal     = 4
	rhOffsetStartTime = 6
	rhOffsetType      = 14
	rhOffsetVerMajor  = 18
	rhOffsetVerMinor  = 19
	rhOffsetEncLevel  = 20
	// bytes 21-23 reserved, pads to 24.
)

func (h *RecordHeader) Parse(data []byte) error {
	if len(data) < RecordHeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	e := primitives.Wire
	h.RecordCRC = e.Uint32(data[rhOffsetCRC:])
	h.TotalBytes = e.Uint16(data[rhOffsetTotal:])
	h.StartTime = int64(e.Uint64(data[rhOffsetStartTime:]))
	copy(h.Type[:], data[rhOffsetType:rhOffsetType+4])
	h.VersionMajor = data[rhOffsetVerMajor]
	h.VersionMinor = data[rhOffsetVerMinor]
	h.EncryptionLevel = int8(data[rhOffsetEncLevel])

	return nil
}

func (h *RecordHeader) Bytes() []byte {
	b := make([]byte, RecordHeaderSize)
	e := primitives.Wire
	e.PutUint32(b[rhOffsetCRC:], h.RecordCRC)
	e.PutUint16(b[rhOffsetTotal:], h.TotalBytes)
	e.PutUint64(b[rhOffsetStartTime:], uint64(h.StartTime))
	copy(b[rhOffsetType:rhOffsetType+4], h.Type[:])
	b[rhOffsetVerMajor] = h.VersionMajor
	b[rhOffsetVerMinor] = h.VersionMinor
	b[rhOffsetEncLevel] = uint8(h.EncryptionLevel)

	return b
}

// PaddedBodySize rounds size up to the next 16-byte boundary, matching
// the record body's required alignment (§3.4).
func PaddedBodySize(size int) int {
	return (size + 15) &^ 15
}

// RecordIndex is the 24-byte parallel index entry for one record: file
// offset, start time, and the same type/version/encryption fields, but no
// body (§3.4).
type RecordIndex struct {
	FileOffset      int64
	StartTime       int64
	Type            TypeCode
	VersionMajor    uint8
	VersionMinor    uint8
	EncryptionLevel int8
}

const (
	riOffsetOffset    = 0
	riOffsetStartTime = 8
	riOffsetType      = 16
	riOffsetVerMajor  = 20
	riOffsetVerMinor  = 21
	riOffsetEncLevel  = 22
	// byte 23 reserved, pads to 24.
)

func (r *RecordIndex) Parse(data []byte) error {
	if len(data) < RecordIndexSize {
		return errs.ErrInvalidHeaderSize
	}

	e := primitives.Wire
	r.FileOffset = int64(e.Uint64(data[riOffsetOffset:]))
	r.StartTime = int64(e.Uint64(data[riOffsetStartTime:]))
	copy(r.Type[:], data[riOffsetType:riOffsetType+4])
	r.VersionMajor = data[riOffsetVerMajor]
	r.VersionMinor = data[riOffsetVerMinor]
	r.EncryptionLevel = int8(data[riOffsetEncLevel])

	return nil
}

func (r *RecordIndex) Bytes() []byte {
	b := make([]byte, RecordIndexSize)
	e := primitives.Wire
	e.PutUint64(b[riOffsetOffset:], uint64(r.FileOffset))
	e.PutUint64(b[riOffsetStartTime:], uint64(r.StartTime))
	copy(b[riOffsetType:riOffsetType+4], r.Type[:])
	b[riOffsetVerMajor] = r.VersionMajor
	b[riOffsetVerMinor] = r.VersionMinor
	b[riOffsetEncLevel] = uint8(r.EncryptionLevel)

	return b
}

// IsTerminal reports whether this index is the stream-terminating
// sentinel ("Term", offset == data file length).
func (r *RecordIndex) IsTerminal() bool {
	return r.Type == RecordTypeTerm
}
