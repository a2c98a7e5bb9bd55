package records

import (
	"fmt"
	"strconv"

	"github.com/MEDFormat/MEDC-sub005/errs"
	"github.com/MEDFormat/MEDC-sub005/internal/uid"
	"github.com/MEDFormat/MEDC-sub005/layout"
	"github.com/MEDFormat/MEDC-sub005/medstate"
)

// Record is one decoded record: its header plus a typed Payload when the
// type code is recognized, or nil when it is not (§7: unknown record
// types are a warning, the body is skipped rather than failing the
// stream).
type Record struct {
	Header  layout.RecordHeader
	Payload Payload
}

// Stream holds the decoded contents of one record-data/record-indices
// file pair (§3.4), plus the trailing Term sentinel index.
type Stream struct {
	Records []Record
	Indices []layout.RecordIndex
}

// ParseIndices decodes the body of a record-indices file (everything
// after its universal header) into a slice of RecordIndex entries,
// including the terminal "Term" sentinel.
func ParseIndices(body []byte) ([]layout.RecordIndex, error) {
	if len(body)%layout.RecordIndexSize != 0 {
		return nil, fmt.Errorf("%w: record index body not a multiple of %d bytes", errs.ErrInvalidHeaderSize, layout.RecordIndexSize)
	}

	count := len(body) / layout.RecordIndexSize
	out := make([]layout.RecordIndex, count)

	for i := 0; i < count; i++ {
		off := i * layout.RecordIndexSize
		if err := out[i].Parse(body[off : off+layout.RecordIndexSize]); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// ParseRecords decodes the body of a record-data file (everything after
// its universal header) into a Stream, applying filter (nil means no
// filtering) and dispatching each record's body by its type code per the
// §9 static-table convention. Unknown type codes are skipped (body not
// decoded into a Payload) and reported via behavior's warning channel,
// never failing the stream (§7).
func ParseRecords(body []byte, filter *Filter, behavior medstate.Behavior) (*Stream, error) {
	g, err := medstate.Get()
	if err != nil {
		return nil, err
	}

	s := &Stream{}

	off := 0
	for off < len(body) {
		if off+layout.RecordHeaderSize > len(body) {
			return nil, errs.ErrTruncated
		}

		var h layout.RecordHeader
		if err := h.Parse(body[off : off+layout.RecordHeaderSize]); err != nil {
			return nil, err
		}

		total := int(h.TotalBytes)
		if total < layout.RecordHeaderSize || off+total > len(body) {
			return nil, fmt.Errorf("%w: record at offset %d declares %d total bytes", errs.ErrInvalidFieldValue, off, total)
		}

		if h.Type == layout.RecordTypeTerm {
			break
		}

		if filter == nil || filter.Allows(h.Type) {
			bodyBytes := body[off+layout.RecordHeaderSize : off+total]

			payload := NewPayload(h.Type)
			if payload == nil {
				g.Warn(behavior, "records.ParseRecords", "unknown record type %q, skipping body", h.Type.String())
			} else if err := payload.Parse(bodyBytes); err != nil {
				return nil, fmt.Errorf("record type %q: %w", h.Type.String(), err)
			}

			s.Records = append(s.Records, Record{Header: h, Payload: payload})
		}

		off += layout.PaddedBodySize(total)
	}

	return s, nil
}

// BuildStream serializes records into the parallel data/index byte
// streams a record-data/record-indices file pair carries, appending the
// terminal Term sentinel index (offset == length of the data body,
// §3.4). baseOffset is the byte offset within the data file where the
// first record starts (i.e. layout.UniversalHeaderSize).
func BuildStream(recs []Record, baseOffset int64) (dataBody, indexBody []byte, err error) {
	offset := baseOffset

	for _, r := range recs {
		var payloadBytes []byte
		if r.Payload != nil {
			payloadBytes = r.Payload.Bytes()
		}

		padded := layout.PaddedBodySize(layout.RecordHeaderSize + len(payloadBytes))

		h := r.Header
		h.TotalBytes = uint16(layout.RecordHeaderSize + len(payloadBytes))

		rec := make([]byte, padded)
		copy(rec, h.Bytes())
		copy(rec[layout.RecordHeaderSize:], payloadBytes)

		dataBody = append(dataBody, rec...)

		idx := layout.RecordIndex{
			FileOffset:      offset,
			StartTime:       h.StartTime,
			Type:            h.Type,
			VersionMajor:    h.VersionMajor,
			VersionMinor:    h.VersionMinor,
			EncryptionLevel: h.EncryptionLevel,
		}
		indexBody = append(indexBody, idx.Bytes()...)

		offset += int64(padded)
	}

	term := layout.RecordIndex{
		FileOffset: offset,
		StartTime:  0,
		Type:       layout.RecordTypeTerm,
	}
	indexBody = append(indexBody, term.Bytes()...)

	return dataBody, indexBody, nil
}

// SgmtRecords extracts just the Sgmt payloads from a Stream, in the
// order they appear (the source maintains them sorted by StartTime at
// the file level; ParseRecords preserves file order).
func (s *Stream) SgmtRecords() []*Sgmt {
	var out []*Sgmt

	for _, r := range s.Records {
		if sg, ok := r.Payload.(*Sgmt); ok {
			out = append(out, sg)
		}
	}

	return out
}

// SgmtIndex is an O(1) lookup from segment number to its Sgmt record
// (§4.7 expansion, domain stack: github.com/cespare/xxhash/v2).
// hierarchy.ConditionTimeSlice does not use it; it scans its Sgmt slice
// directly.
type SgmtIndex map[uint64]*Sgmt

// BuildSgmtIndex indexes sgmts by segment number.
func BuildSgmtIndex(sgmts []*Sgmt) SgmtIndex {
	idx := make(SgmtIndex, len(sgmts))
	for _, sg := range sgmts {
		idx[uid.Of(strconv.Itoa(int(sg.SegmentNumber)))] = sg
	}

	return idx
}

// ByNumber returns the Sgmt record for segmentNumber, if indexed.
func (idx SgmtIndex) ByNumber(segmentNumber int) (*Sgmt, bool) {
	sg, ok := idx[uid.Of(strconv.Itoa(segmentNumber))]
	return sg, ok
}
