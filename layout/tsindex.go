package layout

import (
	"github.com/MEDFormat/MEDC-sub005/errs"
	"github.com/MEDFormat/MEDC-sub005/primitives"
)

// TimeSeriesIndex is one 24-byte entry in a .tidx file: the CMP block's
// file offset (negative marks a discontinuity at this block), start
// time, and start sample number (§3.5).
type TimeSeriesIndex struct {
	FileOffset  int64 // negative => discontinuity
	StartTime   int64
	StartSample uint64
}

const (
	tsiOffsetFileOffset = 0
	tsiOffsetStartTime  = 8
	tsiOffsetStartSample = 16
)

func (i *TimeSeriesIndex) Discontinuous() bool { return i.FileOffset < 0 }

// AbsoluteOffset returns the actual byte offset, stripping the sign used
// to flag discontinuities.
func (i *TimeSeriesIndex) AbsoluteOffset() int64 {
	if i.FileOffset < 0 {
		return -i.FileOffset
	}

	return i.FileOffset
}

func (i *TimeSeriesIndex) Parse(data []byte) error {
	if len(data) < TimeSeriesIndexSize {
		return errs.ErrInvalidHeaderSize
	}

	e := primitives.Wire
	i.FileOffset = int64(e.Uint64(data[tsiOffsetFileOffset:]))
	i.StartTime = int64(e.Uint64(data[tsiOffsetStartTime:]))
	i.StartSample = e.Uint64(data[tsiOffsetStartSample:])

	return nil
}

func (i *TimeSeriesIndex) Bytes() []byte {
	b := make([]byte, TimeSeriesIndexSize)
	e := primitives.Wire
	e.PutUint64(b[tsiOffsetFileOffset:], uint64(i.FileOffset))
	e.PutUint64(b[tsiOffsetStartTime:], uint64(i.StartTime))
	e.PutUint64(b[tsiOffsetStartSample:], i.StartSample)

	return b
}
