package layout

import (
	"github.com/MEDFormat/MEDC-sub005/errs"
	"github.com/MEDFormat/MEDC-sub005/primitives"
)

// VideoIndex is one 24-byte entry in a .vidx file: the clip's file
// offset (negative marks a discontinuity), start time, start frame
// number, and video file number (§3.5).
type VideoIndex struct {
	FileOffset    int64 // negative => discontinuity
	StartTime     int64
	StartFrame    uint32
	VideoFileNumber uint32
}

const (
	viOffsetFileOffset = 0
	viOffsetStartTime  = 8
	viOffsetStartFrame = 16
	viOffsetFileNumber = 20
)

func (i *VideoIndex) Discontinuous() bool { return i.FileOffset < 0 }

func (i *VideoIndex) AbsoluteOffset() int64 {
	if i.FileOffset < 0 {
		return -i.FileOffset
	}

	return i.FileOffset
}

func (i *VideoIndex) Parse(data []byte) error {
	if len(data) < VideoIndexSize {
		return errs.ErrInvalidHeaderSize
	}

	e := primitives.Wire
	i.FileOffset = int64(e.Uint64(data[viOffsetFileOffset:]))
	i.StartTime = int64(e.Uint64(data[viOffsetStartTime:]))
	i.StartFrame = e.Uint32(data[viOffsetStartFrame:])
	i.VideoFileNumber = e.Uint32(data[viOffsetFileNumber:])

	return nil
}

func (i *VideoIndex) Bytes() []byte {
	b := make([]byte, VideoIndexSize)
	e := primitives.Wire
	e.PutUint64(b[viOffsetFileOffset:], uint64(i.FileOffset))
	e.PutUint64(b[viOffsetStartTime:], uint64(i.StartTime))
	e.PutUint32(b[viOffsetStartFrame:], i.StartFrame)
	e.PutUint32(b[viOffsetFileNumber:], i.VideoFileNumber)

	return b
}
