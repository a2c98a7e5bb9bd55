package hierarchy

import (
	"github.com/MEDFormat/MEDC-sub005/errs"
	"github.com/MEDFormat/MEDC-sub005/fps"
	"github.com/MEDFormat/MEDC-sub005/layout"
	"github.com/MEDFormat/MEDC-sub005/medstate"
)

// OpenData lazily opens this segment's time-series data file (.tdat)
// under readMode, per §4.4's three read modes. Segments without a data
// path, which includes video segments, return errs.ErrSegmentEmpty.
// Callers must Close the returned FPS.
func (s *Segment) OpenData(readMode fps.ReadMode, behavior medstate.Behavior) (*fps.FPS, error) {
	if s.DataPath == "" {
		return nil, errs.ErrSegmentEmpty
	}

	d := fps.DefaultDirectives()
	d.ReadMode = readMode

	return fps.Open(s.DataPath, d, behavior)
}

// OpenIndices lazily opens and fully decodes this segment's time-series
// index file into a slice of layout.TimeSeriesIndex entries.
func (s *Segment) OpenIndices(behavior medstate.Behavior) ([]layout.TimeSeriesIndex, error) {
	if s.IndexPath == "" {
		return nil, errs.ErrSegmentEmpty
	}

	h, err := fps.Open(s.IndexPath, fpsFullReadDirectives(), behavior)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	size, err := h.Size()
	if err != nil {
		return nil, err
	}

	raw, err := h.ReadSlice(0, int(size))
	if err != nil {
		return nil, err
	}

	body := raw[layout.UniversalHeaderSize:]
	if len(body)%layout.TimeSeriesIndexSize != 0 {
		return nil, errs.ErrInvalidHeaderSize
	}

	count := len(body) / layout.TimeSeriesIndexSize
	out := make([]layout.TimeSeriesIndex, count)

	for i := 0; i < count; i++ {
		off := i * layout.TimeSeriesIndexSize
		if err := out[i].Parse(body[off : off+layout.TimeSeriesIndexSize]); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// Close releases this segment's open metadata FPS, if any.
func (s *Segment) Close() error {
	if s.Meta == nil {
		return nil
	}

	err := s.Meta.Close()
	s.Meta = nil

	return err
}

// Close releases every segment's metadata FPS across every channel of
// the session (§5: "callers abort by closing the FPS").
func (sess *Session) Close() error {
	var firstErr error

	for ci := range sess.Channels {
		for si := range sess.Channels[ci].Segments {
			if err := sess.Channels[ci].Segments[si].Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

// ChannelContigua builds the Contiguon spans for channel by opening each
// of its segments' time-series indices in order and coalescing them
// (§4.7 step 5).
func ChannelContigua(channel *Channel, behavior medstate.Behavior) ([]Contiguon, error) {
	var entries []IndexedSample

	for _, seg := range channel.Segments {
		indices, err := seg.OpenIndices(behavior)
		if err != nil {
			if err == errs.ErrSegmentEmpty {
				continue
			}

			return nil, err
		}

		for _, idx := range indices {
			entries = append(entries, IndexedSample{Index: idx, Segment: seg.Number})
		}
	}

	return BuildContigua(entries), nil
}
