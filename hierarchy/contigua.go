package hierarchy

import "github.com/MEDFormat/MEDC-sub005/layout"

// IndexedSample pairs one time-series index entry with the segment
// number it belongs to, the input BuildContigua walks.
type IndexedSample struct {
	Index   layout.TimeSeriesIndex
	Segment int
}

// Contiguon is a computed maximal contiguous span across one channel's
// blocks/segments; boundaries are discontinuities (§4.7, Glossary).
//
// The end coordinates approximate the last continuous block's coverage
// by the *start* of that block (there is no block-length information at
// this layer — CMP block sample counts live in the data file, not the
// index). This is a documented, implementation-defined approximation
// (see DESIGN.md); callers needing an exact end sample/time should add
// the reference channel's sampling-frequency-derived block duration to
// the last block's start.
type Contiguon struct {
	StartTime, EndTime         int64
	StartSample, EndSample     uint64
	StartSegment, EndSegment   int
}

// BuildContigua coalesces entries (in file order, spanning one or more
// segments) into maximal contiguous spans. A run breaks whenever an
// entry's FileOffset carries the discontinuity sign (§3.6, §4.7).
func BuildContigua(entries []IndexedSample) []Contiguon {
	var out []Contiguon

	var current *Contiguon

	for _, e := range entries {
		if e.Index.Discontinuous() || current == nil {
			if current != nil {
				out = append(out, *current)
			}

			current = &Contiguon{
				StartTime:    e.Index.StartTime,
				StartSample:  e.Index.StartSample,
				StartSegment: e.Segment,
				EndTime:      e.Index.StartTime,
				EndSample:    e.Index.StartSample,
				EndSegment:   e.Segment,
			}

			continue
		}

		current.EndTime = e.Index.StartTime
		current.EndSample = e.Index.StartSample
		current.EndSegment = e.Segment
	}

	if current != nil {
		out = append(out, *current)
	}

	return out
}
