// Package hierarchy implements the MED hierarchical open/read layer
// (spec §4.7): locating a session on disk, opening its channels and
// segments, resolving a time slice into segment/sample ranges via Sgmt
// records, and building per-channel contigua.
package hierarchy

import (
	"sort"

	"github.com/MEDFormat/MEDC-sub005/errs"
	"github.com/MEDFormat/MEDC-sub005/layout"
	"github.com/MEDFormat/MEDC-sub005/records"
	"github.com/MEDFormat/MEDC-sub005/timeutil"
)

// NoSegment marks an unset segment-number coordinate in a TimeSlice.
const NoSegment = -1

// TimeSlice carries a request expressed in any combination of time,
// sample-number, and segment-number coordinates (§4.7). Any coordinate
// may be unset (its sentinel value).
type TimeSlice struct {
	StartTime, EndTime     timeutil.UUTC
	StartSample, EndSample uint64
	StartSegment, EndSegment int
}

// NewUnsetTimeSlice returns a TimeSlice with every coordinate unset.
func NewUnsetTimeSlice() TimeSlice {
	return TimeSlice{
		StartTime: timeutil.NoEntry, EndTime: timeutil.NoEntry,
		StartSample: layout.SampleNumberNoEntry, EndSample: layout.SampleNumberNoEntry,
		StartSegment: NoSegment, EndSegment: NoSegment,
	}
}

// Empty reports whether the slice is empty per §8: both segment
// coordinates are resolved and start_segment > end_segment.
func (s TimeSlice) Empty() bool {
	return s.StartSegment != NoSegment && s.EndSegment != NoSegment && s.StartSegment > s.EndSegment
}

func timeUnset(t timeutil.UUTC) bool    { return t == timeutil.NoEntry }
func sampleUnset(n uint64) bool         { return n == layout.SampleNumberNoEntry }
func segmentUnset(seg int) bool         { return seg == NoSegment }

// ConditionTimeSlice fills in whichever of time/sample/segment
// coordinates are unset on each side of slice, using the session's Sgmt
// records as the fast path (§4.7: "given any two populated coordinates,
// the other two are derived using ... Sgmt records (fast path, O(log N))
// or by opening and scanning segment metadata (fallback)"). sgmts must be
// sorted by StartTime ascending. With no Sgmt records it returns
// errs.ErrAmbiguousTimeSlice; no per-segment-metadata scan fallback is
// implemented in this package.
func ConditionTimeSlice(sgmts []*records.Sgmt, slice *TimeSlice) error {
	if len(sgmts) == 0 {
		return errs.ErrAmbiguousTimeSlice
	}

	if err := resolveBoundary(sgmts, slice, true); err != nil {
		return err
	}

	if err := resolveBoundary(sgmts, slice, false); err != nil {
		return err
	}

	return nil
}

// resolveBoundary fills in the start (isStart=true) or end boundary of
// slice from whichever coordinate is already populated, defaulting to
// the session's first/last segment when none are.
func resolveBoundary(sgmts []*records.Sgmt, slice *TimeSlice, isStart bool) error {
	segment, time, sample := boundaryFields(slice, isStart)

	switch {
	case !segmentUnset(*segment):
		seg := findSegmentByNumber(sgmts, *segment)
		if seg == nil {
			return errs.ErrEmptyTimeSlice
		}

		fillFromSegment(seg, time, sample, isStart)
	case !timeUnset(*time):
		seg := findSegmentByTime(sgmts, *time)
		if seg == nil {
			return errs.ErrEmptyTimeSlice
		}

		*segment = int(seg.SegmentNumber)
		*sample = sampleForTime(seg, *time)
	case !sampleUnset(*sample):
		seg := findSegmentBySample(sgmts, *sample)
		if seg == nil {
			return errs.ErrEmptyTimeSlice
		}

		*segment = int(seg.SegmentNumber)
		*time = timeForSample(seg, *sample)
	default:
		var seg *records.Sgmt
		if isStart {
			seg = sgmts[0]
		} else {
			seg = sgmts[len(sgmts)-1]
		}

		*segment = int(seg.SegmentNumber)
		fillFromSegment(seg, time, sample, isStart)
	}

	return nil
}

func boundaryFields(slice *TimeSlice, isStart bool) (segment *int, time *timeutil.UUTC, sample *uint64) {
	if isStart {
		return &slice.StartSegment, &slice.StartTime, &slice.StartSample
	}

	return &slice.EndSegment, &slice.EndTime, &slice.EndSample
}

func fillFromSegment(seg *records.Sgmt, time *timeutil.UUTC, sample *uint64, isStart bool) {
	if isStart {
		*time = timeutil.UUTC(seg.StartTime)
		*sample = seg.StartSample
	} else {
		*time = timeutil.UUTC(seg.EndTime)
		*sample = seg.EndSample
	}
}

// sampleForTime interpolates a session-relative sample number for t
// within seg, using seg's sampling frequency (§4.7 "Sample<->time
// conversion uses that channel's sampling frequency").
func sampleForTime(seg *records.Sgmt, t timeutil.UUTC) uint64 {
	if seg.SamplingFrequency <= 0 {
		return seg.StartSample
	}

	deltaUs := float64(int64(t) - seg.StartTime)
	offset := deltaUs * seg.SamplingFrequency / 1e6

	return seg.StartSample + uint64(roundHalfAwayFromZero(offset))
}

// timeForSample is the inverse of sampleForTime.
func timeForSample(seg *records.Sgmt, sample uint64) timeutil.UUTC {
	if seg.SamplingFrequency <= 0 {
		return timeutil.UUTC(seg.StartTime)
	}

	deltaSamples := float64(sample - seg.StartSample)
	offsetUs := deltaSamples / seg.SamplingFrequency * 1e6

	return timeutil.UUTC(seg.StartTime + int64(roundHalfAwayFromZero(offsetUs)))
}

func roundHalfAwayFromZero(v float64) float64 {
	if v >= 0 {
		return float64(int64(v + 0.5))
	}

	return float64(int64(v - 0.5))
}

func findSegmentByNumber(sgmts []*records.Sgmt, number int) *records.Sgmt {
	for _, s := range sgmts {
		if int(s.SegmentNumber) == number {
			return s
		}
	}

	return nil
}

// findSegmentByTime returns the segment whose [StartTime, EndTime] span
// contains t. If t falls in a gap it returns the segment before the gap;
// if t precedes every segment it returns the first one.
func findSegmentByTime(sgmts []*records.Sgmt, t timeutil.UUTC) *records.Sgmt {
	i := sort.Search(len(sgmts), func(i int) bool { return sgmts[i].StartTime > int64(t) })
	if i == 0 {
		return sgmts[0]
	}

	return sgmts[i-1]
}

// findSegmentBySample returns the segment whose [StartSample, EndSample]
// span contains n.
func findSegmentBySample(sgmts []*records.Sgmt, n uint64) *records.Sgmt {
	i := sort.Search(len(sgmts), func(i int) bool { return sgmts[i].StartSample > n })
	if i == 0 {
		return sgmts[0]
	}

	return sgmts[i-1]
}
