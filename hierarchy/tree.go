package hierarchy

import (
	"github.com/MEDFormat/MEDC-sub005/errs"
	"github.com/MEDFormat/MEDC-sub005/fps"
	"github.com/MEDFormat/MEDC-sub005/internal/uid"
	"github.com/MEDFormat/MEDC-sub005/layout"
	"github.com/MEDFormat/MEDC-sub005/records"
	"github.com/MEDFormat/MEDC-sub005/security"
)

// LevelFlags is the 64-bit level-header flags word (§4.7). Open consults
// only IncludeTimeSeries and IncludeVideo, which select the channel types
// to open. MmapRecords, MmapData and GenerateEphemeralMetadata are defined
// but Open does not read them: it memory-maps nothing and generates no
// ephemeral metadata. There are no read-depth flags.
type LevelFlags uint64

const (
	IncludeTimeSeries LevelFlags = 1 << iota
	IncludeVideo
	MmapRecords
	MmapData
	GenerateEphemeralMetadata
)

// DefaultLevelFlags opens both channel types; no other flag is set.
func DefaultLevelFlags() LevelFlags {
	return IncludeTimeSeries | IncludeVideo
}

func (f LevelFlags) Has(flag LevelFlags) bool { return f&flag != 0 }

// OpenOptions configures Open (§4.7): which level-header flags to apply,
// the password hierarchy to decrypt with, and which channel to treat as
// the reference channel for sample<->time conversion.
type OpenOptions struct {
	Flags            LevelFlags
	Passwords        security.Passwords
	ReferenceChannel string
	ReadMode         fps.ReadMode
}

// Session is the root of the opened hierarchy (§4.7, §9): session
// metadata, its channels, and any session-level/segmented-session
// records. Channels and Segments are stored by value in slices rather
// than as a pointer graph with upward parent links, per §9's "use
// parent-indices into a flat arena ... avoid raw back-pointers that
// outlive their parents".
type Session struct {
	Path         string
	Name         string
	UID          uint64
	StartTime    int64

	Channels     []Channel
	Records      *records.Stream // session-level records, if present
	SegmentRecords *records.Stream // segmented-session records, if present

	// ReferenceChannel indexes Channels; -1 if none is set. Sample-number
	// coordinates in a TimeSlice are only meaningful relative to this
	// channel (§4.7).
	ReferenceChannel int

	// segmentCache maps uid.OfSegment(channelPath, number) to a (channel
	// index, segment index) pair, built by Open so repeated lookups by
	// path don't rescan Channels/Segments (§4.7 expansion, domain stack:
	// github.com/cespare/xxhash/v2, grounded on mebo/internal/hash.ID).
	segmentCache map[uint64][2]int
}

// indexSegmentCache (re)builds the session's segment lookup cache after
// Channels is fully populated.
func (s *Session) indexSegmentCache() {
	s.segmentCache = make(map[uint64][2]int)

	for ci := range s.Channels {
		for si := range s.Channels[ci].Segments {
			key := uid.OfSegment(s.Channels[ci].Path, s.Channels[ci].Segments[si].Number)
			s.segmentCache[key] = [2]int{ci, si}
		}
	}
}

// FindSegment looks up a segment by its channel path and number in O(1)
// via the xxHash64-keyed cache built by Open, instead of a linear scan.
func (s *Session) FindSegment(channelPath string, number int) (*Segment, bool) {
	if s.segmentCache == nil {
		return nil, false
	}

	idx, ok := s.segmentCache[uid.OfSegment(channelPath, number)]
	if !ok {
		return nil, false
	}

	return &s.Channels[idx[0]].Segments[idx[1]], true
}

// Channel is one time-series or video channel directory under a session
// (§3.7).
type Channel struct {
	Name     string
	Path     string
	Kind     layout.ChannelKind
	Segments []Segment
	Records  *records.Stream // channel-level records, if present
}

// Segment is one `<channel>_s<NNNN>.tisd` directory: a maximal run of
// continuously acquired data with its own universal header (§3.7,
// Glossary).
type Segment struct {
	Number int
	Path   string

	MetaPath  string
	DataPath  string
	IndexPath string

	RecordsDataPath  string // "" if absent — optional at every level
	RecordsIndexPath string

	// Meta is populated by Open (metadata is always read, per §4.4 "full
	// read": typical for small metadata files). Data/TimeSeriesIndex FPSs
	// are opened lazily by OpenData/OpenIndices.
	Meta    *fps.FPS
	Records *records.Stream
}

// Sgmt returns this session's Sgmt records sorted by StartTime, the fast
// path ConditionTimeSlice uses (§4.7 step 2).
func (s *Session) Sgmt() []*records.Sgmt {
	if s.Records == nil {
		return nil
	}

	return s.Records.SgmtRecords()
}

// ReferenceChannelOrErr resolves the configured reference channel,
// returning an error if none was set (§4.7, errs.ErrNoReferenceChannel).
func (s *Session) ReferenceChannelOrErr() (*Channel, error) {
	if s.ReferenceChannel < 0 || s.ReferenceChannel >= len(s.Channels) {
		return nil, errs.ErrNoReferenceChannel
	}

	return &s.Channels[s.ReferenceChannel], nil
}
