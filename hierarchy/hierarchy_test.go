package hierarchy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MEDFormat/MEDC-sub005/layout"
	"github.com/MEDFormat/MEDC-sub005/medstate"
	"github.com/MEDFormat/MEDC-sub005/records"
	"github.com/MEDFormat/MEDC-sub005/timeutil"
)

func buildTenSegmentSgmts() []*records.Sgmt {
	var out []*records.Sgmt

	for i := 0; i < 10; i++ {
		start := int64(i) * 60_000_000
		out = append(out, &records.Sgmt{
			StartTime:         start,
			EndTime:           start + 60_000_000,
			StartSample:       uint64(i) * 60_000,
			EndSample:         uint64(i+1)*60_000 - 1,
			SegmentNumber:     int32(i + 1),
			SamplingFrequency: 1000,
		})
	}

	return out
}

func TestConditionTimeSliceScenario(t *testing.T) {
	sgmts := buildTenSegmentSgmts()

	slice := NewUnsetTimeSlice()
	slice.StartTime = timeutil.UUTC(65_000_000)
	slice.EndTime = timeutil.UUTC(185_000_000)

	require.NoError(t, ConditionTimeSlice(sgmts, &slice))

	assert.Equal(t, 2, slice.StartSegment)
	assert.Equal(t, 4, slice.EndSegment)
	assert.Equal(t, uint64(65_000), slice.StartSample)
	assert.Equal(t, uint64(185_000), slice.EndSample)
}

func TestConditionTimeSliceDefaultsToSessionBounds(t *testing.T) {
	sgmts := buildTenSegmentSgmts()

	slice := NewUnsetTimeSlice()
	require.NoError(t, ConditionTimeSlice(sgmts, &slice))

	assert.Equal(t, 1, slice.StartSegment)
	assert.Equal(t, 10, slice.EndSegment)
	assert.False(t, slice.Empty())
}

func TestConditionTimeSliceBySegmentNumber(t *testing.T) {
	sgmts := buildTenSegmentSgmts()

	slice := NewUnsetTimeSlice()
	slice.StartSegment = 3
	slice.EndSegment = 3

	require.NoError(t, ConditionTimeSlice(sgmts, &slice))
	assert.Equal(t, timeutil.UUTC(120_000_000), slice.StartTime)
	assert.Equal(t, timeutil.UUTC(180_000_000), slice.EndTime)
	assert.False(t, slice.Empty())
}

func TestBuildContigua(t *testing.T) {
	entries := []IndexedSample{
		{Index: layout.TimeSeriesIndex{FileOffset: 1024, StartTime: 0, StartSample: 0}, Segment: 1},
		{Index: layout.TimeSeriesIndex{FileOffset: 2048, StartTime: 1000, StartSample: 1000}, Segment: 1},
		{Index: layout.TimeSeriesIndex{FileOffset: -4096, StartTime: 5000, StartSample: 5000}, Segment: 1}, // discontinuity
		{Index: layout.TimeSeriesIndex{FileOffset: 8192, StartTime: 6000, StartSample: 6000}, Segment: 2},
	}

	contigua := BuildContigua(entries)
	require.Len(t, contigua, 2)

	assert.Equal(t, int64(0), contigua[0].StartTime)
	assert.Equal(t, int64(1000), contigua[0].EndTime)
	assert.Equal(t, int64(5000), contigua[1].StartTime)
	assert.Equal(t, int64(6000), contigua[1].EndTime)
	assert.Equal(t, 2, contigua[1].EndSegment)
}

// writeUHFile writes a minimal valid universal-header-prefixed file.
func writeUHFile(t *testing.T, path string, typeCode layout.TypeCode, body []byte) {
	t.Helper()

	h := layout.NewUniversalHeader(typeCode)
	raw := h.FinalizeCRCs(body)
	require.NoError(t, os.WriteFile(path, raw, 0o644))
}

func TestOpenSessionDiscoversChannelsAndSegments(t *testing.T) {
	require.NoError(t, medstate.Initialize())

	root := t.TempDir()
	sessionDir := filepath.Join(root, "patient001.medd")
	channelDir := filepath.Join(sessionDir, "ch1.ticd")
	segDir := filepath.Join(channelDir, "ch1_s0001.tisd")
	require.NoError(t, os.MkdirAll(segDir, 0o755))

	writeUHFile(t, filepath.Join(segDir, "ch1_s0001.tmet"), layout.TypeMetadata, make([]byte, layout.MetadataFileSize-layout.UniversalHeaderSize))
	writeUHFile(t, filepath.Join(segDir, "ch1_s0001.tdat"), layout.TypeTimeSeriesData, []byte{})
	writeUHFile(t, filepath.Join(segDir, "ch1_s0001.tidx"), layout.TypeTimeSeriesIndex, []byte{})

	session, err := Open(sessionDir, OpenOptions{Flags: DefaultLevelFlags()}, medstate.DefaultBehavior())
	require.NoError(t, err)
	defer session.Close()

	assert.Equal(t, "patient001", session.Name)
	require.Len(t, session.Channels, 1)
	assert.Equal(t, "ch1", session.Channels[0].Name)
	assert.Equal(t, layout.ChannelKindTimeSeries, session.Channels[0].Kind)
	require.Len(t, session.Channels[0].Segments, 1)
	assert.Equal(t, 1, session.Channels[0].Segments[0].Number)
	assert.NotNil(t, session.Channels[0].Segments[0].Meta)
	assert.Equal(t, 0, session.ReferenceChannel)

	found, ok := session.FindSegment(session.Channels[0].Path, 1)
	require.True(t, ok)
	assert.Same(t, &session.Channels[0].Segments[0], found)

	_, ok = session.FindSegment(session.Channels[0].Path, 99)
	assert.False(t, ok)
}

func TestGetSessionDirectoryFromNestedPath(t *testing.T) {
	root := t.TempDir()
	sessionDir := filepath.Join(root, "s1.medd")
	nested := filepath.Join(sessionDir, "ch1.ticd", "ch1_s0001.tisd")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, err := GetSessionDirectory(nested)
	require.NoError(t, err)
	assert.Equal(t, sessionDir, got)
}
