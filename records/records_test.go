package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MEDFormat/MEDC-sub005/layout"
	"github.com/MEDFormat/MEDC-sub005/medstate"
)

func TestSgmtRoundTrip(t *testing.T) {
	sg := &Sgmt{
		StartTime: 1000, EndTime: 2000, StartSample: 10, EndSample: 20,
		SegmentNumber: 3, AcquisitionChannel: 1, SamplingFrequency: 1000,
		Description: "segment 3",
	}

	var out Sgmt
	require.NoError(t, out.Parse(sg.Bytes()))
	assert.Equal(t, *sg, out)
}

func TestStatRoundTrip(t *testing.T) {
	st := &Stat{Min: -1, Max: 1, Mean: 0.1, Median: 0.2, Mode: 0, Variance: 0.5, Skewness: 0.01, Kurtosis: 3}

	b := st.Bytes()
	require.Len(t, b, StatSize)

	var out Stat
	require.NoError(t, out.Parse(b))
	assert.Equal(t, *st, out)
}

func TestSeizRoundTripWithChannels(t *testing.T) {
	sz := &Seiz{
		OnsetTime: 100, OffsetTime: 200, OnsetClassification: "focal", Description: "desc",
		Channels: []SeizChannel{
			{ChannelNumber: 1, OnsetTime: 110, OffsetTime: 190, ChannelName: "Fp1"},
			{ChannelNumber: 2, OnsetTime: 120, OffsetTime: 180, ChannelName: "Fp2"},
		},
	}

	b := sz.Bytes()
	require.Len(t, b, SeizFixedSize+2*SeizChannelSize)

	var out Seiz
	require.NoError(t, out.Parse(b))
	assert.Equal(t, sz, &out)
}

func TestFixedSizeRecordsRoundTrip(t *testing.T) {
	nlx := &NlxP{Value: 5, Subport: 1, TriggerMode: 2}
	var nlxOut NlxP
	require.NoError(t, nlxOut.Parse(nlx.Bytes()))
	assert.Equal(t, *nlx, nlxOut)

	cur := &Curs{ID: 42, Latency: 5, Value: 3.14, Name: "cursor-a"}
	var curOut Curs
	require.NoError(t, curOut.Parse(cur.Bytes()))
	assert.Equal(t, *cur, curOut)

	ep := &Epoc{ID: 1, EndTime: 99, EpochType: "REM", Text: "dream stage"}
	var epOut Epoc
	require.NoError(t, epOut.Parse(ep.Bytes()))
	assert.Equal(t, *ep, epOut)

	es := &ESti{Amplitude: 1.5, Frequency: 130, PulseWidth: 0.09, Mode: "biphasic", WaveformName: "square", AnodeName: "A1", CathodeName: "C1"}
	var esOut ESti
	require.NoError(t, esOut.Parse(es.Bytes()))
	assert.Equal(t, *es, esOut)

	cs := &CSti{TaskName: "flanker", StimulusName: "arrow", ResponseName: "left"}
	var csOut CSti
	require.NoError(t, csOut.Parse(cs.Bytes()))
	assert.Equal(t, *cs, csOut)
}

func TestFilterSemantics(t *testing.T) {
	note := layout.RecordTypeNote
	stat := layout.RecordTypeStat
	sgmt := layout.RecordTypeSgmt

	onlyPositive := NewFilter().Include(note)
	assert.True(t, onlyPositive.Allows(note))
	assert.False(t, onlyPositive.Allows(stat))

	onlyNegative := NewFilter().Exclude(stat)
	assert.True(t, onlyNegative.Allows(note))
	assert.False(t, onlyNegative.Allows(stat))

	mixed := NewFilter().Include(note).Include(sgmt).Exclude(sgmt)
	assert.True(t, mixed.Allows(note))
	assert.False(t, mixed.Allows(sgmt), "explicit exclude wins over explicit include")
	assert.False(t, mixed.Allows(stat), "unlisted code with a non-empty include set is excluded")

	empty := NewFilter()
	assert.True(t, empty.Allows(note))
	assert.True(t, empty.Allows(stat))

	assert.True(t, empty.Allows(layout.RecordTypeTerm), "Term always passes any filter")
}

func TestBuildAndParseStreamRoundTrip(t *testing.T) {
	require.NoError(t, medstate.Initialize())

	sg := &Sgmt{StartTime: 0, EndTime: 1000, StartSample: 0, EndSample: 999, SegmentNumber: 0, AcquisitionChannel: 0, SamplingFrequency: 1000}
	note := &Note{Text: "hello"}

	recs := []Record{
		{Header: layout.RecordHeader{StartTime: 0, Type: layout.RecordTypeSgmt, VersionMajor: 1, VersionMinor: 0}, Payload: sg},
		{Header: layout.RecordHeader{StartTime: 500, Type: layout.RecordTypeNote, VersionMajor: 1, VersionMinor: 0}, Payload: note},
	}

	dataBody, indexBody, err := BuildStream(recs, layout.UniversalHeaderSize)
	require.NoError(t, err)

	indices, err := ParseIndices(indexBody)
	require.NoError(t, err)
	require.Len(t, indices, 3) // two records + Term sentinel
	assert.True(t, indices[2].IsTerminal())
	assert.Equal(t, int64(layout.UniversalHeaderSize+len(dataBody)), indices[2].FileOffset)

	for i := 0; i+1 < len(indices)-1; i++ {
		assert.LessOrEqual(t, indices[i].StartTime, indices[i+1].StartTime)
		assert.Less(t, indices[i].FileOffset, indices[i+1].FileOffset)
	}

	stream, err := ParseRecords(dataBody, nil, medstate.DefaultBehavior())
	require.NoError(t, err)
	require.Len(t, stream.Records, 2)

	gotSgmt, ok := stream.Records[0].Payload.(*Sgmt)
	require.True(t, ok)
	assert.Equal(t, sg, gotSgmt)

	gotNote, ok := stream.Records[1].Payload.(*Note)
	require.True(t, ok)
	assert.Equal(t, note, gotNote)

	sgmts := stream.SgmtRecords()
	require.Len(t, sgmts, 1)
	assert.Equal(t, sg, sgmts[0])
}

func TestParseRecordsSkipsUnknownType(t *testing.T) {
	require.NoError(t, medstate.Initialize())

	recs := []Record{
		{Header: layout.RecordHeader{StartTime: 0, Type: layout.NewTypeCode("Xxxx"), VersionMajor: 1}, Payload: nil},
	}

	dataBody, _, err := BuildStream(recs, layout.UniversalHeaderSize)
	require.NoError(t, err)

	stream, err := ParseRecords(dataBody, nil, medstate.DefaultBehavior().WithFlag(medstate.SuppressWarning))
	require.NoError(t, err)
	require.Len(t, stream.Records, 1)
	assert.Nil(t, stream.Records[0].Payload)
}

func TestSgmtIndexByNumber(t *testing.T) {
	sgmts := []*Sgmt{
		{SegmentNumber: 1, StartTime: 0},
		{SegmentNumber: 2, StartTime: 60_000_000},
		{SegmentNumber: 3, StartTime: 120_000_000},
	}

	idx := BuildSgmtIndex(sgmts)

	got, ok := idx.ByNumber(2)
	require.True(t, ok)
	assert.Equal(t, sgmts[1], got)

	_, ok = idx.ByNumber(99)
	assert.False(t, ok)
}
