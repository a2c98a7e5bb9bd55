package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newYorkZone(t *testing.T) TimezoneInfo {
	t.Helper()

	z, ok := FindTimezoneAcronym("EST", -5*3600, -4*3600)
	require.True(t, ok)

	return z
}

func TestDSTTransitionScenario(t *testing.T) {
	z := newYorkZone(t)

	afterStart := UUTC(time.Date(2024, time.March, 10, 7, 0, 0, 0, time.UTC).UnixMicro())
	beforeStart := UUTC(time.Date(2024, time.March, 10, 6, 59, 59, 0, time.UTC).UnixMicro())

	assert.Equal(t, int32(3600), z.DSTOffsetAt(afterStart))
	assert.Equal(t, int32(0), z.DSTOffsetAt(beforeStart))
}

func TestDSTEndTransition(t *testing.T) {
	z := newYorkZone(t)

	// First Sunday of November 2024 is Nov 3; 02:00 local (DST, UTC-4) is 06:00 UTC.
	afterEnd := UUTC(time.Date(2024, time.November, 3, 6, 0, 1, 0, time.UTC).UnixMicro())
	beforeEnd := UUTC(time.Date(2024, time.November, 3, 5, 59, 0, 0, time.UTC).UnixMicro())

	assert.Equal(t, int32(0), z.DSTOffsetAt(afterEnd))
	assert.Equal(t, int32(3600), z.DSTOffsetAt(beforeEnd))
}

func TestRTORoundTrip(t *testing.T) {
	rto := RecordingTimeOffset(123456789)
	orig := UUTC(time.Now().UnixMicro())

	assert.Equal(t, orig, RemoveRTO(ApplyRTO(orig, rto), rto))
	assert.Equal(t, orig, ApplyRTO(RemoveRTO(orig, rto), rto))
}

func TestRTOSentinelsPassThrough(t *testing.T) {
	rto := RecordingTimeOffset(42)

	assert.Equal(t, NoEntry, ApplyRTO(NoEntry, rto))
	assert.Equal(t, PositiveInfinity, ApplyRTO(PositiveInfinity, rto))
	assert.Equal(t, NegativeInfinity, ApplyRTO(NegativeInfinity, rto))
}

func TestNonObservingZoneHasNoDST(t *testing.T) {
	z, ok := FindTimezoneAcronym("JST", 9*3600, 9*3600)
	require.True(t, ok)
	assert.Equal(t, int32(0), z.DSTOffsetAt(UUTC(time.Now().UnixMicro())))
}
