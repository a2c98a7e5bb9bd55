package timeutil

import "time"

// CodeType is the signed "what kind of transition" discriminator packed
// into a DaylightChangeCode (§4.2).
type CodeType int8

const (
	CodeTypeEnd        CodeType = -1
	CodeTypeNotObserved CodeType = 0
	CodeTypeStart       CodeType = 1
)

// ReferenceTime selects whether HoursOfDay in a DaylightChangeCode is
// expressed in local standard time or UTC.
type ReferenceTime int8

const (
	ReferenceLocal ReferenceTime = 0
	ReferenceUTC   ReferenceTime = 1
)

// LastWeekdayOfMonth is the sentinel RelativeWeekdayOfMonth value meaning
// "the last occurrence of DayOfWeek in Month", per §4.2.
const LastWeekdayOfMonth = 6

// DaylightChangeCode describes one DST transition rule: "the Nth (or last)
// <weekday> of <month> at <hour> <local|UTC> time, shifting the clock by
// <minutes>". The source packs this as a union with a bare int64; Go
// models the union as a struct with an explicit PackedValue accessor that
// reproduces the same 8-byte layout (§4.2).
type DaylightChangeCode struct {
	Type            CodeType
	DayOfWeek       int8 // -1..6, time.Weekday range plus "not applicable"
	RelativeWeekday int8 // 0..6, 6 == LastWeekdayOfMonth
	DayOfMonth      int8 // 0..31, used when the rule is calendar-day based
	Month           int8 // -1..11, time.Month-1 range plus "not applicable"
	HoursOfDay      int8
	Reference       ReferenceTime
	ShiftMinutes    int8
}

// NotObserved is the zero-value code meaning the zone never observes DST.
var NotObserved = DaylightChangeCode{Type: CodeTypeNotObserved}

// PackedValue returns the 8-byte-equivalent int64 view of the code, the
// same bits the union's int64 member would read.
func (d DaylightChangeCode) PackedValue() int64 {
	return int64(uint8(d.Type)) |
		int64(uint8(d.DayOfWeek))<<8 |
		int64(uint8(d.RelativeWeekday))<<16 |
		int64(uint8(d.DayOfMonth))<<24 |
		int64(uint8(d.Month))<<32 |
		int64(uint8(d.HoursOfDay))<<40 |
		int64(uint8(d.Reference))<<48 |
		int64(uint8(d.ShiftMinutes))<<56
}

// resolveDate returns the civil date, in the given year, that this
// transition rule names, deterministically from calendar arithmetic
// (§4.2: "Relative weekday resolution ... is deterministic from
// civil-calendar arithmetic").
func (d DaylightChangeCode) resolveDate(year int) time.Time {
	month := time.Month(d.Month + 1)

	if d.RelativeWeekday < 0 {
		// Absolute day-of-month rule.
		return time.Date(year, month, int(d.DayOfMonth), int(d.HoursOfDay), 0, 0, 0, time.UTC)
	}

	target := time.Weekday(d.DayOfWeek)

	if d.RelativeWeekday == LastWeekdayOfMonth {
		// Walk backward from the first day of the following month.
		firstOfNext := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC)
		day := firstOfNext.AddDate(0, 0, -1)
		for day.Weekday() != target {
			day = day.AddDate(0, 0, -1)
		}

		return time.Date(year, month, day.Day(), int(d.HoursOfDay), 0, 0, 0, time.UTC)
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(target) - int(first.Weekday()) + 7) % 7
	day := 1 + offset + int(d.RelativeWeekday)*7

	return time.Date(year, month, day, int(d.HoursOfDay), 0, 0, 0, time.UTC)
}

// instantUTC returns the µUTC instant this rule fires at, in the given
// year, given the zone's standard UTC offset (needed when Reference is
// ReferenceLocal, since the rule's hour is expressed in local time).
func (d DaylightChangeCode) instantUTC(year int, standardUTCOffsetSeconds int32) UUTC {
	if d.Type == CodeTypeNotObserved {
		return PositiveInfinity
	}

	local := d.resolveDate(year)

	var utcTime time.Time
	if d.Reference == ReferenceUTC {
		utcTime = local
	} else {
		utcTime = local.Add(-time.Duration(standardUTCOffsetSeconds) * time.Second)
		if d.Type == CodeTypeEnd {
			// An end rule's local hour is read on the daylight clock, which
			// runs ahead of standard time by the shift the rule undoes.
			utcTime = utcTime.Add(time.Duration(d.ShiftMinutes) * time.Minute)
		}
	}

	return UUTC(utcTime.UnixMicro())
}
