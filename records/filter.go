// Package records implements the MED records subsystem (spec §4.6): the
// record-header/record-index pair, the eleven typed payloads, a type-code
// filter, and a streaming reader/writer over the parallel record-data and
// record-indices files.
package records

import "github.com/MEDFormat/MEDC-sub005/layout"

// Filter selects which record type codes a reader surfaces, mirroring
// the source's zero-terminated signed-type-code list (§4.6). Positive
// entries are include filters, negative entries are exclude filters.
//
// §9 Open Question: the source leaves mixed positive/negative lists
// ambiguous. This implementation resolves it as "union of explicitly
// included minus explicitly excluded" (recorded in DESIGN.md):
//   - only positive entries present: unlisted codes are excluded.
//   - only negative entries present: unlisted codes are included.
//   - both present: a code passes if (included is empty or code is in
//     included) and code is not in excluded.
//   - empty filter: everything passes.
type Filter struct {
	include map[layout.TypeCode]bool
	exclude map[layout.TypeCode]bool
}

// NewFilter returns an empty Filter, which passes every type code;
// Include and Exclude add positive and negative entries to it.
func NewFilter() *Filter {
	return &Filter{include: map[layout.TypeCode]bool{}, exclude: map[layout.TypeCode]bool{}}
}

// Include adds tc as a positive (include) filter entry.
func (f *Filter) Include(tc layout.TypeCode) *Filter {
	f.include[tc] = true
	return f
}

// Exclude adds tc as a negative (exclude) filter entry.
func (f *Filter) Exclude(tc layout.TypeCode) *Filter {
	f.exclude[tc] = true
	return f
}

// Allows reports whether tc passes this filter, per the resolution
// documented on Filter.
func (f *Filter) Allows(tc layout.TypeCode) bool {
	if tc == layout.RecordTypeTerm {
		return true
	}

	if f.exclude[tc] {
		return false
	}

	if len(f.include) == 0 {
		return true
	}

	return f.include[tc]
}
