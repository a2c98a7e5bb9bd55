// Package medc provides a high-level, space-efficient binary format
// library for Multiscale Electrophysiology Data (MED) 1.0 sessions.
//
// medc is optimized for long, continuously-acquired physiological
// recordings split across many segments, providing byte-exact on-disk
// layout compatibility, selective decryption via a three-level password
// hierarchy, and fast time/sample/segment coordinate conversion across
// a session's channels.
//
// # Core Features
//
//   - Byte-exact MED 1.0 universal header, metadata, record and CMP
//     block layouts (package layout)
//   - Three read modes for file access: slice, full, and memory-mapped
//     (package fps)
//   - A static record-type dispatch table covering all eleven MED
//     record payloads (package records)
//   - TimeSlice conditioning and Contiguon construction over a
//     session's channel/segment tree (package hierarchy)
//
// # Basic Usage
//
// Opening a session and resolving a time range against its reference
// channel:
//
//	session, err := medc.OpenSession("/data/patient001.medd", medc.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer session.Close()
//
//	slice := hierarchy.NewUnsetTimeSlice()
//	slice.StartTime = 65_000_000
//	slice.EndTime = 185_000_000
//	slice, err = medc.Resolve(session, slice)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the
// hierarchy package, simplifying the most common use cases. For
// advanced usage and fine-grained control over individual files, use
// the layout, fps, cmp, records and hierarchy packages directly.
package medc

import (
	"github.com/MEDFormat/MEDC-sub005/errs"
	"github.com/MEDFormat/MEDC-sub005/hierarchy"
	"github.com/MEDFormat/MEDC-sub005/medstate"
	"github.com/MEDFormat/MEDC-sub005/security"
)

// Session is a convenience alias for the opened hierarchy.
type Session = hierarchy.Session

// Channel is a convenience alias for one opened channel.
type Channel = hierarchy.Channel

// Segment is a convenience alias for one opened segment.
type Segment = hierarchy.Segment

// TimeSlice is a convenience alias for a time/sample/segment request.
type TimeSlice = hierarchy.TimeSlice

// DefaultOptions opens every channel type present with no password
// hierarchy (session must be unencrypted or the caller must set
// Passwords via hierarchy.OpenOptions directly). Its ReadMode is left at
// fps.ReadModeSlice, which Open does not consult: segment metadata is
// always read in full.
func DefaultOptions() hierarchy.OpenOptions {
	return hierarchy.OpenOptions{Flags: hierarchy.DefaultLevelFlags()}
}

// OpenSession walks the on-disk hierarchy rooted at path (or any path
// inside a session directory) and returns the assembled Session, using
// medstate.DefaultBehavior() for fallible operations.
//
// Callers needing an explicit behavior mask (e.g. to suppress warnings
// during a bulk scan, or to validate CRCs strictly) should call
// hierarchy.Open directly.
func OpenSession(path string, opts hierarchy.OpenOptions) (*Session, error) {
	if err := medstate.Initialize(); err != nil {
		return nil, err
	}

	return hierarchy.Open(path, opts, medstate.DefaultBehavior())
}

// OpenEncryptedSession opens a session that requires one or more of the
// three MED passwords to fully decrypt, deriving a PasswordData from pw
// and installing it into the process-wide Globals before walking the
// hierarchy (§4.3's access-level derivation happens once per process,
// matching the source's single active password set per session).
func OpenEncryptedSession(path string, pw security.Passwords, wk security.WrappedKeys, opts hierarchy.OpenOptions) (*Session, error) {
	if err := medstate.Initialize(); err != nil {
		return nil, err
	}

	pd, err := security.DeriveForRead(pw, wk)
	if err != nil {
		return nil, err
	}

	g, err := medstate.Get()
	if err != nil {
		return nil, err
	}

	g.SetPasswordData(pd)
	opts.Passwords = pw

	return hierarchy.Open(path, opts, medstate.DefaultBehavior())
}

// Resolve conditions slice against session's Sgmt records, filling in
// whichever time/sample/segment coordinates are unset, per §4.7.
func Resolve(session *Session, slice TimeSlice) (TimeSlice, error) {
	sgmts := session.Sgmt()
	if len(sgmts) == 0 {
		return slice, errs.ErrAmbiguousTimeSlice
	}

	if err := hierarchy.ConditionTimeSlice(sgmts, &slice); err != nil {
		return slice, err
	}

	return slice, nil
}

// Contigua returns channel's contiguous data spans, opening and scanning
// every segment's time-series index in order.
func Contigua(channel *Channel) ([]hierarchy.Contiguon, error) {
	return hierarchy.ChannelContigua(channel, medstate.DefaultBehavior())
}
