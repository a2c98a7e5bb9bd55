// Package fps implements the File Processing Struct (spec §4.4): one
// handle per open MED file, combining an open file descriptor, the raw
// byte buffer backing it (either partially, fully, or memory-mapped
// read), and the directives governing how reads/writes/locks behave.
package fps

// OpenMode selects whether the file is opened for reading, writing, or
// both (§4.4 "open-mode").
type OpenMode uint8

const (
	OpenRead OpenMode = iota
	OpenWrite
	OpenReadWrite
)

// ReadMode selects how much of the file is brought into memory on open
// (§4.4): a slice read for interactive browsing, a full read for small
// files, or a memory map that faults in blocks on demand.
type ReadMode uint8

const (
	ReadModeSlice ReadMode = iota
	ReadModeFull
	ReadModeMmap
)

// LockMode selects when an advisory POSIX-style lock is taken (§4.4,
// disabled by default "to cooperate with network filesystems").
type LockMode uint8

const (
	LockNone LockMode = iota
	LockOnReadOpen
	LockOnWriteOpen
)

// Directives bundles the open/read/write/lock policy for one FPS,
// mirroring the source's open/read/write/lock-mode/open-mode directives
// bitfield as plain Go fields instead of a packed flag word (§4.4).
type Directives struct {
	OpenMode OpenMode
	ReadMode ReadMode
	LockMode LockMode

	CloseAfter           bool
	FlushAfterWrite      bool
	FreePasswordOnClose  bool
}

// DefaultDirectives opens for reading with a slice read and no locking,
// matching §4.4's "disabled by default" lock guidance.
func DefaultDirectives() Directives {
	return Directives{
		OpenMode: OpenRead,
		ReadMode: ReadModeSlice,
		LockMode: LockNone,
	}
}
