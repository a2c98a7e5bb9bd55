// Package errs defines the sentinel errors shared across the medc packages.
//
// Callers use errors.Is against these sentinels; call sites wrap them with
// fmt.Errorf("...: %w", err) to add context without losing the sentinel.
package errs

import "errors"

var (
	// Format errors.
	ErrBadMagic          = errors.New("medc: bad magic or type code")
	ErrInvalidHeaderSize = errors.New("medc: invalid header size")
	ErrInvalidFieldValue = errors.New("medc: impossible field value")
	ErrNonZeroPadding    = errors.New("medc: required pad bytes are non-zero")
	ErrTruncated         = errors.New("medc: buffer truncated")

	// CRC errors.
	ErrHeaderCRCMismatch = errors.New("medc: universal header CRC mismatch")
	ErrBodyCRCMismatch   = errors.New("medc: body CRC mismatch")
	ErrBlockCRCMismatch  = errors.New("medc: CMP block CRC mismatch")

	// Access errors.
	ErrAccessDenied    = errors.New("medc: encryption level exceeds available access")
	ErrPasswordInvalid = errors.New("medc: password validation failed")
	ErrNoKey           = errors.New("medc: no encryption key available")

	// Logic errors.
	ErrUnknownRecordType  = errors.New("medc: unknown record type")
	ErrAlignmentMismatch  = errors.New("medc: struct alignment self-check failed")
	ErrHashCollision      = errors.New("medc: UID hash collision")
	ErrEmptyTimeSlice     = errors.New("medc: time slice is empty")
	ErrAmbiguousTimeSlice = errors.New("medc: time slice under-specified")
	ErrNoReferenceChannel = errors.New("medc: no reference channel set")

	// Resource errors.
	ErrAllocFailed  = errors.New("medc: allocation failed")
	ErrMmapFailed   = errors.New("medc: memory map failed")
	ErrTooManyFiles = errors.New("medc: too many open files")

	// I/O / hierarchy errors.
	ErrNotASession  = errors.New("medc: path is not a MED session")
	ErrNotAChannel  = errors.New("medc: path is not a MED channel")
	ErrNotASegment  = errors.New("medc: path is not a MED segment")
	ErrSegmentEmpty = errors.New("medc: segment has no data")
)
