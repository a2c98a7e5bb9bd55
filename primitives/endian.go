package primitives

import (
	"encoding/binary"
	"unsafe"
)

// CheckHostEndianness inspects the host's native byte order using a
// stack-local probe value, the same trick the MED source and
// mebo/endian.CheckEndianness use rather than relying on build tags.
func CheckHostEndianness() binary.ByteOrder {
	var i uint16 = 0x0100

	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsHostLittleEndian reports whether the host's native byte order is
// little-endian.
func IsHostLittleEndian() bool {
	return CheckHostEndianness() == binary.LittleEndian
}

// Wire is the byte order used on disk for every MED structure: all
// integers are little-endian regardless of host architecture (§6).
var Wire = binary.LittleEndian
