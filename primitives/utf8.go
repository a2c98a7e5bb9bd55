package primitives

import "unicode/utf8"

// FixedUTF8Field encodes s into a zero-padded fixed-width UTF-8 byte field,
// as used for session/channel base names and demographic strings (§3.2,
// §3.3). It truncates at a rune boundary if s is too long to fit.
func FixedUTF8Field(s string, width int) []byte {
	b := make([]byte, width)
	src := []byte(s)

	if len(src) > width {
		// Truncate at the last full rune boundary that fits.
		n := width
		for n > 0 && !utf8.RuneStart(src[n]) {
			n--
		}
		src = src[:n]
	}

	copy(b, src)

	return b
}

// ParseFixedUTF8Field decodes a zero-padded fixed-width UTF-8 field back
// into a string, stopping at the first NUL byte.
func ParseFixedUTF8Field(b []byte) string {
	n := 0
	for n < len(b) && b[n] != 0 {
		n++
	}

	return string(b[:n])
}

// RuneCount returns the number of UTF-8 code points in b.
func RuneCount(b []byte) int {
	return utf8.RuneCount(b)
}

// ByteOffsetForRune returns the byte offset of the runeNumber-th code point
// in b, or -1 if runeNumber is out of range.
func ByteOffsetForRune(b []byte, runeNumber int) int {
	if runeNumber < 0 {
		return -1
	}

	off := 0
	for i := 0; i < runeNumber; i++ {
		if off >= len(b) {
			return -1
		}
		_, size := utf8.DecodeRune(b[off:])
		off += size
	}

	if off > len(b) {
		return -1
	}

	return off
}

// RuneNumberForByteOffset returns the code-point index that byteOffset falls
// within, the inverse of ByteOffsetForRune.
func RuneNumberForByteOffset(b []byte, byteOffset int) int {
	off := 0
	n := 0
	for off < byteOffset && off < len(b) {
		_, size := utf8.DecodeRune(b[off:])
		off += size
		n++
	}

	return n
}
