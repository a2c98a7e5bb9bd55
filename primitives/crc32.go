package primitives

import (
	"hash/crc32"
)

// CRCPolynomial is the reflected IEEE polynomial the MED format mandates
// for every header and block CRC (§4.1).
const CRCPolynomial = 0xEDB88320

// crcTable is the standard library's single 256-entry IEEE table, built
// once inside hash/crc32. It is bit-for-bit the table §4.1 describes
// (same polynomial, same reflected convention). CRC32Update walks it one
// byte per iteration; no slicing-by-8 tables are built.
var crcTable = crc32.MakeTable(crc32.IEEE)

// CRC32 computes the CRC of data starting from the all-zero register,
// matching §4.1's "initial register 0, no final XOR" convention.
//
// hash/crc32's own Checksum/Update always complement the register on
// entry and exit (the standard CRC-32 convention), which is incompatible
// with §4.1's explicit "initial register 0, no final XOR" requirement —
// CRC32([]byte{0}) must be 0x0 under the spec's convention, the value
// MED's CRC_NO_ENTRY sentinel depends on. So the table is walked by hand
// here instead of delegating to crc32.Checksum/crc32.Update.
func CRC32(data []byte) uint32 {
	return CRC32Update(0, data)
}

// CRC32Update continues a CRC computation with an already-partial register,
// mirroring the source's update(block, len, crc) entry point used when a
// CRC is computed incrementally over a growing buffer. No pre/post
// complement, per §4.1.
func CRC32Update(crc uint32, data []byte) uint32 {
	for _, b := range data {
		crc = crcTable[byte(crc)^b] ^ (crc >> 8)
	}

	return crc
}

// gf2MatrixTimes multiplies a GF(2) vector by a GF(2) matrix represented as
// an array of row masks, used by CRC32Combine's polynomial matrix squaring.
func gf2MatrixTimes(mat *[32]uint32, vec uint32) uint32 {
	var sum uint32
	for n := 0; vec != 0; n++ {
		if vec&1 != 0 {
			sum ^= mat[n]
		}
		vec >>= 1
	}

	return sum
}

func gf2MatrixSquare(square, mat *[32]uint32) {
	for n := 0; n < 32; n++ {
		square[n] = gf2MatrixTimes(mat, mat[n])
	}
}

// CRC32Combine computes CRC(a||b) given CRC(a), CRC(b), and len(b), without
// revisiting the bytes of a. This is used when a body CRC must be
// accumulated piecewise across a large file (§4.1) — §8's round-trip
// property CRC(a||b) = CRC_combine(CRC(a), CRC(b), |b|) holds exactly.
//
// The algorithm is the classic zlib crc32_combine: build the bit-operator
// matrix for "multiply by x^(8*lenB)" in the CRC's GF(2) polynomial ring by
// repeated squaring, then apply it to crcA and XOR in crcB.
func CRC32Combine(crcA, crcB uint32, lenB int64) uint32 {
	if lenB <= 0 {
		return crcA
	}

	// even[n] = bit n of the "multiply by x" matrix, i.e. one bit-shift step
	// through the CRC register, including the polynomial feedback.
	var even, odd [32]uint32

	// odd holds the operator for a single bit shift.
	odd[0] = CRCPolynomial
	row := uint32(1)
	for n := 1; n < 32; n++ {
		odd[n] = row
		row <<= 1
	}

	gf2MatrixSquare(&even, &odd) // even = odd^2 = one byte (8 bit) shift... squared twice below
	gf2MatrixSquare(&odd, &even) // odd = even^2

	crc1 := crcA

	lenB64 := uint64(lenB)
	for lenB64 != 0 {
		gf2MatrixSquare(&even, &odd)
		if lenB64&1 != 0 {
			crc1 = gf2MatrixTimes(&even, crc1)
		}
		lenB64 >>= 1
		if lenB64 == 0 {
			break
		}

		gf2MatrixSquare(&odd, &even)
		if lenB64&1 != 0 {
			crc1 = gf2MatrixTimes(&odd, crc1)
		}
		lenB64 >>= 1
	}

	return crc1 ^ crcB
}
