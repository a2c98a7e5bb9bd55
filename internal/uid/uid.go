// Package uid computes the 64-bit identifiers medc uses for fast
// in-memory lookups: the hierarchy opener's session/channel/segment path
// cache and the Sgmt record index keyed by segment number.
package uid

import "github.com/cespare/xxhash/v2"

// Of hashes data to a 64-bit identifier via xxHash64 (grounded on
// arloliu/mebo's internal/hash.ID, which this package mirrors for the
// same O(1)-lookup, fixed-size-key reasons).
func Of(data string) uint64 {
	return xxhash.Sum64String(data)
}

// OfSegment derives a cache key for one (channel path, segment number)
// pair without building an intermediate string on every lookup.
func OfSegment(channelPath string, segmentNumber int) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(channelPath)

	var buf [8]byte
	n := segmentNumber
	for i := 0; i < 8; i++ {
		buf[i] = byte(n)
		n >>= 8
	}

	_, _ = d.Write(buf[:])

	return d.Sum64()
}
