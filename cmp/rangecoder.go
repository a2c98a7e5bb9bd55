package cmp

// rangeTop is the renormalization threshold shared by the encoder and
// decoder below; it is the same carryless range-coder construction used
// by LZMA's RangeCoder.h, adapted here for CMP's static per-block
// cumulative-frequency models (RED, PRED) rather than an adaptive
// bit-tree model.
const rangeTop = 1 << 24

// rangeEncoder is a byte-oriented range coder with deferred carry
// propagation via a cache byte and a run-length of pending 0xFF bytes.
type rangeEncoder struct {
	low       uint64
	rng       uint32
	cache     byte
	cacheSize int64
	out       []byte
}

func newRangeEncoder() *rangeEncoder {
	return &rangeEncoder{rng: 0xFFFFFFFF, cache: 0xFF, cacheSize: 1}
}

func (e *rangeEncoder) shiftLow() {
	if uint32(e.low>>32) != 0 || e.low < 0xFF000000 {
		carry := byte(e.low >> 32)
		temp := e.cache
		for {
			e.out = append(e.out, temp+carry)
			temp = 0xFF
			e.cacheSize--
			if e.cacheSize == 0 {
				break
			}
		}
		e.cache = byte(e.low >> 24)
	}
	e.cacheSize++
	e.low = (e.low << 8) & 0xFFFFFFFF
}

// encode narrows the current [low, low+rng) interval to the sub-interval
// described by a symbol's cumulative frequency, frequency, and the
// model's total frequency.
func (e *rangeEncoder) encode(cumFreq, freq, totFreq uint32) {
	r := e.rng / totFreq
	e.low += uint64(r) * uint64(cumFreq)
	e.rng = r * freq

	for e.rng < rangeTop {
		e.rng <<= 8
		e.shiftLow()
	}
}

// finish flushes the five pending bytes needed to disambiguate the final
// interval, including the one throwaway byte the decoder skips on init.
func (e *rangeEncoder) finish() []byte {
	for i := 0; i < 5; i++ {
		e.shiftLow()
	}

	return e.out
}

// rangeDecoder mirrors rangeEncoder; it must be driven with exactly the
// same sequence of (cumFreq, freq, totFreq) triples used to encode.
type rangeDecoder struct {
	rng  uint32
	code uint32
	in   []byte
	pos  int
}

func newRangeDecoder(data []byte) *rangeDecoder {
	d := &rangeDecoder{rng: 0xFFFFFFFF, in: data, pos: 1}
	for i := 0; i < 4; i++ {
		d.code = (d.code << 8) | uint32(d.readByte())
	}

	return d
}

func (d *rangeDecoder) readByte() byte {
	if d.pos < len(d.in) {
		b := d.in[d.pos]
		d.pos++
		return b
	}

	return 0
}

// getFreq narrows rng to a single-symbol unit and returns the point in
// [0, totFreq) the current code falls on; the caller maps this to a
// symbol via the model's cumulative table, then calls decode to commit.
func (d *rangeDecoder) getFreq(totFreq uint32) uint32 {
	d.rng /= totFreq
	return d.code / d.rng
}

func (d *rangeDecoder) decode(cumFreq, freq uint32) {
	d.code -= cumFreq * d.rng
	d.rng *= freq

	for d.rng < rangeTop {
		d.code = (d.code << 8) | uint32(d.readByte())
		d.rng <<= 8
	}
}

// bytesConsumed reports how many input bytes the decoder has read,
// including the single discarded init byte.
func (d *rangeDecoder) bytesConsumed() int { return d.pos }
