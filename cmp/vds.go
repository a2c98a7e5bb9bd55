package cmp

import (
	"encoding/binary"
	"math"

	"github.com/MEDFormat/MEDC-sub005/errs"
	"github.com/MEDFormat/MEDC-sub005/layout"
)

// VDS is the vectorized-data-stream algorithm (spec §4.5): a
// piecewise-linear approximation of the block whose vertices are chosen
// greedily so no original sample deviates from the interpolated line by
// more than Threshold. Vertex amplitudes and vertex time deltas are each
// encoded with one of {RED, PRED, MBE}, selected independently.
//
// Threshold == 0 allows no deviation: a run of samples is merged into one
// segment only when every sample equals the rounded interpolated value,
// so the piecewise-linear reconstruction is exact — the spec's
// "VDS_threshold = 0 forces lossless" requirement.
type VDS struct {
	Threshold         float64
	AmplitudeEncoding Encoding
	TimeEncoding      Encoding
}

var _ Encoding = VDS{}

func (VDS) Algorithm() layout.Algorithm { return layout.AlgorithmVDS }

// vdsHeaderSize is (sample_count uint32, vertex_count uint32,
// amp_algorithm uint8, time_algorithm uint8, reserved x2).
const vdsHeaderSize = 12

func algorithmCode(a layout.Algorithm) uint8 { return uint8(a) }

func algorithmFromCode(c uint8) layout.Algorithm { return layout.Algorithm(c) }

func encodingFor(alg layout.Algorithm) Encoding {
	switch alg {
	case layout.AlgorithmPRED:
		return PRED{}
	case layout.AlgorithmMBE:
		return MBE{}
	default:
		return RED{}
	}
}

// selectVertices greedily extends each segment as far as it can while
// every sample in [start, end] stays within threshold of the line from
// (start, y[start]) to (end, y[end]), matching the decoder's rounding so
// the threshold bound holds after reconstruction, not just in theory.
func selectVertices(y []int32, threshold float64) []int {
	n := len(y)
	if n == 0 {
		return nil
	}
	if n == 1 {
		return []int{0}
	}

	vertices := []int{0}
	start := 0

	for start < n-1 {
		end := start + 1
		for end < n-1 {
			if !segmentWithinThreshold(y, start, end+1, threshold) {
				break
			}
			end++
		}

		vertices = append(vertices, end)
		start = end
	}

	return vertices
}

func segmentWithinThreshold(y []int32, start, end int, threshold float64) bool {
	if end <= start {
		return true
	}

	y0, y1 := float64(y[start]), float64(y[end])
	span := float64(end - start)

	for j := start; j <= end; j++ {
		frac := float64(j-start) / span
		interp := math.Round(y0 + (y1-y0)*frac)

		if math.Abs(float64(y[j])-interp) > threshold {
			return false
		}
	}

	return true
}

func interpolate(times []int, amps []int32, n int) []int32 {
	out := make([]int32, n)
	if len(times) == 0 {
		return out
	}

	for i := 0; i < n; i++ {
		out[i] = interpolateAt(times, amps, i)
	}

	return out
}

func interpolateAt(times []int, amps []int32, t int) int32 {
	if t <= times[0] {
		return amps[0]
	}
	if t >= times[len(times)-1] {
		return amps[len(amps)-1]
	}

	k := 0
	for k < len(times)-2 && times[k+1] < t {
		k++
	}

	y0, y1 := float64(amps[k]), float64(amps[k+1])
	span := float64(times[k+1] - times[k])
	frac := float64(t-times[k]) / span

	return int32(math.Round(y0 + (y1-y0)*frac))
}

func (v VDS) Encode(residuals []int32) ([]byte, error) {
	vertices := selectVertices(residuals, v.Threshold)

	amps := make([]int32, len(vertices))
	deltas := make([]int32, len(vertices))

	prevT := 0
	for i, idx := range vertices {
		amps[i] = residuals[idx]
		if i == 0 {
			deltas[i] = int32(idx)
		} else {
			deltas[i] = int32(idx - prevT)
		}
		prevT = idx
	}

	ampEnc := v.AmplitudeEncoding
	if ampEnc == nil {
		ampEnc = RED{}
	}

	timeEnc := v.TimeEncoding
	if timeEnc == nil {
		timeEnc = MBE{}
	}

	ampBytes, err := ampEnc.Encode(amps)
	if err != nil {
		return nil, err
	}

	timeBytes, err := timeEnc.Encode(deltas)
	if err != nil {
		return nil, err
	}

	header := make([]byte, vdsHeaderSize)
	binary.LittleEndian.PutUint32(header[0:4], uint32(len(residuals)))
	binary.LittleEndian.PutUint32(header[4:8], uint32(len(vertices)))
	header[8] = algorithmCode(ampEnc.Algorithm())
	header[9] = algorithmCode(timeEnc.Algorithm())

	ampLen := make([]byte, 4)
	binary.LittleEndian.PutUint32(ampLen, uint32(len(ampBytes)))

	out := append(header, ampLen...)
	out = append(out, ampBytes...)
	out = append(out, timeBytes...)

	return out, nil
}

func (VDS) Decode(data []byte, count int) ([]int32, error) {
	if len(data) < vdsHeaderSize+4 {
		return nil, errs.ErrTruncated
	}

	sampleCount := int(binary.LittleEndian.Uint32(data[0:4]))
	vertexCount := int(binary.LittleEndian.Uint32(data[4:8]))
	ampAlg := algorithmFromCode(data[8])
	timeAlg := algorithmFromCode(data[9])

	if sampleCount != count {
		return nil, errs.ErrInvalidFieldValue
	}

	ampLen := int(binary.LittleEndian.Uint32(data[vdsHeaderSize : vdsHeaderSize+4]))
	off := vdsHeaderSize + 4

	if len(data) < off+ampLen {
		return nil, errs.ErrTruncated
	}

	ampBytes := data[off : off+ampLen]
	timeBytes := data[off+ampLen:]

	amps, err := encodingFor(ampAlg).Decode(ampBytes, vertexCount)
	if err != nil {
		return nil, err
	}

	deltas, err := encodingFor(timeAlg).Decode(timeBytes, vertexCount)
	if err != nil {
		return nil, err
	}

	times := make([]int, vertexCount)
	acc := 0
	for i, d := range deltas {
		acc += int(d)
		times[i] = acc
	}

	return interpolate(times, amps, sampleCount), nil
}
