package cmp

import "github.com/MEDFormat/MEDC-sub005/layout"

// Encoding is the shared interface for the four CMP sample encodings.
// Residuals in and out are post-detrend/scale/derivative int32 values;
// the pipeline is responsible for everything upstream and downstream of
// the model region itself.
type Encoding interface {
	Algorithm() layout.Algorithm
	Encode(residuals []int32) ([]byte, error)
	Decode(data []byte, count int) ([]int32, error)
}

// residualCategory is PRED's "sign category of the previous residual"
// (spec §4.5): NIL has no previous residual or a zero-valued one, POS
// and NEG follow a strictly positive or negative previous residual.
type residualCategory int

const (
	categoryNIL residualCategory = iota
	categoryPOS
	categoryNEG
	categoryCount
)

func categoryOf(prev int32, hasPrev bool) residualCategory {
	switch {
	case !hasPrev || prev == 0:
		return categoryNIL
	case prev > 0:
		return categoryPOS
	default:
		return categoryNEG
	}
}
