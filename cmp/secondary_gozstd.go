//go:build nobuild

package cmp

// gozstd requires cgo and is excluded from default builds, mirroring
// mebo/compress's own cgo-gated zstd variant (zstd_cgo.go). It is kept
// here to document the alternative codec named in this module's
// dependency stack, selectable by build tag for environments where cgo
// and the libzstd headers are available.

import "github.com/valyala/gozstd"

type gozstdCodec struct{}

func (gozstdCodec) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, 3), nil
}

func (gozstdCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.Decompress(nil, data)
}
