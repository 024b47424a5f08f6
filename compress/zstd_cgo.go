//go:build nump_cgo_zstd

package compress

import (
	"github.com/valyala/gozstd"
)

const cgoZstdLevel = 3

// Compress compresses data with Zstandard via libzstd.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, cgoZstdLevel), nil
}

// Decompress decompresses Zstd-compressed data via libzstd.
func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.Decompress(nil, data)
}
