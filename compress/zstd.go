package compress

// ZstdCompressor provides Zstandard compression for latent payloads.
//
// Zstd backs the upper compression levels, where ratio matters more than
// encode speed: residual structure that survives the numeric transforms
// (repeated varint prefixes, clustered byte values) is exactly what its
// entropy stage removes.
//
// Two backends exist behind a build tag:
//   - default: pure Go (github.com/klauspost/compress/zstd)
//   - nump_cgo_zstd: cgo libzstd (github.com/valyala/gozstd), slightly
//     better ratio and speed where cgo is acceptable
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a Zstd codec with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
