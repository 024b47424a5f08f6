// Package compress provides the generic byte codecs applied to latent
// payloads inside pages.
//
// The codec sits below the numeric transform and delta layers: by the time
// data reaches it, values have been reduced to zigzag varint streams, and the
// codec is a pure lossless byte compactor. Which codec a chunk uses is
// recorded in its metadata, so decoding is always self-describing.
package compress

import (
	"fmt"

	"github.com/arloliu/numpack/format"
)

// Compressor compresses one latent payload.
//
// Memory contract: the returned slice is newly allocated and owned by the
// caller, the input is never modified, and implementations may reuse
// internal buffers across calls.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor of the same compression type.
//
// Implementations validate the input framing and return an error for
// corrupted payloads rather than producing wrong bytes. They must be safe
// for concurrent use; pages are decoded in parallel.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions of one compression algorithm.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec creates a Codec for the given compression type.
//
// Parameters:
//   - compressionType: one of format.CompressionNone/Zstd/S2/LZ4
//   - target: description of the usage, for error messages
//
// Returns:
//   - Codec: codec instance for the type
//   - error: unknown compression type
func CreateCodec(compressionType format.CompressionType, target string) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("invalid %s compression: %s", target, compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves a shared built-in Codec for the compression type.
// The built-in codecs are stateless or pool-backed and safe to share.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}
