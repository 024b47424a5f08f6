// Package numpack provides a self-describing binary format for compressing
// arrays of numbers.
//
// Numpack targets numeric columns and series: timestamps, counters, sensor
// readings, prices. Input is compressed in chunks; each chunk analyzes its
// values once, picks a reparametrization mode and a differencing spec, then
// splits into pages that decode independently, in any order, and partially.
//
// # Core Features
//
//   - Nine element types: uint16/32/64, int16/32/64, float16/32/64
//   - Automatic mode selection (Classic, IntMult, FloatMult, FloatQuant)
//     driven by the data, overridable per kind
//   - Automatic consecutive differencing up to order 7, with optional
//     lookback distances for interleaved series
//   - Compression levels 0-12 trading compute for ratio, with S2, LZ4 and
//     Zstandard as the byte codecs behind them
//   - Independently decodable pages and progressive prefix decoding
//   - Fully self-describing output with built-in xxHash64 checksums
//
// # Basic Usage
//
// Compressing and decompressing an array:
//
//	import "github.com/arloliu/numpack"
//
//	values := []float64{1.01, 1.02, 1.03, 1.05}
//	data, _ := numpack.Compress(values)
//
//	restored, _ := numpack.Decompress[float64](data)
//
// Decoding just a prefix into a caller-owned buffer:
//
//	head := make([]float64, 2)
//	progress, _ := numpack.DecompressInto(data, head)
//	// progress.NProcessed == 2, progress.Finished == false
//
// Tuning via options from the chunk package:
//
//	data, _ := numpack.Compress(values,
//	    chunk.WithCompressionLevel(12),
//	    chunk.WithDeltaOrder(1),
//	)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the file
// package, simplifying the most common use cases. For control over chunk
// and page boundaries, page-level access, or streaming assembly, use the
// file and chunk packages directly.
package numpack

import (
	"github.com/arloliu/numpack/chunk"
	"github.com/arloliu/numpack/file"
	"github.com/arloliu/numpack/format"
)

// Config aliases the chunk configuration; see chunk.NewConfig.
type Config = chunk.Config

// Option aliases the chunk configuration option type. Option constructors
// live in the chunk package.
type Option = chunk.Option

// Progress reports the outcome of one decode call; see chunk.Progress.
type Progress = chunk.Progress

// Compress compresses values into a complete self-describing byte buffer
// using default settings adjusted by opts. An empty array produces a valid
// zero-chunk container.
func Compress[T format.Number](values []T, opts ...Option) ([]byte, error) {
	cfg, err := chunk.NewConfig(opts...)
	if err != nil {
		return nil, err
	}

	return file.Compress(values, cfg)
}

// Decompress decodes a buffer produced by Compress into a freshly allocated
// slice of the original element type. Passing the wrong type parameter
// fails with errs.ErrDtypeMismatch.
func Decompress[T format.Number](src []byte) ([]T, error) {
	return file.Decompress[T](src)
}

// DecompressInto decodes into dst, stopping once dst is full; running out
// of space is reported through Progress, not as an error.
func DecompressInto[T format.Number](src []byte, dst []T) (Progress, error) {
	return file.DecompressInto(src, dst)
}
