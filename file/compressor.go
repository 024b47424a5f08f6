// Package file implements the container layer: a fixed-size header, any
// number of chunks laid back to back, and a terminator byte. The wrapped
// API (Compressor, Decompressor) gives callers control over chunk and page
// boundaries; the one-shot functions in simple.go cover the common case of
// compressing or decompressing a whole array.
package file

import (
	"slices"

	"github.com/arloliu/numpack/chunk"
	"github.com/arloliu/numpack/format"
	"github.com/arloliu/numpack/section"
)

// DefaultChunkN is the element count at which the one-shot Compress splits
// input into multiple chunks.
const DefaultChunkN = 1_000_000

// Compressor writes a container incrementally: AppendHeader once, then any
// number of AppendChunk calls, then AppendFooter. The same chunk config
// applies to every chunk.
type Compressor struct {
	cfg    *chunk.Config
	header section.Header
}

// NewCompressor creates a container compressor. A nil cfg uses chunk
// defaults.
func NewCompressor(cfg *chunk.Config) (*Compressor, error) {
	if cfg == nil {
		var err error
		cfg, err = chunk.NewConfig()
		if err != nil {
			return nil, err
		}
	}

	header := section.NewHeader()
	if cfg.IsBigEndian() {
		header.WithBigEndian()
	}

	return &Compressor{cfg: cfg, header: header}, nil
}

// Config returns the chunk config the compressor applies to every chunk.
func (f *Compressor) Config() *chunk.Config {
	return f.cfg
}

// AppendHeader appends the container header to dst.
func (f *Compressor) AppendHeader(dst []byte) []byte {
	return f.header.AppendTo(dst)
}

// AppendFooter appends the container terminator to dst, completing it.
func (f *Compressor) AppendFooter(dst []byte) []byte {
	return append(dst, section.TerminatorTag)
}

// AppendChunk compresses values as one chunk, metadata block followed by
// every page in order, and appends it to dst.
func AppendChunk[T format.Number](f *Compressor, dst []byte, values []T) ([]byte, error) {
	cc, err := chunk.NewCompressor(values, f.cfg)
	if err != nil {
		return nil, err
	}

	dst = slices.Grow(dst, cc.SizeHint())
	dst = append(dst, cc.WriteChunkMetadata()...)
	for i := range cc.PageSizes() {
		page, err := cc.WritePage(i)
		if err != nil {
			return nil, err
		}
		dst = append(dst, page...)
	}

	return dst, nil
}
