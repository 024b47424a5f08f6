package file

import (
	"fmt"

	"github.com/arloliu/numpack/chunk"
	"github.com/arloliu/numpack/endian"
	"github.com/arloliu/numpack/errs"
	"github.com/arloliu/numpack/format"
	"github.com/arloliu/numpack/section"
)

// Decompressor walks a container incrementally. NewDecompressor parses the
// header; the caller then alternates AtTerminator and NextChunk, tracking
// its own position in the source buffer with the returned byte counts.
type Decompressor struct {
	header section.Header
}

// NewDecompressor parses the container header at the start of src and
// returns the decompressor along with the number of bytes consumed.
func NewDecompressor(src []byte) (*Decompressor, int, error) {
	if len(src) == 0 {
		return nil, 0, errs.ErrEmptyInput
	}

	header, err := section.ParseHeader(src)
	if err != nil {
		return nil, 0, err
	}

	return &Decompressor{header: header}, section.HeaderSize, nil
}

// Engine returns the endian engine the container's fixed-width fields use.
func (d *Decompressor) Engine() endian.EndianEngine {
	return d.header.Engine()
}

// AtTerminator reports whether src starts with the container terminator.
func (d *Decompressor) AtTerminator(src []byte) bool {
	return len(src) > 0 && src[0] == section.TerminatorTag
}

// NextChunk parses the chunk metadata block at the start of src and returns
// a chunk decompressor positioned over its pages, along with the number of
// metadata bytes consumed. Callers should check AtTerminator first; at end
// of buffer it fails with ErrTruncatedInput.
func NextChunk[T format.Number](d *Decompressor, src []byte) (*chunk.Decompressor[T], int, error) {
	if len(src) == 0 {
		return nil, 0, fmt.Errorf("%w: missing chunk or terminator", errs.ErrTruncatedInput)
	}

	return chunk.NewDecompressor[T](src, d.header.Engine())
}
