package file

import (
	"fmt"
	"slices"

	"github.com/arloliu/numpack/chunk"
	"github.com/arloliu/numpack/errs"
	"github.com/arloliu/numpack/format"
	"github.com/arloliu/numpack/section"
)

// Compress compresses values into a complete container, splitting the input
// into chunks of at most DefaultChunkN elements. A nil cfg uses defaults.
// An empty array produces a valid container holding zero chunks.
func Compress[T format.Number](values []T, cfg *chunk.Config) ([]byte, error) {
	f, err := NewCompressor(cfg)
	if err != nil {
		return nil, err
	}

	dst := f.AppendHeader(make([]byte, 0, section.HeaderSize+1))
	for len(values) > 0 {
		n := min(len(values), DefaultChunkN)
		dst, err = AppendChunk(f, dst, values[:n])
		if err != nil {
			return nil, err
		}
		values = values[n:]
	}

	return f.AppendFooter(dst), nil
}

// Decompress decodes a complete container into a freshly allocated slice.
// A container holding zero chunks decodes to a nil slice; a container whose
// chunks hold zero elements decodes to an empty one.
func Decompress[T format.Number](src []byte) ([]T, error) {
	d, pos, err := NewDecompressor(src)
	if err != nil {
		return nil, err
	}

	var out []T
	sawChunk := false
	for {
		if pos >= len(src) {
			return nil, fmt.Errorf("%w: missing container terminator", errs.ErrTruncatedInput)
		}
		if d.AtTerminator(src[pos:]) {
			break
		}

		cd, consumed, err := NextChunk[T](d, src[pos:])
		if err != nil {
			return nil, err
		}
		pos += consumed
		sawChunk = true

		cur := len(out)
		out = slices.Grow(out, cd.N())[:cur+cd.N()]
		_, consumed, err = cd.ReadChunkInto(src[pos:], out[cur:])
		if err != nil {
			return nil, err
		}
		pos += consumed
	}

	if !sawChunk {
		return nil, nil
	}
	if out == nil {
		out = []T{}
	}

	return out, nil
}

// DecompressInto decodes a container into dst, stopping early once dst is
// full. The returned progress reports how many elements were written and
// whether the container was fully decoded; running out of destination space
// is not an error. Elements past the decoded prefix are left untouched.
func DecompressInto[T format.Number](src []byte, dst []T) (chunk.Progress, error) {
	d, pos, err := NewDecompressor(src)
	if err != nil {
		return chunk.Progress{}, err
	}

	written := 0
	for {
		if pos >= len(src) {
			return chunk.Progress{}, fmt.Errorf("%w: missing container terminator", errs.ErrTruncatedInput)
		}
		if d.AtTerminator(src[pos:]) {
			return chunk.Progress{NProcessed: written, Finished: true}, nil
		}

		cd, consumed, err := NextChunk[T](d, src[pos:])
		if err != nil {
			return chunk.Progress{NProcessed: written}, err
		}
		pos += consumed

		for _, pageN := range cd.PageSizes() {
			if written == len(dst) {
				return chunk.Progress{NProcessed: written}, nil
			}

			progress, consumed, err := cd.ReadPageInto(src[pos:], pageN, dst[written:])
			written += progress.NProcessed
			if err != nil {
				return chunk.Progress{NProcessed: written}, err
			}
			if !progress.Finished {
				return chunk.Progress{NProcessed: written}, nil
			}
			pos += consumed
		}
	}
}
