package chunk

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/arloliu/numpack/compress"
	"github.com/arloliu/numpack/endian"
	"github.com/arloliu/numpack/errs"
	"github.com/arloliu/numpack/format"
	"github.com/arloliu/numpack/internal/bits"
	"github.com/arloliu/numpack/internal/delta"
	"github.com/arloliu/numpack/internal/latent"
	"github.com/arloliu/numpack/internal/mode"
	"github.com/arloliu/numpack/internal/pool"
	"github.com/arloliu/numpack/section"
)

// Decompressor reads one chunk back. NewDecompressor parses and validates
// the metadata prefix; after that ReadPageInto decodes any page in any
// order, including just a prefix of it when the destination is smaller
// than the page.
type Decompressor[T format.Number] struct {
	engine   endian.EndianEngine
	meta     section.ChunkMeta
	resolved mode.Resolved
	codec    compress.Codec
}

// NewDecompressor parses the chunk metadata block at the start of src and
// returns a decompressor for the chunk along with the number of metadata
// bytes consumed. It fails with ErrDtypeMismatch when the chunk holds a
// different element type than T.
func NewDecompressor[T format.Number](src []byte, engine endian.EndianEngine) (*Decompressor[T], int, error) {
	meta, consumed, err := section.ParseChunkMeta(src, engine)
	if err != nil {
		return nil, 0, err
	}

	expected := format.Detect[T]()
	if meta.Type != expected {
		return nil, 0, fmt.Errorf("%w: chunk holds %s, want %s", errs.ErrDtypeMismatch, meta.Type, expected)
	}

	var codec compress.Codec
	if meta.PageCompression != format.CompressionNone {
		codec, err = compress.GetCodec(meta.PageCompression)
		if err != nil {
			return nil, 0, err
		}
	}

	d := &Decompressor[T]{
		engine: engine,
		meta:   meta,
		resolved: mode.Resolved{
			Mode:       meta.Mode,
			IntBase:    meta.IntBase,
			FloatBase:  meta.FloatBase,
			QuantBits:  meta.QuantBits,
			Delta:      meta.Delta,
			DeltaOrder: meta.DeltaOrder,
			Lookback:   meta.Lookback,
		},
		codec: codec,
	}

	return d, consumed, nil
}

// N returns the number of elements in the chunk.
func (d *Decompressor[T]) N() int {
	return d.meta.N
}

// PageSizes returns the per-page element counts recorded in the chunk
// metadata. The returned slice must not be modified.
func (d *Decompressor[T]) PageSizes() []int {
	return d.meta.PageSizes
}

// Meta returns a copy of the parsed chunk metadata.
func (d *Decompressor[T]) Meta() section.ChunkMeta {
	return d.meta
}

// ReadPageInto decodes one page from the start of pageBytes into dst,
// returning decode progress and the number of source bytes the page
// occupied. pageN is the page's element count, taken from PageSizes.
//
// When dst is shorter than the page only the first len(dst) elements are
// decoded and Progress.Finished is false. Extra bytes after the page frame
// are ignored, so callers can pass the remainder of a chunk buffer.
func (d *Decompressor[T]) ReadPageInto(pageBytes []byte, pageN int, dst []T) (Progress, int, error) {
	if pageN < 0 {
		return Progress{}, 0, fmt.Errorf("%w: page element count %d", errs.ErrInvalidConfig, pageN)
	}

	bodyLen64, n := bits.Uvarint(pageBytes)
	if n <= 0 {
		return Progress{}, 0, fmt.Errorf("%w: page body length", errs.ErrMalformedInput)
	}
	if bodyLen64 > uint64(len(pageBytes)) {
		return Progress{}, 0, fmt.Errorf("%w: page body of %d bytes, have %d", errs.ErrTruncatedInput, bodyLen64, len(pageBytes))
	}
	bodyLen := int(bodyLen64)

	total := n + bodyLen
	if d.meta.HasChecksum() {
		total += section.ChecksumSize
	}
	if total > len(pageBytes) {
		return Progress{}, 0, fmt.Errorf("%w: page needs %d bytes, have %d", errs.ErrTruncatedInput, total, len(pageBytes))
	}

	body := pageBytes[n : n+bodyLen]
	if d.meta.HasChecksum() {
		stored := d.engine.Uint64(pageBytes[n+bodyLen : total])
		if stored != xxhash.Sum64(body) {
			return Progress{}, 0, fmt.Errorf("%w: page body", errs.ErrChecksumMismatch)
		}
	}

	primary, releasePrimary := pool.GetUint64Slice(pageN)
	defer releasePrimary()

	consumed, err := latent.ReadSection(body, pageN, d.codec, primary)
	if err != nil {
		return Progress{}, 0, err
	}

	var secondary []uint64
	if d.meta.Mode.HasSecondaryLatent() {
		var releaseSecondary func()
		secondary, releaseSecondary = pool.GetUint64Slice(pageN)
		defer releaseSecondary()

		var sn int
		sn, err = latent.ReadSection(body[consumed:], pageN, d.codec, secondary)
		if err != nil {
			return Progress{}, 0, err
		}
		consumed += sn
	}
	if consumed != len(body) {
		return Progress{}, 0, fmt.Errorf("%w: %d trailing bytes in page body", errs.ErrMalformedInput, len(body)-consumed)
	}

	k := min(pageN, len(dst))

	// Differencing and bias are undone only over the prefix actually
	// requested; both reconstructions are prefix-local.
	switch d.meta.Delta {
	case format.DeltaConsecutive:
		delta.DecodeConsecutive(primary[:k], int(d.meta.DeltaOrder))
	case format.DeltaLookback:
		delta.DecodeLookback(primary[:k], d.meta.Lookback)
	case format.DeltaNone:
	}
	for i := 0; i < k; i++ {
		primary[i] += d.meta.Bias
	}

	if secondary != nil {
		secondary = secondary[:k]
	}
	mode.Join(d.resolved, primary[:k], secondary, dst[:k])

	return Progress{NProcessed: k, Finished: pageN <= len(dst)}, total, nil
}

// ReadChunkInto decodes every page of the chunk, laid out back to back at
// the start of src, into dst. It returns the total source bytes consumed.
// dst must hold at least N elements; use ReadPageInto for partial decodes.
func (d *Decompressor[T]) ReadChunkInto(src []byte, dst []T) (Progress, int, error) {
	if len(dst) < d.meta.N {
		return Progress{}, 0, fmt.Errorf("%w: need %d elements, have %d", errs.ErrBufferTooSmall, d.meta.N, len(dst))
	}

	pos := 0
	written := 0
	for _, pageN := range d.meta.PageSizes {
		progress, consumed, err := d.ReadPageInto(src[pos:], pageN, dst[written:])
		if err != nil {
			return Progress{NProcessed: written}, pos, err
		}
		pos += consumed
		written += progress.NProcessed
	}

	return Progress{NProcessed: written, Finished: true}, pos, nil
}
