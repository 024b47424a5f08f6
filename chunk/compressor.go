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

// Compressor compresses one typed array into a chunk. All analysis happens
// in NewCompressor; WriteChunkMetadata and WritePage only serialize, so
// pages can be written in any order and from multiple goroutines.
type Compressor[T format.Number] struct {
	engine endian.EndianEngine
	meta   section.ChunkMeta
	codec  compress.Codec

	// primary holds the bias-subtracted primary latents for the whole
	// chunk; secondary is nil unless the resolved mode produces one.
	primary   []uint64
	secondary []uint64

	pageOffsets []int
	metaBytes   []byte
}

// NewCompressor analyzes values under cfg and prepares a chunk compressor.
// A nil cfg uses defaults. The values slice is not retained; it may be
// reused immediately.
func NewCompressor[T format.Number](values []T, cfg *Config) (*Compressor[T], error) {
	if cfg == nil {
		cfg = defaultConfig()
	}
	if len(values) > section.MaxChunkN {
		return nil, fmt.Errorf("%w: %d elements in one chunk, limit is %d", errs.ErrInvalidConfig, len(values), section.MaxChunkN)
	}

	pageSizes, err := cfg.paging.Plan(len(values))
	if err != nil {
		return nil, err
	}

	resolved, err := mode.Resolve(values, cfg.modeRequest())
	if err != nil {
		return nil, err
	}

	primary, secondary := mode.Split(values, resolved)

	var bias uint64
	if len(primary) > 0 {
		bias = primary[0]
		for _, v := range primary[1:] {
			if v < bias {
				bias = v
			}
		}
		for i := range primary {
			primary[i] -= bias
		}
	}

	compression := cfg.pageCompression()
	var codec compress.Codec
	if compression != format.CompressionNone {
		codec, err = compress.GetCodec(compression)
		if err != nil {
			return nil, err
		}
	}

	var flags uint8
	if cfg.checksum {
		flags |= section.ChunkFlagChecksum
	}

	c := &Compressor[T]{
		engine: cfg.Engine(),
		meta: section.ChunkMeta{
			Type:            format.Detect[T](),
			Flags:           flags,
			Mode:            resolved.Mode,
			IntBase:         resolved.IntBase,
			FloatBase:       resolved.FloatBase,
			QuantBits:       resolved.QuantBits,
			Delta:           resolved.Delta,
			DeltaOrder:      resolved.DeltaOrder,
			Lookback:        resolved.Lookback,
			PageCompression: compression,
			N:               len(values),
			PageSizes:       pageSizes,
			Bias:            bias,
		},
		codec:     codec,
		primary:   primary,
		secondary: secondary,
	}

	c.pageOffsets = make([]int, len(pageSizes)+1)
	for i, size := range pageSizes {
		c.pageOffsets[i+1] = c.pageOffsets[i] + size
	}
	c.metaBytes = c.meta.AppendTo(nil, c.engine)

	return c, nil
}

// N returns the number of elements in the chunk.
func (c *Compressor[T]) N() int {
	return c.meta.N
}

// PageSizes returns the planned per-page element counts. The returned slice
// must not be modified.
func (c *Compressor[T]) PageSizes() []int {
	return c.meta.PageSizes
}

// WriteChunkMetadata returns the serialized chunk metadata block. The result
// is cached; repeated calls return the same bytes and the caller must not
// modify them.
func (c *Compressor[T]) WriteChunkMetadata() []byte {
	return c.metaBytes
}

// WritePage serializes page index and returns its self-contained byte
// representation. Pages may be written in any order; concurrent calls for
// distinct indexes are safe.
func (c *Compressor[T]) WritePage(index int) ([]byte, error) {
	if index < 0 || index >= len(c.meta.PageSizes) {
		return nil, fmt.Errorf("%w: page %d of %d", errs.ErrPageIndexOutOfRange, index, len(c.meta.PageSizes))
	}

	start := c.pageOffsets[index]
	end := c.pageOffsets[index+1]

	latents, release := pool.GetUint64Slice(end - start)
	defer release()
	copy(latents, c.primary[start:end])

	switch c.meta.Delta {
	case format.DeltaConsecutive:
		delta.EncodeConsecutive(latents, int(c.meta.DeltaOrder))
	case format.DeltaLookback:
		delta.EncodeLookback(latents, c.meta.Lookback)
	case format.DeltaNone:
	}

	buf := pool.GetPageBuffer()
	defer pool.PutPageBuffer(buf)

	body, err := latent.AppendSection(buf.B[:0], latents, c.codec)
	if err != nil {
		return nil, err
	}
	if c.secondary != nil {
		body, err = latent.AppendSection(body, c.secondary[start:end], c.codec)
		if err != nil {
			return nil, err
		}
	}
	buf.B = body

	out := make([]byte, 0, bits.MaxVarintLen64+len(body)+section.ChecksumSize)
	out = bits.AppendUvarint(out, uint64(len(body)))
	out = append(out, body...)
	if c.meta.HasChecksum() {
		out = c.engine.AppendUint64(out, xxhash.Sum64(body))
	}

	return out, nil
}

// SizeHint returns an upper bound on the total serialized chunk size,
// suitable for preallocating an output buffer.
func (c *Compressor[T]) SizeHint() int {
	perElem := bits.MaxVarintLen64
	streams := 1
	if c.secondary != nil {
		streams = 2
	}

	size := len(c.metaBytes)
	for _, pageN := range c.meta.PageSizes {
		size += bits.MaxVarintLen64 + section.ChecksumSize
		size += streams * (2 + bits.MaxVarintLen64 + pageN*perElem)
	}

	return size
}
