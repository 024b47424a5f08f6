package section

import (
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/arloliu/numpack/endian"
	"github.com/arloliu/numpack/errs"
	"github.com/arloliu/numpack/format"
	"github.com/arloliu/numpack/internal/bits"
	"github.com/arloliu/numpack/internal/delta"
)

// ChunkMeta is the self-describing metadata block written once per chunk.
//
// Layout:
//
//	[type tag 1B][chunk flags 1B]
//	[mode tag 1B][mode params: IntMult base uvarint | FloatMult base f64 8B |
//	              FloatQuant bits 1B | none for Classic]
//	[delta tag 1B][delta params: order 1B | lookback uvarint | none]
//	[page codec 1B]
//	[element count uvarint][page count uvarint][page sizes uvarint x count]
//	[latent bias uvarint]
//	[xxhash64 8B over all preceding meta bytes, when ChunkFlagChecksum]
//
// Everything a decoder needs to reconstruct values from pages is here; no
// side channel beyond the expected logical type is required.
type ChunkMeta struct {
	Type  format.LogicalType
	Flags uint8

	Mode      format.ModeType
	IntBase   uint64  // ModeIntMult base
	FloatBase float64 // ModeFloatMult base
	QuantBits uint8   // ModeFloatQuant retained mantissa bits

	Delta      format.DeltaType
	DeltaOrder uint8 // DeltaConsecutive order, 1..7
	Lookback   int   // DeltaLookback distance, 1..255

	PageCompression format.CompressionType

	N         int
	PageSizes []int

	// Bias is the chunk-wide minimum primary latent, wrapping-subtracted
	// before delta so undifferenced latents stay small.
	Bias uint64
}

// HasChecksum reports whether metadata and page bodies carry checksums.
func (m *ChunkMeta) HasChecksum() bool {
	return m.Flags&ChunkFlagChecksum != 0
}

// AppendTo appends the serialized metadata block to dst.
func (m *ChunkMeta) AppendTo(dst []byte, engine endian.EndianEngine) []byte {
	start := len(dst)

	dst = append(dst, byte(m.Type), m.Flags, byte(m.Mode))

	switch m.Mode {
	case format.ModeIntMult:
		dst = bits.AppendUvarint(dst, m.IntBase)
	case format.ModeFloatMult:
		dst = engine.AppendUint64(dst, math.Float64bits(m.FloatBase))
	case format.ModeFloatQuant:
		dst = append(dst, m.QuantBits)
	case format.ModeClassic:
	}

	dst = append(dst, byte(m.Delta))
	switch m.Delta {
	case format.DeltaConsecutive:
		dst = append(dst, m.DeltaOrder)
	case format.DeltaLookback:
		dst = bits.AppendUvarint(dst, uint64(m.Lookback))
	case format.DeltaNone:
	}

	dst = append(dst, byte(m.PageCompression))
	dst = bits.AppendUvarint(dst, uint64(m.N))
	dst = bits.AppendUvarint(dst, uint64(len(m.PageSizes)))
	for _, size := range m.PageSizes {
		dst = bits.AppendUvarint(dst, uint64(size))
	}
	dst = bits.AppendUvarint(dst, m.Bias)

	if m.HasChecksum() {
		dst = engine.AppendUint64(dst, xxhash.Sum64(dst[start:]))
	}

	return dst
}

// ParseChunkMeta parses and validates a metadata block from the prefix of
// src, returning the number of bytes consumed. Callers may pass a larger
// buffer; only the metadata prefix is read.
func ParseChunkMeta(src []byte, engine endian.EndianEngine) (ChunkMeta, int, error) {
	var m ChunkMeta
	r := metaReader{src: src}

	typeTag := r.byte()
	m.Flags = r.byte()
	m.Mode = format.ModeType(r.byte())
	if r.err != nil {
		return m, 0, r.err
	}

	m.Type = format.LogicalType(typeTag)
	if !m.Type.IsValid() {
		return m, 0, fmt.Errorf("%w: 0x%02x", errs.ErrUnrecognizedType, typeTag)
	}
	if m.Flags&^ChunkFlagChecksum != 0 {
		return m, 0, fmt.Errorf("%w: unknown chunk flags 0x%02x", errs.ErrMalformedInput, m.Flags)
	}

	switch m.Mode {
	case format.ModeClassic:
	case format.ModeIntMult:
		m.IntBase = r.uvarint()
		if r.err == nil && m.IntBase < 2 {
			return m, 0, fmt.Errorf("%w: int mult base %d", errs.ErrMalformedInput, m.IntBase)
		}
	case format.ModeFloatMult:
		m.FloatBase = math.Float64frombits(r.uint64(engine))
		if r.err == nil && !(m.FloatBase > 0 && !math.IsInf(m.FloatBase, 0)) {
			return m, 0, fmt.Errorf("%w: float mult base %v", errs.ErrMalformedInput, m.FloatBase)
		}
	case format.ModeFloatQuant:
		m.QuantBits = r.byte()
	default:
		return m, 0, fmt.Errorf("%w: unknown mode tag 0x%02x", errs.ErrMalformedInput, byte(m.Mode))
	}

	m.Delta = format.DeltaType(r.byte())
	switch m.Delta {
	case format.DeltaNone:
	case format.DeltaConsecutive:
		m.DeltaOrder = r.byte()
		if r.err == nil && (m.DeltaOrder == 0 || m.DeltaOrder > delta.MaxConsecutiveOrder) {
			return m, 0, fmt.Errorf("%w: delta order %d", errs.ErrMalformedInput, m.DeltaOrder)
		}
	case format.DeltaLookback:
		m.Lookback = int(r.uvarint())
		if r.err == nil && (m.Lookback < 1 || m.Lookback > delta.MaxLookback) {
			return m, 0, fmt.Errorf("%w: lookback %d", errs.ErrMalformedInput, m.Lookback)
		}
	default:
		return m, 0, fmt.Errorf("%w: unknown delta tag 0x%02x", errs.ErrMalformedInput, byte(m.Delta))
	}

	m.PageCompression = format.CompressionType(r.byte())
	if r.err == nil && m.PageCompression.String() == "Unknown" {
		return m, 0, fmt.Errorf("%w: unknown page compression 0x%02x", errs.ErrMalformedInput, byte(m.PageCompression))
	}

	n64 := r.uvarint()
	pageCount := r.uvarint()
	if r.err != nil {
		return m, 0, r.err
	}
	if n64 > MaxChunkN {
		return m, 0, fmt.Errorf("%w: element count %d exceeds %d", errs.ErrMalformedInput, n64, uint64(MaxChunkN))
	}
	if pageCount > n64 {
		return m, 0, fmt.Errorf("%w: %d pages for %d elements", errs.ErrMalformedInput, pageCount, n64)
	}
	// Every page size occupies at least one byte, so a count past the
	// remaining input is a forgery; checking first keeps the slice
	// allocation bounded by the input length.
	if pageCount > uint64(len(src)-r.pos) {
		return m, 0, fmt.Errorf("%w: %d page sizes", errs.ErrTruncatedInput, pageCount)
	}
	m.N = int(n64)

	m.PageSizes = make([]int, pageCount)
	total := uint64(0)
	for i := range m.PageSizes {
		size := r.uvarint()
		if r.err != nil {
			return m, 0, r.err
		}
		if size == 0 || size > n64 {
			return m, 0, fmt.Errorf("%w: page %d has size %d", errs.ErrMalformedInput, i, size)
		}
		m.PageSizes[i] = int(size)
		total += size
		if total > n64 {
			break
		}
	}
	if total != n64 {
		return m, 0, fmt.Errorf("%w: page sizes sum to %d, element count is %d", errs.ErrMalformedInput, total, n64)
	}

	m.Bias = r.uvarint()
	if r.err != nil {
		return m, 0, r.err
	}

	if m.HasChecksum() {
		sum := xxhash.Sum64(src[:r.pos])
		stored := r.uint64(engine)
		if r.err != nil {
			return m, 0, r.err
		}
		if stored != sum {
			return m, 0, fmt.Errorf("%w: chunk metadata", errs.ErrChecksumMismatch)
		}
	}

	if err := m.validateForType(); err != nil {
		return m, 0, err
	}

	return m, r.pos, nil
}

// validateForType rejects mode/type combinations that can never be produced
// by a well-formed encoder, so a flipped tag byte is caught rather than
// misinterpreted.
func (m *ChunkMeta) validateForType() error {
	switch m.Mode {
	case format.ModeIntMult:
		if !m.Type.IsInt() {
			return fmt.Errorf("%w: IntMult on %s", errs.ErrMalformedInput, m.Type)
		}
	case format.ModeFloatMult:
		if m.Type != format.TypeFloat32 && m.Type != format.TypeFloat64 {
			return fmt.Errorf("%w: FloatMult on %s", errs.ErrMalformedInput, m.Type)
		}
	case format.ModeFloatQuant:
		if m.Type != format.TypeFloat32 && m.Type != format.TypeFloat64 {
			return fmt.Errorf("%w: FloatQuant on %s", errs.ErrMalformedInput, m.Type)
		}
		if int(m.QuantBits) == 0 || int(m.QuantBits) > m.Type.MantissaBits() {
			return fmt.Errorf("%w: %d quant bits for %s", errs.ErrMalformedInput, m.QuantBits, m.Type)
		}
	case format.ModeClassic:
	}

	return nil
}

// metaReader tracks a parse position and sticks at the first error, keeping
// the field-by-field parse above linear.
type metaReader struct {
	src []byte
	pos int
	err error
}

func (r *metaReader) byte() byte {
	if r.err != nil {
		return 0
	}
	if r.pos >= len(r.src) {
		r.err = fmt.Errorf("%w: chunk metadata", errs.ErrTruncatedInput)
		return 0
	}
	b := r.src[r.pos]
	r.pos++

	return b
}

func (r *metaReader) uvarint() uint64 {
	if r.err != nil {
		return 0
	}
	v, n := bits.Uvarint(r.src[r.pos:])
	if n <= 0 {
		r.err = fmt.Errorf("%w: chunk metadata varint", errs.ErrMalformedInput)
		return 0
	}
	r.pos += n

	return v
}

func (r *metaReader) uint64(engine endian.EndianEngine) uint64 {
	if r.err != nil {
		return 0
	}
	if r.pos+8 > len(r.src) {
		r.err = fmt.Errorf("%w: chunk metadata", errs.ErrTruncatedInput)
		return 0
	}
	v := engine.Uint64(r.src[r.pos : r.pos+8])
	r.pos += 8

	return v
}
