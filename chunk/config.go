// Package chunk implements the core of the format: compressing one typed
// array into a self-describing chunk of independently decodable pages, and
// reading such chunks back.
//
// A chunk is produced in two phases. NewCompressor resolves the transform
// mode, delta spec and page plan eagerly (all configuration errors surface
// here), then WriteChunkMetadata and WritePage serialize the metadata block
// and each page. Pages may be written in any order and, because they share
// no mutable state, concurrently.
//
// Decoding mirrors this: NewDecompressor parses the metadata prefix once,
// after which ReadPageInto decodes any page, in any order, concurrently if
// each call targets a distinct destination.
package chunk

import (
	"fmt"

	"github.com/arloliu/numpack/compress"
	"github.com/arloliu/numpack/endian"
	"github.com/arloliu/numpack/errs"
	"github.com/arloliu/numpack/format"
	"github.com/arloliu/numpack/internal/bits"
	"github.com/arloliu/numpack/internal/delta"
	"github.com/arloliu/numpack/internal/mode"
	"github.com/arloliu/numpack/internal/options"
)

const (
	// DefaultCompressionLevel is a good ratio/speed tradeoff for most data.
	DefaultCompressionLevel = 8

	// MaxCompressionLevel is the highest accepted compression level.
	MaxCompressionLevel = 12

	// DefaultMaxPageN is the default page size limit in elements.
	DefaultMaxPageN = 1 << 18
)

// PagingSpec describes how a chunk splits into pages.
//
// The zero value is not valid; use EqualPagesUpTo or ExactPageSizes.
type PagingSpec struct {
	exact    []int
	maxPageN int
}

// EqualPagesUpTo splits n elements into ceil(n/maxPageN) contiguous pages
// of as-equal-as-possible size, no two differing by more than one element
// and none exceeding maxPageN.
func EqualPagesUpTo(maxPageN int) PagingSpec {
	return PagingSpec{maxPageN: maxPageN}
}

// ExactPageSizes splits the chunk into exactly the given element counts.
// The sizes must be positive and sum to the chunk's element count.
func ExactPageSizes(sizes ...int) PagingSpec {
	exact := make([]int, len(sizes))
	copy(exact, sizes)

	return PagingSpec{exact: exact}
}

// Plan returns the ordered page element counts for n elements.
// n == 0 yields zero pages.
func (p PagingSpec) Plan(n int) ([]int, error) {
	if p.exact != nil {
		total := 0
		for i, size := range p.exact {
			if size <= 0 {
				return nil, fmt.Errorf("%w: page %d has size %d", errs.ErrInvalidPagingSpec, i, size)
			}
			total += size
		}
		if total != n {
			return nil, fmt.Errorf("%w: page sizes sum to %d, chunk has %d elements",
				errs.ErrInvalidPagingSpec, total, n)
		}

		sizes := make([]int, len(p.exact))
		copy(sizes, p.exact)

		return sizes, nil
	}

	if p.maxPageN <= 0 {
		return nil, fmt.Errorf("%w: max page size %d", errs.ErrInvalidPagingSpec, p.maxPageN)
	}
	if n == 0 {
		return nil, nil
	}

	pages := bits.CeilDiv(n, p.maxPageN)
	base := n / pages
	rem := n % pages
	sizes := make([]int, pages)
	for i := range sizes {
		sizes[i] = base
		if i < rem {
			sizes[i]++
		}
	}

	return sizes, nil
}

// Config aggregates everything that shapes one chunk compression call:
// compression level, per-kind mode specs, delta spec, paging, endianness and
// checksumming. Construct it once with NewConfig; it is immutable afterward
// and safe to share across chunks and goroutines.
type Config struct {
	level int

	intMult    mode.SpecKind
	intBase    uint64
	floatMult  mode.SpecKind
	floatBase  float64
	floatQuant mode.SpecKind
	quantBits  uint32

	delta      mode.DeltaKind
	deltaOrder int

	paging      PagingSpec
	bigEndian   bool
	checksum    bool
	compression format.CompressionType // 0 means derive from level
}

// Option configures a Config.
type Option = options.Option[*Config]

// NewConfig creates a Config with defaults (level 8, all modes enabled for
// automatic selection, automatic delta order, equal pages up to
// DefaultMaxPageN, little-endian, checksums on) and applies opts.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		level:    DefaultCompressionLevel,
		paging:   EqualPagesUpTo(DefaultMaxPageN),
		checksum: true,
	}
}

// WithCompressionLevel sets the compression level, 0 to 12.
//
// Level 0 performs no mode/delta search and no byte compression; it still
// round-trips exactly. Higher levels search more candidates on larger
// samples and use stronger byte codecs, trading compute for ratio. The
// level itself is not stored: output is self-describing at every level.
func WithCompressionLevel(level int) Option {
	return options.New(func(cfg *Config) error {
		if level < 0 || level > MaxCompressionLevel {
			return fmt.Errorf("%w: %d not in [0, %d]", errs.ErrInvalidCompressionLevel, level, MaxCompressionLevel)
		}
		cfg.level = level

		return nil
	})
}

// WithIntMultDisabled removes integer multiplier detection.
func WithIntMultDisabled() Option {
	return options.NoError(func(cfg *Config) { cfg.intMult = mode.SpecDisabled })
}

// WithIntMultBase forces integer multiplier mode with the given base.
// The base must be at least 2. Only legal for integer element types.
func WithIntMultBase(base uint64) Option {
	return options.New(func(cfg *Config) error {
		if base < 2 {
			return fmt.Errorf("%w: IntMult base %d", errs.ErrInvalidModeSpec, base)
		}
		cfg.intMult = mode.SpecProvided
		cfg.intBase = base

		return nil
	})
}

// WithFloatMultDisabled removes float multiplier detection.
func WithFloatMultDisabled() Option {
	return options.NoError(func(cfg *Config) { cfg.floatMult = mode.SpecDisabled })
}

// WithFloatMultBase forces float multiplier mode with the given base.
// The base must be positive and finite. Only legal for float32/float64.
func WithFloatMultBase(base float64) Option {
	return options.New(func(cfg *Config) error {
		if !(base > 0) || base > 1e308 {
			return fmt.Errorf("%w: FloatMult base %v", errs.ErrInvalidModeSpec, base)
		}
		cfg.floatMult = mode.SpecProvided
		cfg.floatBase = base

		return nil
	})
}

// WithFloatQuantDisabled removes float quantization detection.
func WithFloatQuantDisabled() Option {
	return options.NoError(func(cfg *Config) { cfg.floatQuant = mode.SpecDisabled })
}

// WithFloatQuantBits forces float quantization keeping the given number of
// mantissa bits. Only legal for float32/float64, with bits within the
// element's mantissa width; data that does not fit falls back to Classic.
func WithFloatQuantBits(bitCount uint32) Option {
	return options.New(func(cfg *Config) error {
		if bitCount == 0 {
			return fmt.Errorf("%w: FloatQuant bits must be positive", errs.ErrInvalidModeSpec)
		}
		cfg.floatQuant = mode.SpecProvided
		cfg.quantBits = bitCount

		return nil
	})
}

// WithDeltaNone disables differencing.
func WithDeltaNone() Option {
	return options.NoError(func(cfg *Config) { cfg.delta = mode.DeltaOff })
}

// WithDeltaOrder forces consecutive differencing at the given order,
// 0 (disabled) to 7. Each order removes one degree of smooth trend and
// roughly doubles worst-case latent range.
func WithDeltaOrder(order int) Option {
	return options.New(func(cfg *Config) error {
		if order < 0 || order > delta.MaxConsecutiveOrder {
			return fmt.Errorf("%w: %d not in [0, %d]", errs.ErrInvalidDeltaOrder, order, delta.MaxConsecutiveOrder)
		}
		cfg.delta = mode.DeltaForced
		cfg.deltaOrder = order

		return nil
	})
}

// WithDeltaTryLookback adds lookback distances to the automatic delta
// search, which helps interleaved or periodic series.
func WithDeltaTryLookback() Option {
	return options.NoError(func(cfg *Config) { cfg.delta = mode.DeltaTryLookback })
}

// WithPaging sets the paging spec. The spec is validated against the actual
// element count when a compressor is created.
func WithPaging(spec PagingSpec) Option {
	return options.NoError(func(cfg *Config) { cfg.paging = spec })
}

// WithLittleEndian selects little-endian fixed-width wire fields (default).
func WithLittleEndian() Option {
	return options.NoError(func(cfg *Config) { cfg.bigEndian = false })
}

// WithBigEndian selects big-endian fixed-width wire fields.
func WithBigEndian() Option {
	return options.NoError(func(cfg *Config) { cfg.bigEndian = true })
}

// WithChecksumEnabled toggles xxhash64 checksums on chunk metadata and page
// bodies. Enabled by default; disable only when an outer layer already
// guards integrity.
func WithChecksumEnabled(enabled bool) Option {
	return options.NoError(func(cfg *Config) { cfg.checksum = enabled })
}

// WithPageCompression overrides the byte codec applied to latent payloads,
// which is otherwise derived from the compression level.
func WithPageCompression(compression format.CompressionType) Option {
	return options.New(func(cfg *Config) error {
		if _, err := compress.CreateCodec(compression, "page"); err != nil {
			return fmt.Errorf("%w: %v", errs.ErrInvalidConfig, err)
		}
		cfg.compression = compression

		return nil
	})
}

// Engine returns the endian engine the config selects for wire fields.
func (c *Config) Engine() endian.EndianEngine {
	if c.bigEndian {
		return endian.GetBigEndianEngine()
	}

	return endian.GetLittleEndianEngine()
}

// IsBigEndian reports whether big-endian wire fields were configured.
func (c *Config) IsBigEndian() bool {
	return c.bigEndian
}

// Level returns the configured compression level.
func (c *Config) Level() int {
	return c.level
}

// pageCompression maps the compression level to a byte codec unless an
// explicit override was configured.
func (c *Config) pageCompression() format.CompressionType {
	if c.compression != 0 {
		return c.compression
	}

	switch {
	case c.level <= 0:
		return format.CompressionNone
	case c.level <= 2:
		return format.CompressionS2
	case c.level <= 5:
		return format.CompressionLZ4
	default:
		return format.CompressionZstd
	}
}

func (c *Config) modeRequest() mode.Request {
	return mode.Request{
		Level:      c.level,
		IntMult:    c.intMult,
		IntBase:    c.intBase,
		FloatMult:  c.floatMult,
		FloatBase:  c.floatBase,
		FloatQuant: c.floatQuant,
		QuantBits:  c.quantBits,
		Delta:      c.delta,
		DeltaOrder: c.deltaOrder,
	}
}
