package chunk

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/numpack/endian"
	"github.com/arloliu/numpack/errs"
	"github.com/arloliu/numpack/format"
)

// compressChunk serializes metadata plus all pages into one buffer.
func compressChunk[T format.Number](t *testing.T, values []T, cfg *Config) ([]byte, *Compressor[T]) {
	t.Helper()

	c, err := NewCompressor(values, cfg)
	require.NoError(t, err)

	buf := append([]byte(nil), c.WriteChunkMetadata()...)
	for i := range c.PageSizes() {
		page, err := c.WritePage(i)
		require.NoError(t, err)
		buf = append(buf, page...)
	}
	require.LessOrEqual(t, len(buf), c.SizeHint())

	return buf, c
}

func chunkRoundTrip[T format.Number](t *testing.T, values []T, cfg *Config) {
	t.Helper()

	engine := endian.GetLittleEndianEngine()
	if cfg != nil && cfg.IsBigEndian() {
		engine = endian.GetBigEndianEngine()
	}

	buf, _ := compressChunk(t, values, cfg)

	d, consumed, err := NewDecompressor[T](buf, engine)
	require.NoError(t, err)
	require.Equal(t, len(values), d.N())

	dst := make([]T, len(values))
	progress, total, err := d.ReadChunkInto(buf[consumed:], dst)
	require.NoError(t, err)
	require.Equal(t, len(buf)-consumed, total)
	require.Equal(t, len(values), progress.NProcessed)
	require.True(t, progress.Finished)
	requireSameBits(t, values, dst)
}

// requireSameBits compares element bit patterns, so NaN payloads and signed
// zeros must survive too.
func requireSameBits[T format.Number](t *testing.T, want, got []T) {
	t.Helper()
	require.Equal(t, len(want), len(got))
	for i := range want {
		require.Equal(t, rawBits(want[i]), rawBits(got[i]), "index %d", i)
	}
}

func rawBits[T format.Number](v T) uint64 {
	switch x := any(v).(type) {
	case uint16:
		return uint64(x)
	case uint32:
		return uint64(x)
	case uint64:
		return x
	case int16:
		return uint64(uint16(x))
	case int32:
		return uint64(uint32(x))
	case int64:
		return uint64(x)
	case format.Float16:
		return uint64(x)
	case float32:
		return uint64(math.Float32bits(x))
	case float64:
		return math.Float64bits(x)
	}

	return 0
}

func TestChunk_RoundTripAllTypes(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	n := 3000

	t.Run("uint16", func(t *testing.T) {
		values := make([]uint16, n)
		for i := range values {
			values[i] = uint16(rng.Uint32())
		}
		chunkRoundTrip(t, values, nil)
	})
	t.Run("uint32", func(t *testing.T) {
		values := make([]uint32, n)
		for i := range values {
			values[i] = rng.Uint32()
		}
		chunkRoundTrip(t, values, nil)
	})
	t.Run("uint64", func(t *testing.T) {
		values := make([]uint64, n)
		for i := range values {
			values[i] = rng.Uint64()
		}
		chunkRoundTrip(t, values, nil)
	})
	t.Run("int16", func(t *testing.T) {
		values := make([]int16, n)
		for i := range values {
			values[i] = int16(rng.Uint32())
		}
		chunkRoundTrip(t, values, nil)
	})
	t.Run("int32", func(t *testing.T) {
		values := make([]int32, n)
		for i := range values {
			values[i] = int32(rng.Uint32())
		}
		chunkRoundTrip(t, values, nil)
	})
	t.Run("int64", func(t *testing.T) {
		values := make([]int64, n)
		for i := range values {
			values[i] = int64(rng.Uint64())
		}
		chunkRoundTrip(t, values, nil)
	})
	t.Run("float16", func(t *testing.T) {
		values := make([]format.Float16, n)
		for i := range values {
			values[i] = format.Float16(rng.Uint32())
		}
		chunkRoundTrip(t, values, nil)
	})
	t.Run("float32", func(t *testing.T) {
		values := make([]float32, n)
		for i := range values {
			values[i] = rng.Float32() * 1000
		}
		chunkRoundTrip(t, values, nil)
	})
	t.Run("float64", func(t *testing.T) {
		values := make([]float64, n)
		for i := range values {
			values[i] = rng.NormFloat64() * 1e6
		}
		chunkRoundTrip(t, values, nil)
	})
}

func TestChunk_RoundTripFloatSpecials(t *testing.T) {
	values := []float64{
		0, math.Copysign(0, -1),
		math.NaN(), math.Float64frombits(0x7FF8_0000_0000_0001), // NaN payload
		math.Inf(1), math.Inf(-1),
		math.SmallestNonzeroFloat64, -math.SmallestNonzeroFloat64, // denormals
		math.MaxFloat64, -math.MaxFloat64,
		1.5, -2.25,
	}
	chunkRoundTrip(t, values, nil)
}

func TestChunk_RoundTripAllLevels(t *testing.T) {
	values := make([]float64, 2000)
	for i := range values {
		values[i] = 100 + 0.25*float64(i%37)
	}

	for level := 0; level <= MaxCompressionLevel; level++ {
		cfg, err := NewConfig(WithCompressionLevel(level))
		require.NoError(t, err)
		chunkRoundTrip(t, values, cfg)
	}
}

func TestChunk_RoundTripModesForced(t *testing.T) {
	t.Run("int mult", func(t *testing.T) {
		values := make([]int64, 500)
		for i := range values {
			values[i] = int64(i%50) * 100
		}
		cfg, err := NewConfig(WithIntMultBase(100))
		require.NoError(t, err)
		chunkRoundTrip(t, values, cfg)
	})
	t.Run("float mult", func(t *testing.T) {
		values := make([]float64, 500)
		for i := range values {
			values[i] = 0.01 * float64(i%300)
		}
		cfg, err := NewConfig(WithFloatMultBase(0.01))
		require.NoError(t, err)
		chunkRoundTrip(t, values, cfg)
	})
	t.Run("float mult off grid stays lossless", func(t *testing.T) {
		rng := rand.New(rand.NewSource(9))
		values := make([]float64, 500)
		for i := range values {
			values[i] = rng.NormFloat64()
		}
		cfg, err := NewConfig(WithFloatMultBase(0.01))
		require.NoError(t, err)
		chunkRoundTrip(t, values, cfg)
	})
	t.Run("delta and lookback", func(t *testing.T) {
		values := make([]uint32, 500)
		for i := range values {
			values[i] = uint32(1000 + i*3)
		}
		for _, opt := range []Option{WithDeltaNone(), WithDeltaOrder(2), WithDeltaTryLookback()} {
			cfg, err := NewConfig(opt)
			require.NoError(t, err)
			chunkRoundTrip(t, values, cfg)
		}
	})
}

func TestChunk_EmptyValues(t *testing.T) {
	c, err := NewCompressor([]int64{}, nil)
	require.NoError(t, err)
	require.Zero(t, c.N())
	require.Empty(t, c.PageSizes())

	buf := c.WriteChunkMetadata()
	d, consumed, err := NewDecompressor[int64](buf, endian.GetLittleEndianEngine())
	require.NoError(t, err)
	require.Equal(t, len(buf), consumed)
	require.Zero(t, d.N())

	progress, total, err := d.ReadChunkInto(nil, nil)
	require.NoError(t, err)
	require.Zero(t, total)
	require.True(t, progress.Finished)
}

func TestChunk_IdenticalValuesStayTiny(t *testing.T) {
	values := make([]int32, 1_000_000)
	for i := range values {
		values[i] = 77
	}

	for _, level := range []int{0, 8, 12} {
		cfg, err := NewConfig(WithCompressionLevel(level))
		require.NoError(t, err)

		buf, c := compressChunk(t, values, cfg)
		// Metadata plus a few bytes per page, orders of magnitude below
		// the 4 MB of raw input.
		perPage := 64
		require.Less(t, len(buf), len(c.WriteChunkMetadata())+perPage*len(c.PageSizes()),
			"level %d produced %d bytes", level, len(buf))
	}
}

func TestChunk_ExactPagesAndPageIndependence(t *testing.T) {
	values := make([]float32, 10)
	for i := range values {
		values[i] = float32(i) * 1.5
	}

	cfg, err := NewConfig(WithPaging(ExactPageSizes(6, 4)))
	require.NoError(t, err)

	c, err := NewCompressor(values, cfg)
	require.NoError(t, err)
	require.Equal(t, []int{6, 4}, c.PageSizes())

	meta := c.WriteChunkMetadata()
	page0, err := c.WritePage(0)
	require.NoError(t, err)
	page1, err := c.WritePage(1)
	require.NoError(t, err)

	d, _, err := NewDecompressor[float32](meta, endian.GetLittleEndianEngine())
	require.NoError(t, err)

	// Decode the second page first; pages share no state.
	dst1 := make([]float32, 4)
	progress, consumed, err := d.ReadPageInto(page1, 4, dst1)
	require.NoError(t, err)
	require.Equal(t, len(page1), consumed)
	require.True(t, progress.Finished)
	requireSameBits(t, values[6:], dst1)

	dst0 := make([]float32, 6)
	progress, _, err = d.ReadPageInto(page0, 6, dst0)
	require.NoError(t, err)
	require.Equal(t, 6, progress.NProcessed)
	requireSameBits(t, values[:6], dst0)
}

func TestChunk_EqualPagesMaxFive(t *testing.T) {
	values := make([]float32, 10)
	for i := range values {
		values[i] = float32(i)
	}

	cfg, err := NewConfig(WithPaging(EqualPagesUpTo(5)))
	require.NoError(t, err)

	c, err := NewCompressor(values, cfg)
	require.NoError(t, err)
	require.Equal(t, []int{5, 5}, c.PageSizes())
}

func TestChunk_PagePrefixDecode(t *testing.T) {
	values := make([]int64, 1000)
	for i := range values {
		values[i] = int64(i) * 7
	}

	buf, _ := compressChunk(t, values, nil)
	d, consumed, err := NewDecompressor[int64](buf, endian.GetLittleEndianEngine())
	require.NoError(t, err)
	require.Equal(t, []int{1000}, d.PageSizes())

	// A short destination decodes just the prefix, without error.
	dst := make([]int64, 300)
	progress, _, err := d.ReadPageInto(buf[consumed:], 1000, dst)
	require.NoError(t, err)
	require.Equal(t, 300, progress.NProcessed)
	require.False(t, progress.Finished)
	requireSameBits(t, values[:300], dst)
}

func TestChunk_WritePageOutOfRange(t *testing.T) {
	c, err := NewCompressor([]int64{1, 2, 3}, nil)
	require.NoError(t, err)
	require.Len(t, c.PageSizes(), 1)

	_, err = c.WritePage(-1)
	require.ErrorIs(t, err, errs.ErrPageIndexOutOfRange)
	_, err = c.WritePage(1)
	require.ErrorIs(t, err, errs.ErrPageIndexOutOfRange)
}

func TestChunk_ReadChunkIntoBufferTooSmall(t *testing.T) {
	values := []int64{1, 2, 3, 4, 5}
	buf, _ := compressChunk(t, values, nil)

	d, consumed, err := NewDecompressor[int64](buf, endian.GetLittleEndianEngine())
	require.NoError(t, err)

	dst := make([]int64, 4)
	_, _, err = d.ReadChunkInto(buf[consumed:], dst)
	require.ErrorIs(t, err, errs.ErrBufferTooSmall)
}

func TestChunk_DtypeMismatch(t *testing.T) {
	buf, _ := compressChunk(t, []int64{1, 2, 3}, nil)

	_, _, err := NewDecompressor[float64](buf, endian.GetLittleEndianEngine())
	require.ErrorIs(t, err, errs.ErrDtypeMismatch)

	// Same width is not enough; the tag must match exactly.
	_, _, err = NewDecompressor[uint64](buf, endian.GetLittleEndianEngine())
	require.ErrorIs(t, err, errs.ErrDtypeMismatch)
}

func TestChunk_CorruptedPageChecksum(t *testing.T) {
	values := make([]int64, 200)
	for i := range values {
		values[i] = int64(i * i)
	}

	buf, _ := compressChunk(t, values, nil)
	d, consumed, err := NewDecompressor[int64](buf, endian.GetLittleEndianEngine())
	require.NoError(t, err)

	page := append([]byte(nil), buf[consumed:]...)
	page[len(page)/2] ^= 0x10

	dst := make([]int64, len(values))
	_, _, err = d.ReadPageInto(page, 200, dst)
	require.ErrorIs(t, err, errs.ErrMalformedInput)
}

func TestChunk_TruncatedPage(t *testing.T) {
	values := make([]int64, 200)
	for i := range values {
		values[i] = int64(i)
	}

	buf, _ := compressChunk(t, values, nil)
	d, consumed, err := NewDecompressor[int64](buf, endian.GetLittleEndianEngine())
	require.NoError(t, err)

	page := buf[consumed:]
	dst := make([]int64, len(values))
	for _, cut := range []int{0, 1, len(page) / 2, len(page) - 1} {
		_, _, err = d.ReadPageInto(page[:cut], 200, dst)
		require.ErrorIs(t, err, errs.ErrMalformedInput, "cut %d", cut)
	}
}

func TestChunk_ChecksumDisabled(t *testing.T) {
	values := []int64{10, 20, 30}
	cfg, err := NewConfig(WithChecksumEnabled(false))
	require.NoError(t, err)

	buf, c := compressChunk(t, values, cfg)
	require.False(t, c.meta.HasChecksum())
	chunkRoundTrip(t, values, cfg)
	require.NotEmpty(t, buf)
}

func TestChunk_BigEndian(t *testing.T) {
	values := make([]float64, 500)
	for i := range values {
		values[i] = float64(i) * 0.5
	}

	cfg, err := NewConfig(WithBigEndian())
	require.NoError(t, err)
	chunkRoundTrip(t, values, cfg)
}

func TestChunk_LevelZeroNotLarger(t *testing.T) {
	// Level 0 skips all searches but must stay in the same size ballpark
	// for easy data, thanks to the constant section encoding.
	values := make([]int64, 100_000)
	for i := range values {
		values[i] = 1 << 40
	}

	cfg0, err := NewConfig(WithCompressionLevel(0))
	require.NoError(t, err)
	buf0, _ := compressChunk(t, values, cfg0)

	bufDefault, _ := compressChunk(t, values, nil)
	require.Less(t, len(buf0), 4*(len(bufDefault)+64))
}

func TestChunk_DegradedConfigNotSmaller(t *testing.T) {
	// Turning off every search and transform must still round trip, and on
	// structured data it can only cost bytes relative to the defaults.
	rng := rand.New(rand.NewSource(11))
	values := make([]int64, 20_000)
	for i := range values {
		values[i] = 1_000_000 + int64(i)*737 + rng.Int63n(64)
	}

	degraded, err := NewConfig(
		WithCompressionLevel(0),
		WithDeltaNone(),
		WithIntMultDisabled(),
		WithFloatMultDisabled(),
		WithFloatQuantDisabled(),
	)
	require.NoError(t, err)

	bufDegraded, _ := compressChunk(t, values, degraded)
	bufDefault, _ := compressChunk(t, values, nil)
	require.GreaterOrEqual(t, len(bufDegraded), len(bufDefault))

	chunkRoundTrip(t, values, degraded)
}
