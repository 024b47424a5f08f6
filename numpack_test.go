package numpack

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/numpack/chunk"
	"github.com/arloliu/numpack/errs"
	"github.com/arloliu/numpack/format"
)

func TestCompressDecompress_RoundTrip(t *testing.T) {
	values := make([]float64, 50_000)
	for i := range values {
		values[i] = 20 + 0.01*float64(i%1000)
	}

	data, err := Compress(values)
	require.NoError(t, err)
	require.Less(t, len(data), 8*len(values), "compressed output should beat raw size on gridded data")

	restored, err := Decompress[float64](data)
	require.NoError(t, err)
	require.Equal(t, values, restored)
}

func TestCompress_WithOptions(t *testing.T) {
	values := make([]int64, 10_000)
	for i := range values {
		values[i] = 1_600_000_000 + int64(i)*15
	}

	data, err := Compress(values,
		chunk.WithCompressionLevel(12),
		chunk.WithDeltaOrder(1),
	)
	require.NoError(t, err)

	restored, err := Decompress[int64](data)
	require.NoError(t, err)
	require.Equal(t, values, restored)

	// Regular timestamps with order-1 delta collapse to almost nothing.
	require.Less(t, len(data), len(values)/100)
}

func TestCompress_InvalidOption(t *testing.T) {
	_, err := Compress([]int64{1}, chunk.WithCompressionLevel(99))
	require.ErrorIs(t, err, errs.ErrInvalidCompressionLevel)
}

func TestCompress_EmptyArray(t *testing.T) {
	data, err := Compress([]float32{})
	require.NoError(t, err)
	require.NotEmpty(t, data)

	restored, err := Decompress[float32](data)
	require.NoError(t, err)
	require.Empty(t, restored)
}

func TestDecompressInto_Prefix(t *testing.T) {
	values := make([]uint16, 4096)
	for i := range values {
		values[i] = uint16(i)
	}

	data, err := Compress(values)
	require.NoError(t, err)

	head := make([]uint16, 128)
	progress, err := DecompressInto(data, head)
	require.NoError(t, err)
	require.Equal(t, 128, progress.NProcessed)
	require.False(t, progress.Finished)
	require.Equal(t, values[:128], head)
}

func TestRoundTrip_AllElementTypes(t *testing.T) {
	t.Run("float16", func(t *testing.T) {
		values := []format.Float16{0x0000, 0x3C00, 0xBC00, 0x7BFF}
		data, err := Compress(values)
		require.NoError(t, err)
		restored, err := Decompress[format.Float16](data)
		require.NoError(t, err)
		require.Equal(t, values, restored)
	})
	t.Run("int16", func(t *testing.T) {
		values := []int16{math.MinInt16, -1, 0, 1, math.MaxInt16}
		data, err := Compress(values)
		require.NoError(t, err)
		restored, err := Decompress[int16](data)
		require.NoError(t, err)
		require.Equal(t, values, restored)
	})
	t.Run("uint64", func(t *testing.T) {
		values := []uint64{0, 1, math.MaxUint64}
		data, err := Compress(values)
		require.NoError(t, err)
		restored, err := Decompress[uint64](data)
		require.NoError(t, err)
		require.Equal(t, values, restored)
	})
}
