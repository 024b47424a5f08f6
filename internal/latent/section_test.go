package latent

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/numpack/compress"
	"github.com/arloliu/numpack/errs"
	"github.com/arloliu/numpack/format"
)

func roundTrip(t *testing.T, latents []uint64, codec compress.Codec) []byte {
	t.Helper()

	encoded, err := AppendSection(nil, latents, codec)
	require.NoError(t, err)

	decoded := make([]uint64, len(latents))
	consumed, err := ReadSection(encoded, len(latents), codec, decoded)
	require.NoError(t, err)
	require.Equal(t, len(encoded), consumed)
	require.Equal(t, latents, decoded)

	return encoded
}

func TestSection_Constant(t *testing.T) {
	latents := make([]uint64, 10000)
	for i := range latents {
		latents[i] = 42
	}

	encoded := roundTrip(t, latents, nil)

	// A constant run stays a few bytes no matter how long it is.
	require.Equal(t, EncodingConstant, encoded[0])
	require.Less(t, len(encoded), 8)
}

func TestSection_ConstantNegativeDomain(t *testing.T) {
	// A run of wrapping -3 latents, as delta encoding produces for a
	// descending series.
	latents := make([]uint64, 100)
	neg := int64(-3)
	for i := range latents {
		latents[i] = uint64(neg)
	}

	encoded := roundTrip(t, latents, nil)
	require.Equal(t, EncodingConstant, encoded[0])
}

func TestSection_Plain(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	latents := make([]uint64, 500)
	for i := range latents {
		latents[i] = rng.Uint64()
	}

	encoded := roundTrip(t, latents, nil)
	require.Equal(t, EncodingPlain, encoded[0])
}

func TestSection_Empty(t *testing.T) {
	encoded := roundTrip(t, []uint64{}, nil)
	require.NotEmpty(t, encoded)
}

func TestSection_CompressedWhenSmaller(t *testing.T) {
	codec, err := compress.GetCodec(format.CompressionZstd)
	require.NoError(t, err)

	// Repetitive but non-constant payload compresses well.
	latents := make([]uint64, 4096)
	for i := range latents {
		latents[i] = uint64(1000 + i%3)
	}

	encoded := roundTrip(t, latents, codec)
	require.Equal(t, EncodingCompressed, encoded[0])

	plain, err := AppendSection(nil, latents, nil)
	require.NoError(t, err)
	require.Less(t, len(encoded), len(plain))
}

func TestSection_IncompressibleStaysPlain(t *testing.T) {
	codec, err := compress.GetCodec(format.CompressionS2)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(2))
	latents := make([]uint64, 256)
	for i := range latents {
		latents[i] = rng.Uint64()
	}

	encoded := roundTrip(t, latents, codec)
	require.Equal(t, EncodingPlain, encoded[0])
}

func TestReadSection_Truncated(t *testing.T) {
	latents := []uint64{1, 2, 3, 4, 5}
	encoded, err := AppendSection(nil, latents, nil)
	require.NoError(t, err)

	dst := make([]uint64, len(latents))

	_, err = ReadSection(nil, len(latents), nil, dst)
	require.ErrorIs(t, err, errs.ErrTruncatedInput)

	_, err = ReadSection(encoded[:len(encoded)-1], len(latents), nil, dst)
	require.ErrorIs(t, err, errs.ErrTruncatedInput)
}

func TestReadSection_WrongCount(t *testing.T) {
	latents := []uint64{1, 2, 3, 4, 5}
	encoded, err := AppendSection(nil, latents, nil)
	require.NoError(t, err)

	// Asking for fewer latents than the payload holds leaves trailing
	// bytes, which is malformed rather than silently ignored.
	dst := make([]uint64, 3)
	_, err = ReadSection(encoded, 3, nil, dst)
	require.ErrorIs(t, err, errs.ErrMalformedInput)

	dst = make([]uint64, 6)
	_, err = ReadSection(encoded, 6, nil, dst)
	require.ErrorIs(t, err, errs.ErrTruncatedInput)
}

func TestReadSection_UnknownEncoding(t *testing.T) {
	encoded, err := AppendSection(nil, []uint64{1, 2}, nil)
	require.NoError(t, err)
	encoded[0] = 0x7F

	dst := make([]uint64, 2)
	_, err = ReadSection(encoded, 2, nil, dst)
	require.ErrorIs(t, err, errs.ErrMalformedInput)
}

func TestReadSection_CompressedWithoutCodec(t *testing.T) {
	codec, err := compress.GetCodec(format.CompressionLZ4)
	require.NoError(t, err)

	latents := make([]uint64, 2048)
	for i := range latents {
		latents[i] = uint64(i % 2)
	}
	encoded, err := AppendSection(nil, latents, codec)
	require.NoError(t, err)
	require.Equal(t, EncodingCompressed, encoded[0])

	dst := make([]uint64, len(latents))
	_, err = ReadSection(encoded, len(latents), nil, dst)
	require.ErrorIs(t, err, errs.ErrMalformedInput)
}

func TestReadSection_CorruptedCompressedPayload(t *testing.T) {
	codec, err := compress.GetCodec(format.CompressionZstd)
	require.NoError(t, err)

	latents := make([]uint64, 2048)
	for i := range latents {
		latents[i] = uint64(i % 5)
	}
	encoded, err := AppendSection(nil, latents, codec)
	require.NoError(t, err)
	require.Equal(t, EncodingCompressed, encoded[0])

	for i := len(encoded) - 8; i < len(encoded); i++ {
		encoded[i] ^= 0xFF
	}

	dst := make([]uint64, len(latents))
	_, err = ReadSection(encoded, len(latents), codec, dst)
	require.ErrorIs(t, err, errs.ErrMalformedInput)
}
