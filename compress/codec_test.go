package compress

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/numpack/format"
)

func allTypes() []format.CompressionType {
	return []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	}
}

func TestCreateCodec(t *testing.T) {
	for _, ct := range allTypes() {
		codec, err := CreateCodec(ct, "page")
		require.NoError(t, err, "type %s", ct)
		require.NotNil(t, codec)
	}

	_, err := CreateCodec(format.CompressionType(0x9), "page")
	require.Error(t, err)
}

func TestGetCodec_SharedInstances(t *testing.T) {
	for _, ct := range allTypes() {
		first, err := GetCodec(ct)
		require.NoError(t, err)
		second, err := GetCodec(ct)
		require.NoError(t, err)
		require.Equal(t, first, second)
	}

	_, err := GetCodec(format.CompressionType(0xFF))
	require.Error(t, err)
}

func TestCodecs_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	payloads := map[string][]byte{
		"small":      []byte("hello latent stream"),
		"repetitive": make([]byte, 32*1024),
		"random":     make([]byte, 8*1024),
	}
	for i := range payloads["repetitive"] {
		payloads["repetitive"][i] = byte(i % 7)
	}
	rng.Read(payloads["random"])

	for _, ct := range allTypes() {
		codec, err := GetCodec(ct)
		require.NoError(t, err)

		for name, payload := range payloads {
			compressed, err := codec.Compress(payload)
			require.NoError(t, err, "%s/%s", ct, name)

			decompressed, err := codec.Decompress(compressed)
			require.NoError(t, err, "%s/%s", ct, name)
			// LZ4 reports incompressible input as zero bytes; every other
			// combination must round-trip.
			if ct == format.CompressionLZ4 && len(compressed) == 0 {
				continue
			}
			require.Equal(t, payload, decompressed, "%s/%s", ct, name)
		}
	}
}

func TestCodecs_CompressesRepetitiveData(t *testing.T) {
	payload := make([]byte, 64*1024)
	for i := range payload {
		payload[i] = byte(i % 3)
	}

	for _, ct := range []format.CompressionType{format.CompressionZstd, format.CompressionS2, format.CompressionLZ4} {
		codec, err := GetCodec(ct)
		require.NoError(t, err)

		compressed, err := codec.Compress(payload)
		require.NoError(t, err)
		require.Less(t, len(compressed), len(payload)/4, "type %s", ct)
	}
}

func TestCodecs_CorruptedInput(t *testing.T) {
	payload := make([]byte, 4096)
	for i := range payload {
		payload[i] = byte(i)
	}

	for _, ct := range []format.CompressionType{format.CompressionZstd, format.CompressionS2} {
		codec, err := GetCodec(ct)
		require.NoError(t, err)

		compressed, err := codec.Compress(payload)
		require.NoError(t, err)
		require.NotEmpty(t, compressed)

		corrupted := append([]byte(nil), compressed...)
		corrupted[0] ^= 0xFF
		corrupted[len(corrupted)/2] ^= 0xFF

		_, err = codec.Decompress(corrupted)
		require.Error(t, err, "type %s", ct)
	}
}

func TestNoOp_PassThrough(t *testing.T) {
	codec := NewNoOpCompressor()

	payload := []byte{1, 2, 3}
	compressed, err := codec.Compress(payload)
	require.NoError(t, err)
	require.Same(t, &payload[0], &compressed[0])

	decompressed, err := codec.Decompress(compressed)
	require.NoError(t, err)
	require.Same(t, &payload[0], &decompressed[0])
}
