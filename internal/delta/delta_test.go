package delta

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func randomLatents(n int, seed int64) []uint64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]uint64, n)
	for i := range out {
		out[i] = rng.Uint64()
	}

	return out
}

func TestConsecutive_RoundTrip(t *testing.T) {
	for order := 0; order <= MaxConsecutiveOrder; order++ {
		original := randomLatents(100, int64(order))
		encoded := make([]uint64, len(original))
		copy(encoded, original)

		EncodeConsecutive(encoded, order)
		DecodeConsecutive(encoded, order)
		require.Equal(t, original, encoded, "order %d", order)
	}
}

func TestConsecutive_FirstDifferences(t *testing.T) {
	latents := []uint64{10, 13, 17, 20}
	EncodeConsecutive(latents, 1)
	require.Equal(t, []uint64{10, 3, 4, 3}, latents)
}

func TestConsecutive_WrappingBijective(t *testing.T) {
	// Deltas near the uint64 boundary must wrap, not clamp.
	original := []uint64{math.MaxUint64, 0, math.MaxUint64 - 1, 1}
	encoded := make([]uint64, len(original))
	copy(encoded, original)

	EncodeConsecutive(encoded, 2)
	DecodeConsecutive(encoded, 2)
	require.Equal(t, original, encoded)
}

func TestConsecutive_ShortInput(t *testing.T) {
	// Fewer elements than the order leaves everything raw.
	for n := 0; n <= 2; n++ {
		original := randomLatents(n, int64(n))
		encoded := make([]uint64, n)
		copy(encoded, original)

		EncodeConsecutive(encoded, 5)
		DecodeConsecutive(encoded, 5)
		require.Equal(t, original, encoded, "n=%d", n)
	}
}

func TestDecodeConsecutive_PrefixMatchesFull(t *testing.T) {
	original := randomLatents(64, 7)
	encoded := make([]uint64, len(original))
	copy(encoded, original)
	EncodeConsecutive(encoded, 3)

	full := make([]uint64, len(encoded))
	copy(full, encoded)
	DecodeConsecutive(full, 3)
	require.Equal(t, original, full)

	for _, k := range []int{0, 1, 3, 10, 63} {
		prefix := make([]uint64, k)
		copy(prefix, encoded[:k])
		DecodeConsecutive(prefix, 3)
		require.Equal(t, original[:k], prefix, "prefix %d", k)
	}
}

func TestLookback_RoundTrip(t *testing.T) {
	for _, dist := range []int{1, 2, 5, 16, 99, 150} {
		original := randomLatents(100, int64(dist))
		encoded := make([]uint64, len(original))
		copy(encoded, original)

		EncodeLookback(encoded, dist)
		DecodeLookback(encoded, dist)
		require.Equal(t, original, encoded, "dist %d", dist)
	}
}

func TestLookback_InterleavedSeries(t *testing.T) {
	// Two interleaved arithmetic series: lookback 2 reduces everything past
	// the leading pair to constant deltas.
	latents := []uint64{100, 5000, 110, 5020, 120, 5040, 130, 5060}
	EncodeLookback(latents, 2)
	require.Equal(t, []uint64{100, 5000, 10, 20, 10, 20, 10, 20}, latents)
}

func TestDecodeLookback_PrefixMatchesFull(t *testing.T) {
	original := randomLatents(64, 11)
	encoded := make([]uint64, len(original))
	copy(encoded, original)
	EncodeLookback(encoded, 4)

	for _, k := range []int{0, 2, 4, 5, 33, 64} {
		prefix := make([]uint64, k)
		copy(prefix, encoded[:k])
		DecodeLookback(prefix, 4)
		require.Equal(t, original[:k], prefix, "prefix %d", k)
	}
}
