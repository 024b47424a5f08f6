package mode

import (
	"math"
	mbits "math/bits"

	"github.com/arloliu/numpack/internal/bits"
)

// estimateStreamBits estimates the entropy-coded size in bits of one latent
// stream: latents are bucketed by the bit length of their zigzag image, and
// the cost is the Shannon entropy of the bucket choice plus the offset bits
// needed to place a value inside its bucket's observed range. A constant
// stream costs next to nothing, matching the constant section encoding the
// back-end uses. This tracks what the varint+codec pipeline achieves closely
// enough to rank transform candidates.
func estimateStreamBits(latents []uint64) float64 {
	if len(latents) == 0 {
		return 0
	}

	type bucket struct {
		count    int
		min, max uint64
	}
	var hist [65]bucket
	for _, u := range latents {
		z := bits.ZigZag(u)
		b := &hist[mbits.Len64(z)]
		if b.count == 0 {
			b.min, b.max = z, z
		} else {
			if z < b.min {
				b.min = z
			}
			if z > b.max {
				b.max = z
			}
		}
		b.count++
	}

	n := float64(len(latents))
	cost := 0.0
	for _, b := range hist {
		if b.count == 0 {
			continue
		}
		p := float64(b.count) / n
		offset := math.Log2(float64(b.max-b.min) + 1)
		cost += float64(b.count) * (-math.Log2(p) + offset)
	}

	return cost
}
