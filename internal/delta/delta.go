// Package delta implements the differencing transforms applied to latents
// within one page.
//
// All arithmetic is wrapping on uint64, which makes each transform a
// bijection regardless of value range. Transforms are applied per page, and
// the leading elements of each page stay raw, so any page decodes on its own
// and any prefix of a page decodes without the rest.
package delta

// MaxConsecutiveOrder bounds consecutive differencing. Each order roughly
// doubles the worst-case latent range, so high orders stop paying off fast.
const MaxConsecutiveOrder = 7

// MaxLookback bounds the lookback distance so it fits a single byte's worth
// of sane values.
const MaxLookback = 255

// EncodeConsecutive applies order rounds of wrapping first differences in
// place. After round r, elements [0, r] hold progressively differenced
// leading values and the rest hold r+1-th order differences.
func EncodeConsecutive(latents []uint64, order int) {
	n := len(latents)
	for round := 0; round < order; round++ {
		for i := n - 1; i > round; i-- {
			latents[i] -= latents[i-1]
		}
	}
}

// DecodeConsecutive reverses EncodeConsecutive in place.
//
// It may be applied to any prefix of an encoded page: every element only
// depends on earlier elements.
func DecodeConsecutive(latents []uint64, order int) {
	n := len(latents)
	for round := order - 1; round >= 0; round-- {
		for i := round + 1; i < n; i++ {
			latents[i] += latents[i-1]
		}
	}
}

// EncodeLookback replaces each latent with its wrapping difference from the
// latent dist positions earlier, in place. The first dist elements stay raw.
func EncodeLookback(latents []uint64, dist int) {
	for i := len(latents) - 1; i >= dist; i-- {
		latents[i] -= latents[i-dist]
	}
}

// DecodeLookback reverses EncodeLookback in place. Prefix-safe like
// DecodeConsecutive.
func DecodeLookback(latents []uint64, dist int) {
	for i := dist; i < len(latents); i++ {
		latents[i] += latents[i-dist]
	}
}
