package mode

import (
	"math"
	mbits "math/bits"

	"github.com/arloliu/numpack/format"
)

// floatMultMaxAdj bounds the acceptable ULP adjustment when judging whether
// a float multiplier base fits the data. Larger adjustments mean the base
// does not really describe the values and the secondary stream would bloat.
const floatMultMaxAdj = 256

// floatMultMaxQuotient keeps quotients well inside the exactly-representable
// integer range of float64.
const floatMultMaxQuotient = int64(1) << 51

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}

	return a
}

// inferIntBase returns a common factor of the differences between sampled
// classic latents, or 0 when no factor above 1 exists. Differences rather
// than raw values make the inference shift-invariant, the same reason the
// original-value distribution modulo the base may be anything.
func inferIntBase(sample []uint64) uint64 {
	if len(sample) < 2 {
		return 0
	}
	low := sample[0]
	for _, u := range sample[1:] {
		if u < low {
			low = u
		}
	}

	g := uint64(0)
	for _, u := range sample {
		g = gcd(g, u-low)
		if g == 1 {
			return 0
		}
	}
	if g < 2 {
		return 0
	}

	return g
}

// inferFloatBase scans decimal bases 1, 0.1, ... 1e-9 and returns the
// largest one the sample is approximately congruent to, or 0 when none fits.
func inferFloatBase[T format.Number](sample []T) float64 {
	base := 1.0
	for k := 0; k <= 9; k++ {
		if floatMultApplicable(sample, base) {
			return base
		}
		base /= 10
	}

	return 0
}

// floatMultApplicable reports whether base describes the sample: every
// finite value sits within a small ULP adjustment of a multiple of base,
// and the quotients are non-trivial and bounded.
func floatMultApplicable[T format.Number](sample []T, base float64) bool {
	primary, secondary := floatMultSplit(sample, base)

	maxAbsQ := int64(0)
	for i := range primary {
		q := int64(primary[i])
		if q < 0 {
			q = -q
		}
		if q > maxAbsQ {
			maxAbsQ = q
		}
		adj := int64(secondary[i])
		if adj < -floatMultMaxAdj || adj > floatMultMaxAdj {
			if finiteAt(sample, i) {
				return false
			}
		}
	}

	return maxAbsQ >= 1 && maxAbsQ <= floatMultMaxQuotient
}

func finiteAt[T format.Number](sample []T, i int) bool {
	switch vs := any(sample).(type) {
	case []float64:
		return !math.IsNaN(vs[i]) && !math.IsInf(vs[i], 0)
	case []float32:
		v := float64(vs[i])
		return !math.IsNaN(v) && !math.IsInf(v, 0)
	default:
		return false
	}
}

// inferQuantBits returns the smallest retained-mantissa-bit count that loses
// nothing, or 0 when the full mantissa is in use. Works on raw IEEE bit
// patterns, so NaN payloads and infinities are accounted for exactly.
func inferQuantBits[T format.Number](values []T) uint8 {
	lt := format.Detect[T]()
	mant := lt.MantissaBits()
	minTz := 64

	eachRawBits(values, func(b uint64) {
		if b == 0 {
			return
		}
		if tz := mbits.TrailingZeros64(b); tz < minTz {
			minTz = tz
		}
	})

	if minTz == 0 {
		return 0
	}
	shift := minTz
	if shift > mant-1 {
		shift = mant - 1
	}

	return uint8(mant - shift)
}

// quantApplicable reports whether every value keeps all information when the
// mantissa is cut to quantBits.
func quantApplicable[T format.Number](values []T, quantBits uint8) bool {
	lt := format.Detect[T]()
	shift := uint(lt.MantissaBits() - int(quantBits))
	if shift == 0 {
		return true
	}
	mask := (uint64(1) << shift) - 1

	ok := true
	eachRawBits(values, func(b uint64) {
		if b&mask != 0 {
			ok = false
		}
	})

	return ok
}

func eachRawBits[T format.Number](values []T, fn func(uint64)) {
	switch vs := any(values).(type) {
	case []float64:
		for _, v := range vs {
			fn(math.Float64bits(v))
		}
	case []float32:
		for _, v := range vs {
			fn(uint64(math.Float32bits(v)))
		}
	}
}
