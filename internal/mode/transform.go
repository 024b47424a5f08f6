package mode

import (
	"math"

	"github.com/arloliu/numpack/format"
	"github.com/arloliu/numpack/internal/bits"
)

// Split applies the resolved mode transform to values, producing the primary
// latent stream and, for modes with one, the secondary stream. Latents are
// pre-bias and pre-delta.
func Split[T format.Number](values []T, res Resolved) (primary []uint64, secondary []uint64) {
	switch res.Mode {
	case format.ModeIntMult:
		return intMultSplit(values, res.IntBase)
	case format.ModeFloatMult:
		return floatMultSplit(values, res.FloatBase)
	case format.ModeFloatQuant:
		return floatQuantSplit(values, res.QuantBits), nil
	default:
		return classicSplit(values), nil
	}
}

// Join reverses Split into dst. len(dst) bounds how many latents are joined;
// primary (and secondary when present) must have at least len(dst) elements.
func Join[T format.Number](res Resolved, primary, secondary []uint64, dst []T) {
	switch res.Mode {
	case format.ModeIntMult:
		intMultJoin(res.IntBase, primary, secondary, dst)
	case format.ModeFloatMult:
		floatMultJoin(res.FloatBase, primary, secondary, dst)
	case format.ModeFloatQuant:
		floatQuantJoin(res.QuantBits, primary, dst)
	default:
		classicJoin(primary, dst)
	}
}

// classicSplit maps values to order-preserving unsigned latents: unsigned
// ints as-is, signed ints with the sign bit flipped, floats via the
// total-order bit transform.
func classicSplit[T format.Number](values []T) []uint64 {
	out := make([]uint64, len(values))
	switch vs := any(values).(type) {
	case []uint16:
		for i, v := range vs {
			out[i] = uint64(v)
		}
	case []uint32:
		for i, v := range vs {
			out[i] = uint64(v)
		}
	case []uint64:
		copy(out, vs)
	case []int16:
		for i, v := range vs {
			out[i] = uint64(uint16(v)) ^ 0x8000
		}
	case []int32:
		for i, v := range vs {
			out[i] = uint64(uint32(v)) ^ 0x8000_0000
		}
	case []int64:
		for i, v := range vs {
			out[i] = uint64(v) ^ (1 << 63)
		}
	case []format.Float16:
		for i, v := range vs {
			out[i] = bits.OrderedFloat(uint64(v), 16)
		}
	case []float32:
		for i, v := range vs {
			out[i] = bits.Float32ToOrdered(v)
		}
	case []float64:
		for i, v := range vs {
			out[i] = bits.Float64ToOrdered(v)
		}
	}

	return out
}

func classicJoin[T format.Number](latents []uint64, dst []T) {
	switch ds := any(dst).(type) {
	case []uint16:
		for i := range ds {
			ds[i] = uint16(latents[i])
		}
	case []uint32:
		for i := range ds {
			ds[i] = uint32(latents[i])
		}
	case []uint64:
		copy(ds, latents)
	case []int16:
		for i := range ds {
			ds[i] = int16(uint16(latents[i]) ^ 0x8000)
		}
	case []int32:
		for i := range ds {
			ds[i] = int32(uint32(latents[i]) ^ 0x8000_0000)
		}
	case []int64:
		for i := range ds {
			ds[i] = int64(latents[i] ^ (1 << 63))
		}
	case []format.Float16:
		for i := range ds {
			ds[i] = format.Float16(bits.UnorderedFloat(latents[i], 16))
		}
	case []float32:
		for i := range ds {
			ds[i] = bits.OrderedToFloat32(latents[i])
		}
	case []float64:
		for i := range ds {
			ds[i] = bits.OrderedToFloat64(latents[i])
		}
	}
}

// intMultSplit divides the classic latents by base: primary carries the
// quotients, secondary the remainders.
func intMultSplit[T format.Number](values []T, base uint64) (primary, secondary []uint64) {
	primary = classicSplit(values)
	secondary = make([]uint64, len(primary))
	for i, u := range primary {
		primary[i] = u / base
		secondary[i] = u % base
	}

	return primary, secondary
}

func intMultJoin[T format.Number](base uint64, primary, secondary []uint64, dst []T) {
	joined := make([]uint64, len(dst))
	for i := range joined {
		joined[i] = primary[i]*base + secondary[i]
	}
	classicJoin(joined, dst)
}

// floatMultQuotient returns the rounded multiplier of base nearest to v, or
// 0 when v is non-finite or the quotient would not fit the latent range.
// Out-of-range quotients are not an error: the ULP adjustment makes the
// reconstruction exact regardless, just with a large secondary latent.
func floatMultQuotient(v, base float64) int64 {
	q := math.Round(v / base)
	if math.IsNaN(q) || q > float64(1<<62) || q < -float64(1<<62) {
		return 0
	}

	return int64(q)
}

// floatMultSplit decomposes floats as base*quotient plus an ULP adjustment
// in the total-order bit domain. The adjustment is exact, so the mode is
// lossless for every input including NaN payloads and infinities.
func floatMultSplit[T format.Number](values []T, base float64) (primary, secondary []uint64) {
	primary = make([]uint64, len(values))
	secondary = make([]uint64, len(values))
	switch vs := any(values).(type) {
	case []float64:
		for i, v := range vs {
			q := floatMultQuotient(v, base)
			approx := base * float64(q)
			primary[i] = uint64(q)
			secondary[i] = bits.Float64ToOrdered(v) - bits.Float64ToOrdered(approx)
		}
	case []float32:
		for i, v := range vs {
			q := floatMultQuotient(float64(v), base)
			approx := float32(base * float64(q))
			primary[i] = uint64(q)
			// Sign-extend the 32-bit wrapped difference so small negative
			// adjustments zigzag to small varints.
			adj := uint32(bits.Float32ToOrdered(v) - bits.Float32ToOrdered(approx))
			secondary[i] = uint64(int64(int32(adj)))
		}
	}

	return primary, secondary
}

func floatMultJoin[T format.Number](base float64, primary, secondary []uint64, dst []T) {
	switch ds := any(dst).(type) {
	case []float64:
		for i := range ds {
			q := int64(primary[i])
			approx := base * float64(q)
			ds[i] = bits.OrderedToFloat64(bits.Float64ToOrdered(approx) + secondary[i])
		}
	case []float32:
		for i := range ds {
			q := int64(primary[i])
			approx := float32(base * float64(q))
			ordered := (bits.Float32ToOrdered(approx) + secondary[i]) & bits.WidthMask(32)
			ds[i] = bits.OrderedToFloat32(ordered)
		}
	}
}

// floatQuantSplit drops the all-zero low mantissa bits of over-precise
// floats and order-transforms the shortened patterns. Resolver applicability
// checks guarantee the dropped bits are zero for every element.
func floatQuantSplit[T format.Number](values []T, quantBits uint8) []uint64 {
	lt := format.Detect[T]()
	width := uint(lt.Bits())
	shift := uint(lt.MantissaBits() - int(quantBits))
	out := make([]uint64, len(values))
	switch vs := any(values).(type) {
	case []float64:
		for i, v := range vs {
			out[i] = bits.OrderedFloat(math.Float64bits(v)>>shift, width-shift)
		}
	case []float32:
		for i, v := range vs {
			out[i] = bits.OrderedFloat(uint64(math.Float32bits(v))>>shift, width-shift)
		}
	}

	return out
}

func floatQuantJoin[T format.Number](quantBits uint8, primary []uint64, dst []T) {
	lt := format.Detect[T]()
	width := uint(lt.Bits())
	shift := uint(lt.MantissaBits() - int(quantBits))
	switch ds := any(dst).(type) {
	case []float64:
		for i := range ds {
			ds[i] = math.Float64frombits(bits.UnorderedFloat(primary[i], width-shift) << shift)
		}
	case []float32:
		for i := range ds {
			ds[i] = math.Float32frombits(uint32(bits.UnorderedFloat(primary[i], width-shift) << shift))
		}
	}
}
