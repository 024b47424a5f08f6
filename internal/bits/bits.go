// Package bits provides the low-level integer plumbing under the latent
// pipeline: zigzag mapping, unsigned varints, and the order-preserving bit
// transforms for signed integers and IEEE floats.
package bits

import (
	"encoding/binary"
	"math"
)

// ZigZag maps a wrapping-signed latent (uint64 holding an int64 two's
// complement pattern) to an unsigned value with small magnitudes near zero:
// 0, -1, 1, -2, ... become 0, 1, 2, 3, ...
func ZigZag(u uint64) uint64 {
	i := int64(u)
	return uint64((i << 1) ^ (i >> 63))
}

// UnZigZag reverses ZigZag.
func UnZigZag(z uint64) uint64 {
	return uint64(int64(z>>1) ^ -int64(z&1))
}

// AppendUvarint appends v in unsigned LEB128 form.
func AppendUvarint(dst []byte, v uint64) []byte {
	return binary.AppendUvarint(dst, v)
}

// Uvarint decodes an unsigned LEB128 value from src.
// It returns the value and the number of bytes consumed, or n <= 0 on
// truncated or overlong input (binary.Uvarint semantics).
func Uvarint(src []byte) (uint64, int) {
	return binary.Uvarint(src)
}

// MaxVarintLen64 is the maximum encoded size of one varint.
const MaxVarintLen64 = binary.MaxVarintLen64

// CeilDiv returns ceil(a / b) for positive b.
func CeilDiv(a, b int) int {
	return (a + b - 1) / b
}

// Order-preserving transforms.
//
// Integers use a sign-bit flip: the mapping x -> x ^ MinInt is monotone from
// int order to uint order. Floats use the usual total-order trick: positive
// patterns get the sign bit set, negative patterns are complemented, making
// unsigned comparison agree with the numeric order (with -NaN patterns below
// everything and +NaN patterns above, which is fine: the mapping is a
// bijection, so round trips are bit-exact).

// OrderedInt maps a sign-extended integer bit pattern to unsigned order at
// the given width (16, 32 or 64).
func OrderedInt(u uint64, width uint) uint64 {
	return (u ^ (1 << (width - 1))) & WidthMask(width)
}

// UnorderedInt reverses OrderedInt.
func UnorderedInt(u uint64, width uint) uint64 {
	return (u ^ (1 << (width - 1))) & WidthMask(width)
}

// OrderedFloat maps a raw IEEE bit pattern of the given width to unsigned
// order.
func OrderedFloat(b uint64, width uint) uint64 {
	signMask := uint64(1) << (width - 1)
	if b&signMask != 0 {
		return (^b) & WidthMask(width)
	}

	return b | signMask
}

// UnorderedFloat reverses OrderedFloat.
func UnorderedFloat(u uint64, width uint) uint64 {
	signMask := uint64(1) << (width - 1)
	if u&signMask != 0 {
		return u &^ signMask
	}

	return (^u) & WidthMask(width)
}

// WidthMask returns a mask of the low width bits.
func WidthMask(width uint) uint64 {
	if width >= 64 {
		return math.MaxUint64
	}

	return (uint64(1) << width) - 1
}

// Float64ToOrdered maps a float64 to unsigned order.
func Float64ToOrdered(f float64) uint64 {
	return OrderedFloat(math.Float64bits(f), 64)
}

// OrderedToFloat64 reverses Float64ToOrdered.
func OrderedToFloat64(u uint64) float64 {
	return math.Float64frombits(UnorderedFloat(u, 64))
}

// Float32ToOrdered maps a float32 to unsigned order.
func Float32ToOrdered(f float32) uint64 {
	return OrderedFloat(uint64(math.Float32bits(f)), 32)
}

// OrderedToFloat32 reverses Float32ToOrdered.
func OrderedToFloat32(u uint64) float32 {
	return math.Float32frombits(uint32(UnorderedFloat(u, 32)))
}
