// Package format defines the logical number types, transform modes, delta
// specs and compression types that appear on the wire.
//
// Every enumeration in this package is carried as a single byte in the
// compressed format, so values are stable across releases. New values may be
// appended but existing ones never change meaning.
package format

type (
	// LogicalType identifies the element type of a compressed chunk.
	LogicalType uint8

	// ModeType identifies the numeric transform applied before delta and
	// entropy coding.
	ModeType uint8

	// DeltaType identifies the differencing scheme applied to latents.
	DeltaType uint8

	// CompressionType identifies the generic byte codec applied to latent
	// payloads inside a page.
	CompressionType uint8
)

const (
	// TypeInvalid is the zero value; it doubles as the container terminator
	// tag and is never a valid element type.
	TypeInvalid LogicalType = 0x0

	TypeUint16  LogicalType = 0x1 // unsigned 16-bit integers
	TypeUint32  LogicalType = 0x2 // unsigned 32-bit integers
	TypeUint64  LogicalType = 0x3 // unsigned 64-bit integers
	TypeInt16   LogicalType = 0x4 // signed 16-bit integers
	TypeInt32   LogicalType = 0x5 // signed 32-bit integers
	TypeInt64   LogicalType = 0x6 // signed 64-bit integers
	TypeFloat16 LogicalType = 0x7 // IEEE 754 binary16, carried as bit patterns
	TypeFloat32 LogicalType = 0x8 // IEEE 754 binary32
	TypeFloat64 LogicalType = 0x9 // IEEE 754 binary64
)

const (
	// ModeClassic applies no numeric reparametrization beyond the
	// order-preserving unsigned mapping.
	ModeClassic ModeType = 0x0
	// ModeIntMult splits integers into quotient and remainder by a base.
	ModeIntMult ModeType = 0x1
	// ModeFloatMult splits floats into a multiplier of a float base and an
	// ULP adjustment.
	ModeFloatMult ModeType = 0x2
	// ModeFloatQuant re-packs over-precise floats into fewer mantissa bits.
	ModeFloatQuant ModeType = 0x3
)

const (
	// DeltaNone leaves latents undifferenced.
	DeltaNone DeltaType = 0x0
	// DeltaConsecutive applies order-k consecutive differencing.
	DeltaConsecutive DeltaType = 0x1
	// DeltaLookback differences each latent against the latent a fixed
	// distance earlier.
	DeltaLookback DeltaType = 0x2
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone stores plain varint payloads.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

// Float16 is an IEEE 754 binary16 value carried as its raw bit pattern.
//
// Go has no native float16, so callers convert at the edge and hand the
// codec []Float16. The codec treats the bit patterns losslessly; ordering
// transforms understand the sign/exponent/mantissa layout.
type Float16 uint16

// Number is the set of element types the codec accepts.
//
// The constraint intentionally lists exact types (no ~) so that the logical
// type of a slice is always recoverable with a type switch.
type Number interface {
	uint16 | uint32 | uint64 | int16 | int32 | int64 | Float16 | float32 | float64
}

// Detect returns the LogicalType for the element type T.
func Detect[T Number]() LogicalType {
	var v T
	switch any(v).(type) {
	case uint16:
		return TypeUint16
	case uint32:
		return TypeUint32
	case uint64:
		return TypeUint64
	case int16:
		return TypeInt16
	case int32:
		return TypeInt32
	case int64:
		return TypeInt64
	case Float16:
		return TypeFloat16
	case float32:
		return TypeFloat32
	case float64:
		return TypeFloat64
	default:
		return TypeInvalid
	}
}

// IsValid reports whether t is a recognized element type tag.
func (t LogicalType) IsValid() bool {
	return t >= TypeUint16 && t <= TypeFloat64
}

// IsFloat reports whether t is one of the IEEE float types.
func (t LogicalType) IsFloat() bool {
	return t == TypeFloat16 || t == TypeFloat32 || t == TypeFloat64
}

// IsInt reports whether t is one of the integer types.
func (t LogicalType) IsInt() bool {
	return t >= TypeUint16 && t <= TypeInt64
}

// Bits returns the element width in bits, or 0 for an invalid type.
func (t LogicalType) Bits() int {
	switch t {
	case TypeUint16, TypeInt16, TypeFloat16:
		return 16
	case TypeUint32, TypeInt32, TypeFloat32:
		return 32
	case TypeUint64, TypeInt64, TypeFloat64:
		return 64
	default:
		return 0
	}
}

// MantissaBits returns the IEEE mantissa width for float types, or 0 for
// integer and invalid types.
func (t LogicalType) MantissaBits() int {
	switch t {
	case TypeFloat16:
		return 10
	case TypeFloat32:
		return 23
	case TypeFloat64:
		return 52
	default:
		return 0
	}
}

func (t LogicalType) String() string {
	switch t {
	case TypeUint16:
		return "uint16"
	case TypeUint32:
		return "uint32"
	case TypeUint64:
		return "uint64"
	case TypeInt16:
		return "int16"
	case TypeInt32:
		return "int32"
	case TypeInt64:
		return "int64"
	case TypeFloat16:
		return "float16"
	case TypeFloat32:
		return "float32"
	case TypeFloat64:
		return "float64"
	default:
		return "Invalid"
	}
}

func (m ModeType) String() string {
	switch m {
	case ModeClassic:
		return "Classic"
	case ModeIntMult:
		return "IntMult"
	case ModeFloatMult:
		return "FloatMult"
	case ModeFloatQuant:
		return "FloatQuant"
	default:
		return "Unknown"
	}
}

func (d DeltaType) String() string {
	switch d {
	case DeltaNone:
		return "None"
	case DeltaConsecutive:
		return "Consecutive"
	case DeltaLookback:
		return "Lookback"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// HasSecondaryLatent reports whether the mode produces a secondary latent
// stream in addition to the primary one.
func (m ModeType) HasSecondaryLatent() bool {
	return m == ModeIntMult || m == ModeFloatMult
}
