// Package mode implements the per-chunk transform system: the numeric
// reparametrizations (classic, integer multiplier, float multiplier, float
// quantization), the delta spec, and the resolver that picks among them.
//
// The resolver is a pure function of the input values and the request; for a
// given compression level it always resolves the same way, which keeps
// compressed output deterministic.
package mode

import "github.com/arloliu/numpack/format"

// SpecKind states how a transform mode was requested.
type SpecKind uint8

const (
	// SpecEnabled lets the resolver decide whether the mode pays off.
	SpecEnabled SpecKind = iota
	// SpecDisabled removes the mode from consideration.
	SpecDisabled
	// SpecProvided forces the mode with a caller-supplied parameter.
	SpecProvided
)

// DeltaKind states how the delta spec was requested.
type DeltaKind uint8

const (
	// DeltaAuto searches consecutive orders and keeps the cheapest.
	DeltaAuto DeltaKind = iota
	// DeltaOff disables differencing.
	DeltaOff
	// DeltaForced uses exactly the requested consecutive order.
	DeltaForced
	// DeltaTryLookback searches lookback distances as well as consecutive
	// orders.
	DeltaTryLookback
)

// Request carries the caller's transform configuration into the resolver.
type Request struct {
	Level int

	IntMult    SpecKind
	IntBase    uint64 // SpecProvided base, >= 2
	FloatMult  SpecKind
	FloatBase  float64 // SpecProvided base, positive and finite
	FloatQuant SpecKind
	QuantBits  uint32 // SpecProvided retained mantissa bits

	Delta      DeltaKind
	DeltaOrder int // DeltaForced consecutive order, 0..7
}

// Resolved is the concrete transform selection for one chunk. It is exactly
// the information that ends up in the chunk metadata block.
type Resolved struct {
	Mode      format.ModeType
	IntBase   uint64
	FloatBase float64
	QuantBits uint8

	Delta      format.DeltaType
	DeltaOrder uint8
	Lookback   int
}
