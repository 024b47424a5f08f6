package mode

import (
	"fmt"
	"math"

	"github.com/arloliu/numpack/errs"
	"github.com/arloliu/numpack/format"
	"github.com/arloliu/numpack/internal/delta"
)

// lookbackCandidates are the distances tried when lookback differencing is
// requested. Small distances catch interleaved series; the sparse tail
// catches longer periodicity without a quadratic search.
var lookbackCandidates = []int{2, 3, 4, 5, 6, 7, 8, 12, 16, 24, 32, 48, 64}

// deltaCandidate is one differencing option under evaluation.
type deltaCandidate struct {
	kind     format.DeltaType
	order    int
	lookback int
}

// Resolve selects the concrete transform mode and delta spec for one chunk.
//
// Forced selections are validated against the element type and used as-is;
// enabled (automatic) selections are searched on a level-sized sample and
// scored by estimated encoded size with ties broken toward the structurally
// simpler choice: Classic before parametrized modes, lower delta order
// before higher. The function is pure: identical values and request always
// resolve identically.
func Resolve[T format.Number](values []T, req Request) (Resolved, error) {
	lt := format.Detect[T]()

	if err := validateRequest(lt, req); err != nil {
		return Resolved{}, err
	}

	if len(values) == 0 {
		return Resolved{Mode: format.ModeClassic, Delta: format.DeltaNone}, nil
	}

	modeCandidates, err := buildModeCandidates(values, lt, req)
	if err != nil {
		return Resolved{}, err
	}
	deltaCandidates := buildDeltaCandidates(len(values), req)

	sample := buildSample(values, req.Level)

	best := Resolved{}
	bestCost := math.Inf(1)
	for _, mc := range modeCandidates {
		primary, secondary := Split(sample, mc)
		cost := estimateStreamBits(secondary) + modeOverheadBits(mc)
		rebase(primary)

		scratch := make([]uint64, len(primary))
		for _, dc := range deltaCandidates {
			copy(scratch, primary)
			switch dc.kind {
			case format.DeltaConsecutive:
				delta.EncodeConsecutive(scratch, dc.order)
			case format.DeltaLookback:
				delta.EncodeLookback(scratch, dc.lookback)
			case format.DeltaNone:
			}

			total := cost + estimateStreamBits(scratch)
			if total < bestCost {
				bestCost = total
				best = mc
				best.Delta = dc.kind
				best.DeltaOrder = uint8(dc.order)
				best.Lookback = dc.lookback
			}
		}
	}

	return best, nil
}

func validateRequest(lt format.LogicalType, req Request) error {
	if req.IntMult == SpecProvided {
		if !lt.IsInt() {
			return fmt.Errorf("%w: IntMult base provided for %s", errs.ErrInvalidModeSpec, lt)
		}
		if req.IntBase < 2 {
			return fmt.Errorf("%w: IntMult base must be >= 2, got %d", errs.ErrInvalidModeSpec, req.IntBase)
		}
	}
	if req.FloatMult == SpecProvided {
		if lt != format.TypeFloat32 && lt != format.TypeFloat64 {
			return fmt.Errorf("%w: FloatMult base provided for %s", errs.ErrInvalidModeSpec, lt)
		}
		if !(req.FloatBase > 0) || math.IsInf(req.FloatBase, 0) {
			return fmt.Errorf("%w: FloatMult base must be positive and finite, got %v", errs.ErrInvalidModeSpec, req.FloatBase)
		}
	}
	if req.FloatQuant == SpecProvided {
		if lt != format.TypeFloat32 && lt != format.TypeFloat64 {
			return fmt.Errorf("%w: FloatQuant bits provided for %s", errs.ErrInvalidModeSpec, lt)
		}
		if req.QuantBits == 0 || int(req.QuantBits) > lt.MantissaBits() {
			return fmt.Errorf("%w: FloatQuant bits must be in [1, %d], got %d",
				errs.ErrInvalidModeSpec, lt.MantissaBits(), req.QuantBits)
		}
	}
	if req.Delta == DeltaForced && (req.DeltaOrder < 0 || req.DeltaOrder > delta.MaxConsecutiveOrder) {
		return fmt.Errorf("%w: order must be in [0, %d], got %d",
			errs.ErrInvalidDeltaOrder, delta.MaxConsecutiveOrder, req.DeltaOrder)
	}

	return nil
}

// buildModeCandidates returns the transform modes worth scoring, simplest
// first. A provided mode is forced and becomes the only candidate, except
// a provided quantization the data cannot satisfy, which falls back to
// Classic (the parameters are legal, the data just is not over-precise).
func buildModeCandidates[T format.Number](values []T, lt format.LogicalType, req Request) ([]Resolved, error) {
	if req.IntMult == SpecProvided {
		return []Resolved{{Mode: format.ModeIntMult, IntBase: req.IntBase}}, nil
	}
	if req.FloatMult == SpecProvided {
		return []Resolved{{Mode: format.ModeFloatMult, FloatBase: req.FloatBase}}, nil
	}
	if req.FloatQuant == SpecProvided {
		if quantApplicable(values, uint8(req.QuantBits)) {
			return []Resolved{{Mode: format.ModeFloatQuant, QuantBits: uint8(req.QuantBits)}}, nil
		}

		return []Resolved{{Mode: format.ModeClassic}}, nil
	}

	candidates := []Resolved{{Mode: format.ModeClassic}}
	if req.Level == 0 {
		return candidates, nil
	}

	sample := buildSample(values, req.Level)

	if lt.IsInt() && req.IntMult == SpecEnabled {
		if base := inferIntBase(classicSplit(sample)); base >= 2 {
			candidates = append(candidates, Resolved{Mode: format.ModeIntMult, IntBase: base})
		}
	}

	if lt == format.TypeFloat32 || lt == format.TypeFloat64 {
		if req.FloatQuant == SpecEnabled {
			// Applicability must hold for the whole chunk, not just the
			// sample; the bit scan is cheap.
			if quantBits := inferQuantBits(values); quantBits > 0 && int(quantBits) < lt.MantissaBits() {
				candidates = append(candidates, Resolved{Mode: format.ModeFloatQuant, QuantBits: quantBits})
			}
		}
		if req.FloatMult == SpecEnabled {
			if base := inferFloatBase(sample); base > 0 {
				candidates = append(candidates, Resolved{Mode: format.ModeFloatMult, FloatBase: base})
			}
		}
	}

	return candidates, nil
}

// buildDeltaCandidates returns the differencing options to score, lowest
// (cheapest to decode) first.
func buildDeltaCandidates(n int, req Request) []deltaCandidate {
	switch req.Delta {
	case DeltaOff:
		return []deltaCandidate{{kind: format.DeltaNone}}
	case DeltaForced:
		if req.DeltaOrder == 0 {
			return []deltaCandidate{{kind: format.DeltaNone}}
		}

		return []deltaCandidate{{kind: format.DeltaConsecutive, order: req.DeltaOrder}}
	}

	candidates := []deltaCandidate{{kind: format.DeltaNone}}
	if req.Level == 0 {
		return candidates
	}
	for order := 1; order <= delta.MaxConsecutiveOrder && order < n; order++ {
		candidates = append(candidates, deltaCandidate{kind: format.DeltaConsecutive, order: order})
	}

	if req.Delta == DeltaTryLookback {
		for _, dist := range lookbackCandidates {
			if dist >= n {
				break
			}
			candidates = append(candidates, deltaCandidate{kind: format.DeltaLookback, lookback: dist})
		}
	}

	return candidates
}

// buildSample returns a representative subset of values: the whole array
// when small, otherwise three contiguous blocks from the head, middle and
// tail. Contiguity matters because delta and lookback candidates are scored
// on the sample.
func buildSample[T format.Number](values []T, level int) []T {
	target := sampleTarget(level)
	n := len(values)
	if n <= target {
		return values
	}

	block := target / 3
	sample := make([]T, 0, 3*block)
	sample = append(sample, values[:block]...)
	mid := n/2 - block/2
	sample = append(sample, values[mid:mid+block]...)
	sample = append(sample, values[n-block:]...)

	return sample
}

// sampleTarget scales the sample size with the compression level: higher
// levels spend more compute for better-informed choices, never changing the
// format.
func sampleTarget(level int) int {
	if level < 1 {
		level = 1
	}
	if level > 12 {
		level = 12
	}

	return 256 << uint(level/2+1)
}

// rebase subtracts the minimum latent in place, mirroring the chunk-wide
// bias the compressor applies before delta.
func rebase(latents []uint64) {
	if len(latents) == 0 {
		return
	}
	low := latents[0]
	for _, u := range latents[1:] {
		if u < low {
			low = u
		}
	}
	for i := range latents {
		latents[i] -= low
	}
}

// modeOverheadBits approximates the fixed metadata cost of a mode so that a
// parametrized mode never wins on a dead tie with Classic.
func modeOverheadBits(res Resolved) float64 {
	switch res.Mode {
	case format.ModeIntMult:
		return 80
	case format.ModeFloatMult:
		return 96
	case format.ModeFloatQuant:
		return 16
	default:
		return 0
	}
}
