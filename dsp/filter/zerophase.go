package filter

import (
	"fmt"

	"github.com/cwbudde/algo-circadian/dsp/filter/biquad"
)

// ZeroPhase filters values forward and backward through the cascade,
// cancelling the phase response of the filter.
//
// The input is extended at both ends by an odd reflection of
// 3*(order+1) samples before filtering and the extension is trimmed from
// the result, which suppresses edge transients. The filter state is
// seeded with the steady-state response to the first sample of each pass.
//
// Returns ErrSeriesTooShort when len(values) <= 3*(order+1).
func ZeroPhase(values []float64, sections []biquad.Coefficients) ([]float64, error) {
	if len(sections) == 0 {
		return nil, fmt.Errorf("filter: zero-phase: no sections")
	}

	n := len(values)
	padLen := 3 * (cascadeOrder(sections) + 1)

	if n <= padLen {
		return nil, fmt.Errorf("%w: need more than %d samples, got %d", ErrSeriesTooShort, padLen, n)
	}

	ext := make([]float64, padLen+n+padLen)
	for i := range padLen {
		ext[i] = 2*values[0] - values[padLen-i]
	}

	copy(ext[padLen:], values)

	for i := range padLen {
		ext[padLen+n+i] = 2*values[n-1] - values[n-2-i]
	}

	chain := biquad.NewChain(sections)

	chain.SettleAt(ext[0])
	chain.ProcessBlock(ext)
	reverse(ext)

	chain.SettleAt(ext[0])
	chain.ProcessBlock(ext)
	reverse(ext)

	out := make([]float64, n)
	copy(out, ext[padLen:padLen+n])

	return out, nil
}

// cascadeOrder returns the filter order realized by the sections. A section
// with zero second-order terms counts as first-order.
func cascadeOrder(sections []biquad.Coefficients) int {
	order := 0

	for _, s := range sections {
		if s.B2 == 0 && s.A2 == 0 {
			order++
		} else {
			order += 2
		}
	}

	return order
}

func reverse(x []float64) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}
