package biquad

import (
	"math"
	"testing"
)

// twoSectionCoeffs returns two biquad sections for a 4th-order-like cascade.
func twoSectionCoeffs() []Coefficients {
	return []Coefficients{
		{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04},
		{B0: 0.1, B1: 0.2, B2: 0.1, A1: -0.5, A2: 0.1},
	}
}

func TestNewChain(t *testing.T) {
	coeffs := twoSectionCoeffs()

	c := NewChain(coeffs)
	if c.NumSections() != 2 {
		t.Fatalf("NumSections: got %d, want 2", c.NumSections())
	}

	if c.Order() != 4 {
		t.Fatalf("Order: got %d, want 4", c.Order())
	}
}

func TestChain_ProcessSample_MatchesManualCascade(t *testing.T) {
	coeffs := twoSectionCoeffs()

	// Reference: manual two-section cascade.
	section1 := NewSection(coeffs[0])
	section2 := NewSection(coeffs[1])

	chain := NewChain(coeffs)

	input := []float64{1, 0.5, -0.3, 0.7, 0, -1, 0.2, 0.8}
	for i, x := range input {
		ref := section2.ProcessSample(section1.ProcessSample(x))

		got := chain.ProcessSample(x)
		if !almostEqual(got, ref, eps) {
			t.Errorf("sample %d: chain=%.15f, ref=%.15f", i, got, ref)
		}
	}
}

func TestChain_ProcessBlock_MatchesSample(t *testing.T) {
	coeffs := twoSectionCoeffs()

	// Reference via ProcessSample.
	c1 := NewChain(coeffs)
	input := []float64{1, 0.5, -0.3, 0.7, 0, -1, 0.2, 0.8}

	ref := make([]float64, len(input))
	for i, x := range input {
		ref[i] = c1.ProcessSample(x)
	}

	// ProcessBlock.
	c2 := NewChain(coeffs)
	block := make([]float64, len(input))
	copy(block, input)
	c2.ProcessBlock(block)

	for i := range block {
		if !almostEqual(block[i], ref[i], eps) {
			t.Errorf("sample %d: block=%.15f, ref=%.15f", i, block[i], ref[i])
		}
	}
}

func TestChain_SingleSection(t *testing.T) {
	// A single-section chain should match a standalone Section.
	c := Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04}
	s := NewSection(c)
	chain := NewChain([]Coefficients{c})

	input := []float64{1, 0.5, -0.3, 0.7, 0}
	for i, x := range input {
		ref := s.ProcessSample(x)

		got := chain.ProcessSample(x)
		if !almostEqual(got, ref, eps) {
			t.Errorf("sample %d: chain=%.15f, section=%.15f", i, got, ref)
		}
	}
}

func TestChain_OddOrder_FirstOrderSection(t *testing.T) {
	// Odd-order cascades carry a trailing section with B2=0, A2=0
	// (effectively a 1st-order IIR).
	firstOrder := Coefficients{B0: 0.3, B1: 0.3, A1: -0.4} // B2=0, A2=0
	secondOrder := Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04}
	chain := NewChain([]Coefficients{secondOrder, firstOrder})

	s1 := NewSection(secondOrder)
	s2 := NewSection(firstOrder)

	input := []float64{1, 0, 0, 0, 0.5, -0.5, 0, 0}
	for i, x := range input {
		ref := s2.ProcessSample(s1.ProcessSample(x))

		got := chain.ProcessSample(x)
		if !almostEqual(got, ref, eps) {
			t.Errorf("sample %d: chain=%.15f, ref=%.15f", i, got, ref)
		}
	}
}

func TestChain_Reset(t *testing.T) {
	chain := NewChain(twoSectionCoeffs())
	chain.ProcessSample(1)
	chain.ProcessSample(0.5)

	chain.Reset()

	for i := range chain.sections {
		st := chain.sections[i].State()
		if st != [2]float64{0, 0} {
			t.Errorf("section %d state not zero after reset: %v", i, st)
		}
	}
}

func TestChain_State_SaveRestore(t *testing.T) {
	chain := NewChain(twoSectionCoeffs())
	chain.ProcessSample(1)
	chain.ProcessSample(0.5)
	saved := chain.State()

	y3 := chain.ProcessSample(-0.3)
	y4 := chain.ProcessSample(0.7)

	chain.SetState(saved)
	y3b := chain.ProcessSample(-0.3)
	y4b := chain.ProcessSample(0.7)

	if !almostEqual(y3, y3b, eps) {
		t.Errorf("sample 3: got %v after restore, want %v", y3b, y3)
	}

	if !almostEqual(y4, y4b, eps) {
		t.Errorf("sample 4: got %v after restore, want %v", y4b, y4)
	}
}

func TestChain_Section_Access(t *testing.T) {
	coeffs := twoSectionCoeffs()

	chain := NewChain(coeffs)
	for i, c := range coeffs {
		s := chain.Section(i)
		if s.Coefficients != c {
			t.Errorf("section %d coefficients mismatch", i)
		}
	}
}

func TestChain_SettleAt_NoTransient(t *testing.T) {
	coeffs := twoSectionCoeffs()
	chain := NewChain(coeffs)

	const level = 75.0

	// Expected settled output: level scaled by each section's DC gain.
	want := level
	for _, c := range coeffs {
		want *= c.StepGain()
	}

	chain.SettleAt(level)

	for i := range 100 {
		got := chain.ProcessSample(level)
		if !almostEqual(got, want, 1e-9) {
			t.Fatalf("sample %d: got %v, want settled %v", i, got, want)
		}
	}
}

func TestChain_StabilityLongRun(t *testing.T) {
	chain := NewChain(twoSectionCoeffs())
	chain.ProcessSample(1)

	for range 10000 {
		chain.ProcessSample(0)
	}

	states := chain.State()
	for i, st := range states {
		if math.Abs(st[0]) > 1e-100 || math.Abs(st[1]) > 1e-100 {
			t.Errorf("section %d state did not decay: %v", i, st)
		}
	}
}
