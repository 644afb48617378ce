package biquad

// Chain is an ordered cascade of biquad sections processed in series.
// It is used for higher-order filters (Butterworth cascades) where each
// second-order section feeds into the next.
type Chain struct {
	sections []Section
}

// NewChain creates a cascade from one or more coefficient sets.
// Each Coefficients value becomes one Section in the cascade.
func NewChain(coeffs []Coefficients) *Chain {
	c := &Chain{sections: make([]Section, len(coeffs))}
	for i := range coeffs {
		c.sections[i].Coefficients = coeffs[i]
	}

	return c
}

// ProcessSample cascades input through all sections in order.
func (c *Chain) ProcessSample(x float64) float64 {
	for i := range c.sections {
		x = c.sections[i].ProcessSample(x)
	}

	return x
}

// ProcessBlock filters a block in-place through the full cascade.
func (c *Chain) ProcessBlock(buf []float64) {
	for i := range c.sections {
		c.sections[i].ProcessBlock(buf)
	}
}

// Reset clears all section states.
func (c *Chain) Reset() {
	for i := range c.sections {
		c.sections[i].Reset()
	}
}

// SettleAt seeds every section with the state it would hold after fully
// settling under a constant input level. Processing that level afterwards
// produces no startup transient. Each section settles at the level the
// preceding sections pass through to it.
func (c *Chain) SettleAt(level float64) {
	for i := range c.sections {
		c.sections[i].SetState(c.sections[i].StepState(level))
		level *= c.sections[i].StepGain()
	}
}

// Order returns the total filter order (2 per full biquad section).
func (c *Chain) Order() int {
	return 2 * len(c.sections)
}

// NumSections returns the number of biquad sections.
func (c *Chain) NumSections() int {
	return len(c.sections)
}

// Section returns a pointer to the i-th section for inspection or modification.
func (c *Chain) Section(i int) *Section {
	return &c.sections[i]
}

// State returns a snapshot of all section delay-line states.
func (c *Chain) State() [][2]float64 {
	states := make([][2]float64, len(c.sections))
	for i := range c.sections {
		states[i] = c.sections[i].State()
	}

	return states
}

// SetState restores previously saved section states.
// The slice length must match NumSections.
func (c *Chain) SetState(states [][2]float64) {
	for i := range c.sections {
		c.sections[i].SetState(states[i])
	}
}
