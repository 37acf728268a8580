package graphics

// ColorPulse animates one color channel back and forth. The direction flips
// on the step after the value leaves [0, 1].
type ColorPulse struct {
	value     float32
	increment float32
}

func NewColorPulse(start, increment float32) *ColorPulse {
	if increment < 0 {
		increment = -increment
	}
	return &ColorPulse{value: start, increment: increment}
}

// Value returns the current channel value.
func (p *ColorPulse) Value() float32 { return p.value }

// Increment returns the per-step change, which is always positive.
func (p *ColorPulse) Increment() float32 { return abs(p.increment) }

// SetIncrement changes the speed and keeps the current direction.
func (p *ColorPulse) SetIncrement(v float32) {
	v = abs(v)
	if p.increment < 0 {
		v = -v
	}
	p.increment = v
}

// Step advances the pulse by one frame and returns the new value.
func (p *ColorPulse) Step() float32 {
	if p.value > 1 {
		p.increment = -abs(p.increment)
	} else if p.value < 0 {
		p.increment = abs(p.increment)
	}
	p.value += p.increment
	return p.value
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
