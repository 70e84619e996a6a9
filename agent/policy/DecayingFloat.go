package policy

import "fmt"

// DecayMode determines how a DecayingFloat decays
type DecayMode string

const (
	Exponential DecayMode = "exp"    // value *= factor
	Linear      DecayMode = "linear" // value -= factor
	Constant    DecayMode = "none"   // value never changes
)

// DecayingFloat is a value, usually an exploration rate, that decays
// each time Decay is called until it reaches a floor. The exported
// fields describe the schedule and can be JSON configured.
type DecayingFloat struct {
	Initial float64
	Factor  float64
	Min     float64
	Mode    DecayMode

	value   float64
	started bool
}

// NewDecayingFloat returns a new DecayingFloat starting at initial
func NewDecayingFloat(initial, factor, min float64,
	mode DecayMode) DecayingFloat {
	return DecayingFloat{Initial: initial, Factor: factor, Min: min,
		Mode: mode}
}

// NewConstant returns a DecayingFloat that never decays
func NewConstant(value float64) DecayingFloat {
	return DecayingFloat{Initial: value, Min: value, Mode: Constant}
}

// Float64 returns the current value
func (d *DecayingFloat) Float64() float64 {
	if !d.started {
		return d.Initial
	}
	return d.value
}

// Decay performs a single step of decay. The value never drops below
// Min.
func (d *DecayingFloat) Decay() {
	v := d.Float64()
	switch d.Mode {
	case Exponential:
		v *= d.Factor
	case Linear:
		v -= d.Factor
	}
	if v < d.Min {
		v = d.Min
	}
	d.value = v
	d.started = true
}

// Reset starts the schedule over from Initial
func (d *DecayingFloat) Reset() {
	d.started = false
	d.value = 0
}

// Floor returns the smallest value the schedule reaches
func (d DecayingFloat) Floor() float64 {
	if d.Mode == Constant {
		return d.Initial
	}
	return d.Min
}

// Validate returns an error if the schedule does not describe a
// non-increasing sequence of probabilities
func (d DecayingFloat) Validate() error {
	if d.Initial < 0 || d.Initial > 1 {
		return fmt.Errorf("validate: initial value must be a probability"+
			"\n\twant(0 <= initial <= 1)\n\thave(%v)", d.Initial)
	}
	if d.Min < 0 || d.Min > d.Initial && d.Mode != Constant {
		return fmt.Errorf("validate: floor must be in [0, initial]"+
			"\n\twant(0 <= min <= %v)\n\thave(%v)", d.Initial, d.Min)
	}

	switch d.Mode {
	case Exponential:
		if d.Factor <= 0 || d.Factor > 1 {
			return fmt.Errorf("validate: exponential decay factor must be "+
				"in (0, 1]\n\twant(0 < factor <= 1)\n\thave(%v)", d.Factor)
		}
	case Linear:
		if d.Factor < 0 {
			return fmt.Errorf("validate: linear decay factor must be "+
				"non-negative\n\twant(>= 0)\n\thave(%v)", d.Factor)
		}
	case Constant:
	default:
		return fmt.Errorf("validate: unknown decay mode %q", d.Mode)
	}
	return nil
}

// ValidateTraining is Validate with the added requirement that the
// schedule never reaches zero, so a training agent always explores
func (d DecayingFloat) ValidateTraining() error {
	if err := d.Validate(); err != nil {
		return err
	}
	if d.Floor() <= 0 {
		return fmt.Errorf("validatetraining: exploration floor must be "+
			"positive\n\twant(>0)\n\thave(%v)", d.Floor())
	}
	return nil
}

func (d DecayingFloat) String() string {
	return fmt.Sprintf("DecayingFloat | Value: %v  |  Mode: %v  |  "+
		"Factor: %v  |  Min: %v", d.Float64(), d.Mode, d.Factor, d.Min)
}
