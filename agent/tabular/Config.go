package tabular

import (
	"fmt"

	"github.com/samuelfneumann/snakelearn/agent/policy"
)

// Config holds the hyperparameters shared by the tabular agents
type Config struct {
	// Alpha is the step size of each update
	Alpha float64

	// Gamma is the discount applied to the bootstrapped next-state value
	Gamma float64

	// Epsilon is the exploration schedule of the behaviour policy
	Epsilon policy.DecayingFloat

	// LoadPath is a Q-table to start from. The empty string, or a
	// file that does not exist, starts from an empty table.
	LoadPath string
}

// DefaultConfig returns the default tabular hyperparameters
func DefaultConfig() Config {
	return Config{
		Alpha:   0.2,
		Gamma:   0.9,
		Epsilon: policy.NewConstant(0.05),
	}
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if c.Alpha <= 0 || c.Alpha > 1 {
		return fmt.Errorf("validate: step size must be in (0, 1]"+
			"\n\twant(0 < α <= 1)\n\thave(%v)", c.Alpha)
	}
	if c.Gamma < 0 || c.Gamma > 1 {
		return fmt.Errorf("validate: discount must be in [0, 1]"+
			"\n\twant(0 <= γ <= 1)\n\thave(%v)", c.Gamma)
	}
	if err := c.Epsilon.Validate(); err != nil {
		return fmt.Errorf("validate: epsilon: %w", err)
	}
	return nil
}

// EpsilonSchedule returns the exploration schedule
func (c Config) EpsilonSchedule() policy.DecayingFloat {
	return c.Epsilon
}

// Artifact returns the path of the Q-table loaded on creation
func (c Config) Artifact() string {
	return c.LoadPath
}
