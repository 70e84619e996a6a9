package agent

import "fmt"

// Mode determines whether an agent explores and learns. The Mode is
// fixed when the agent is created.
type Mode int

const (
	// Training agents explore and update their action values
	Training Mode = iota

	// Testing agents act greedily and never learn
	Testing
)

// ParseMode returns the Mode named by s
func ParseMode(s string) (Mode, error) {
	switch s {
	case "training", "train":
		return Training, nil
	case "testing", "test":
		return Testing, nil
	}
	return Training, fmt.Errorf("parsemode: unknown mode %q", s)
}

func (m Mode) String() string {
	if m == Testing {
		return "testing"
	}
	return "training"
}

// MarshalText implements the encoding.TextMarshaler interface
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface
func (m *Mode) UnmarshalText(text []byte) error {
	mode, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}
