// Package timestep implements timesteps of the agent-environment interaction
package timestep

import (
	"fmt"

	"github.com/samuelfneumann/snakelearn/game"
	"github.com/samuelfneumann/snakelearn/vision"
)

// StepType denotes the type of step that a TimeStep can be, either  first
// environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// EndType describes why an episode ended
type EndType int

const (
	NotEnded EndType = iota
	Terminal         // The game reached a terminal outcome
	Timeout          // An episode cutoff was reached
)

func (e EndType) String() string {
	switch e {
	case Terminal:
		return "Terminal"
	case Timeout:
		return "Timeout"
	default:
		return "NotEnded"
	}
}

// TimeStep packages together a single timestep in an environment.
// Observation is the encoded view the agents learn from; Raw holds the
// full board for renderers and heuristic players.
type TimeStep struct {
	StepType    StepType
	Reward      float64
	Discount    float64
	Observation vision.State
	Raw         game.State
	Outcome     game.Outcome
	Number      int
	endType     EndType
}

// New returns a new TimeStep
func New(t StepType, r, d float64, o vision.State, raw game.State,
	n int) TimeStep {
	return TimeStep{
		StepType:    t,
		Reward:      r,
		Discount:    d,
		Observation: o,
		Raw:         raw,
		Number:      n,
	}
}

// First returns whether a TimeStep is the first in an environment
func (t *TimeStep) First() bool {
	return t.StepType == First
}

// Mid returns whether a TimeStep is a middle step in an environment
func (t *TimeStep) Mid() bool {
	return t.StepType == Mid
}

// Last returns whether a TimeStep is the last step in an environment
func (t *TimeStep) Last() bool {
	return t.StepType == Last
}

// SetEnd marks the TimeStep as the last in its episode and records why
func (t *TimeStep) SetEnd(e EndType) {
	t.StepType = Last
	t.endType = e
}

// EndType returns why the episode ended, or NotEnded
func (t *TimeStep) EndType() EndType {
	return t.endType
}

// Terminal returns whether the episode ended in a terminal state.
// Episodes cut off by a step limit also count as terminal so that no
// value is bootstrapped past the end of an episode.
func (t *TimeStep) Terminal() bool {
	return t.Last()
}

func (t TimeStep) String() string {
	str := "TimeStep | Type: %v  |  Reward:  %.2f  |  Discount: %.2f  |  " +
		"Step Number:  %v  |  Observation: %v"

	return fmt.Sprintf(str, t.StepType, t.Reward, t.Discount, t.Number,
		t.Observation)
}
