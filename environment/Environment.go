// Package environment outlines the interfaces and sturcts needed to implement
// concrete environments
package environment

import (
	"github.com/samuelfneumann/snakelearn/game"
	"github.com/samuelfneumann/snakelearn/timestep"
)

// Environment implements a simualted environment that agents act in.
// Actions are always relative to the current heading of the snake.
type Environment interface {
	// Reset starts a new episode and returns its first TimeStep
	Reset() (timestep.TimeStep, error)

	// Step takes an action and returns the resulting TimeStep along
	// with whether the episode has ended
	Step(action game.Action) (timestep.TimeStep, bool, error)

	// LastTimeStep returns the most recent TimeStep
	LastTimeStep() timestep.TimeStep

	// NumActions returns the number of actions available in each state
	NumActions() int

	// Discount returns the discount factor applied to non-terminal steps
	Discount() float64
}

// Ender determines when episodes should be ended
type Ender interface {
	// End checks whether the episode should end on TimeStep t. If so,
	// t is modified so that its StepType is timestep.Last and its
	// EndType records why the episode ended.
	End(t *timestep.TimeStep) bool
}

// Enders combines multiple Enders, ending the episode when any of them
// would
type Enders []Ender

// End implements the Ender interface
func (e Enders) End(t *timestep.TimeStep) bool {
	for _, ender := range e {
		if ender.End(t) {
			return true
		}
	}
	return false
}
