package environment

import (
	"github.com/samuelfneumann/snakelearn/game"
	"github.com/samuelfneumann/snakelearn/timestep"
)

// FunctionEnder ends an episode whenever a function of the underlying
// game state returns true.
type FunctionEnder struct {
	end     func(game.State) bool
	endType timestep.EndType
	outcome game.Outcome
}

// NewFunctionEnder returns a new FunctionEnder which ends episodes with
// end type endType when f returns true. Unless outcome is game.Running,
// it replaces the outcome of the ending step.
func NewFunctionEnder(f func(game.State) bool, endType timestep.EndType,
	outcome game.Outcome) Ender {
	return &FunctionEnder{f, endType, outcome}
}

// NewLengthLimit returns an Ender that declares the episode won once
// the snake reaches length n.
func NewLengthLimit(n int) Ender {
	return NewFunctionEnder(func(s game.State) bool {
		return s.Len() >= n
	}, timestep.Terminal, game.Won)
}

// End determines whether or not the current episode should be ended,
// returning a boolean to indicate episode temrination. If the episode
// should be ended, End() will modify the timestep so that its StepType
// field is timestep.Last and its EndType is the appropriate ending
// type.
func (f *FunctionEnder) End(t *timestep.TimeStep) bool {
	if !f.end(t.Raw) {
		return false
	}
	t.SetEnd(f.endType)
	if f.outcome != game.Running {
		t.Outcome = f.outcome
	}
	return true
}
