// Package human implements an agent controlled by a person. Actions
// come from an agent.ActionSource; when no action is pending the snake
// keeps going straight.
package human

import (
	"fmt"

	"github.com/samuelfneumann/snakelearn/agent"
	"github.com/samuelfneumann/snakelearn/game"
	"github.com/samuelfneumann/snakelearn/timestep"
)

// Human is an agent that plays whatever actions its input supplies
type Human struct {
	input agent.ActionSource
	mode  agent.Mode
}

// New returns a new Human agent reading actions from input
func New(input agent.ActionSource, opts agent.Options) (*Human, error) {
	if input == nil {
		return nil, fmt.Errorf("new: human agent requires an action source")
	}
	return &Human{input: input, mode: opts.Mode}, nil
}

// SelectAction returns the pending action of the input, or Straight
func (h *Human) SelectAction(timestep.TimeStep) game.Action {
	if a, ok := h.input.NextAction(); ok && a.Valid() {
		return a
	}
	return game.Straight
}

// ObserveFirst implements the agent.Learner interface
func (h *Human) ObserveFirst(timestep.TimeStep) error { return nil }

// Observe implements the agent.Learner interface
func (h *Human) Observe(game.Action, timestep.TimeStep) error { return nil }

// Step implements the agent.Learner interface
func (h *Human) Step() error { return nil }

// EndEpisode implements the agent.Learner interface
func (h *Human) EndEpisode() error { return nil }

// Mode returns the mode the agent was created with
func (h *Human) Mode() agent.Mode { return h.mode }
