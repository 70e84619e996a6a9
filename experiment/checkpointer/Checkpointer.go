// Package checkpointer implements saving agents at regular points of
// an experiment
package checkpointer

import (
	ts "github.com/samuelfneumann/snakelearn/timestep"
)

// Checkpointer checkpoints/saves objects based on timestep.TimeSteps
type Checkpointer interface {
	Checkpoint(ts.TimeStep) error
}
