package timestep

import (
	"fmt"

	"github.com/samuelfneumann/snakelearn/game"
	"github.com/samuelfneumann/snakelearn/vision"
)

// Transition is a single (S, A, R, S', A') tuple. NextAction is only
// meaningful for on-policy learners and is ignored when Terminal.
type Transition struct {
	State      vision.State
	Action     game.Action
	Reward     float64
	Discount   float64
	NextState  vision.State
	NextAction game.Action
	Terminal   bool
}

// NewTransition creates a new Transition from the step on which an
// action was taken, the action itself and the step it led to.
func NewTransition(step TimeStep, action game.Action, nextStep TimeStep,
	nextAction game.Action) Transition {
	return Transition{
		State:      step.Observation,
		Action:     action,
		Reward:     nextStep.Reward,
		Discount:   nextStep.Discount,
		NextState:  nextStep.Observation,
		NextAction: nextAction,
		Terminal:   nextStep.Terminal(),
	}
}

func (t Transition) String() string {
	return fmt.Sprintf("Transition | %v --%v--> %v  |  Reward: %.2f  |  "+
		"Terminal: %v", t.State, t.Action, t.NextState, t.Reward, t.Terminal)
}
