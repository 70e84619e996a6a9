// Package snake implements the snake game as an environment.Environment.
// Observations are the heading-relative vision.State of the board.
package snake

import (
	"fmt"

	"github.com/samuelfneumann/snakelearn/environment"
	"github.com/samuelfneumann/snakelearn/game"
	"github.com/samuelfneumann/snakelearn/render"
	ts "github.com/samuelfneumann/snakelearn/timestep"
	"github.com/samuelfneumann/snakelearn/vision"
)

// Snake wraps a game.Game so that agents can interact with it through
// TimeSteps. It is not safe for concurrent use.
type Snake struct {
	game     *game.Game
	ender    environment.Ender
	renderer render.Renderer
	discount float64

	currentStep ts.TimeStep
}

// New creates a new Snake environment and returns it along with the
// first TimeStep of the first episode. The ender may be nil, in which
// case episodes only end on terminal game outcomes. The renderer may
// be nil.
func New(g *game.Game, ender environment.Ender, discount float64,
	renderer render.Renderer) (*Snake, ts.TimeStep, error) {
	if discount < 0 || discount > 1 {
		return nil, ts.TimeStep{}, fmt.Errorf("new: discount must be in "+
			"[0, 1]\n\twant(0 <= discount <= 1)\n\thave(%v)", discount)
	}

	s := &Snake{
		game:     g,
		ender:    ender,
		renderer: renderer,
		discount: discount,
	}
	step, err := s.Reset()
	return s, step, err
}

// Reset resets the environment and returns the first TimeStep of a
// new episode
func (s *Snake) Reset() (ts.TimeStep, error) {
	state := s.game.Reset()
	step := ts.New(ts.First, 0, s.discount, vision.Encode(state), state, 0)
	step.Outcome = game.Running
	s.currentStep = step

	return step, s.render(state)
}

// Step takes a single environmental step given some action and returns
// the next TimeStep along with whether the episode has ended. On the
// last step of an episode the discount is 0.
func (s *Snake) Step(action game.Action) (ts.TimeStep, bool, error) {
	state, reward, done := s.game.Step(action)

	step := ts.New(ts.Mid, reward, s.discount, vision.Encode(state), state,
		s.currentStep.Number+1)
	step.Outcome = s.game.Outcome()
	if done {
		step.SetEnd(ts.Terminal)
	} else if s.ender != nil {
		s.ender.End(&step)
	}
	if step.Last() {
		step.Discount = 0
	}
	s.currentStep = step

	return step, step.Last(), s.render(state)
}

func (s *Snake) render(state game.State) error {
	if s.renderer == nil {
		return nil
	}
	if err := s.renderer.Render(state); err != nil {
		return fmt.Errorf("snake: could not render: %w", err)
	}
	return nil
}

// LastTimeStep returns the last TimeStep that occurred in the
// environment
func (s *Snake) LastTimeStep() ts.TimeStep {
	return s.currentStep
}

// NumActions returns the number of actions available in each state
func (s *Snake) NumActions() int {
	return game.NumActions
}

// Discount returns the discount factor of non-terminal steps
func (s *Snake) Discount() float64 {
	return s.discount
}

// Game returns the wrapped game
func (s *Snake) Game() *game.Game {
	return s.game
}

func (s *Snake) String() string {
	cfg := s.game.Config()
	return fmt.Sprintf("Snake | Board: %dx%d  |  Discount: %v", cfg.Width,
		cfg.Height, s.discount)
}
