// Package rulebased implements a fixed heuristic snake player. The
// player moves towards the food along the vertical axis, then along
// the horizontal axis, when the way is clear. Otherwise it tries to go
// around whatever is in the way and, failing that, keeps going
// straight.
package rulebased

import (
	"github.com/samuelfneumann/snakelearn/agent"
	"github.com/samuelfneumann/snakelearn/game"
	"github.com/samuelfneumann/snakelearn/timestep"
)

// RuleBased is an agent that never learns
type RuleBased struct {
	mode agent.Mode
}

// New returns a new RuleBased agent
func New(opts agent.Options) *RuleBased {
	return &RuleBased{mode: opts.Mode}
}

// SelectAction selects an action using the raw board of t
func (r *RuleBased) SelectAction(t timestep.TimeStep) game.Action {
	return Choose(t.Raw)
}

// Choose returns the heuristic action on board s
func Choose(s game.State) game.Action {
	if len(s.Body) == 0 {
		return game.Straight
	}
	head := s.Head()

	var towards []game.Direction
	if s.Food.Y < head.Y {
		towards = append(towards, game.North)
	} else if s.Food.Y > head.Y {
		towards = append(towards, game.South)
	}
	if s.Food.X > head.X {
		towards = append(towards, game.East)
	} else if s.Food.X < head.X {
		towards = append(towards, game.West)
	}
	if a, ok := firstOpen(s, towards); ok {
		return a
	}

	// Go around
	var around []game.Direction
	switch s.Heading {
	case game.East, game.West:
		around = []game.Direction{game.North, game.South}
	case game.North, game.South:
		around = []game.Direction{game.East, game.West}
	}
	if a, ok := firstOpen(s, around); ok {
		return a
	}
	return game.Straight
}

// firstOpen returns the action turning the snake towards the first
// unblocked direction in dirs. Directions behind the snake are skipped
// since the snake cannot reverse.
func firstOpen(s game.State, dirs []game.Direction) (game.Action, bool) {
	head := s.Head()
	for _, d := range dirs {
		a, ok := actionTowards(s.Heading, d)
		if ok && !s.Blocked(head.Add(d.Delta())) {
			return a, true
		}
	}
	return game.Straight, false
}

func actionTowards(heading, d game.Direction) (game.Action, bool) {
	for _, a := range game.Actions {
		if heading.Turn(a) == d {
			return a, true
		}
	}
	return game.Straight, false
}

// ObserveFirst implements the agent.Learner interface
func (r *RuleBased) ObserveFirst(timestep.TimeStep) error { return nil }

// Observe implements the agent.Learner interface
func (r *RuleBased) Observe(game.Action, timestep.TimeStep) error { return nil }

// Step implements the agent.Learner interface
func (r *RuleBased) Step() error { return nil }

// EndEpisode implements the agent.Learner interface
func (r *RuleBased) EndEpisode() error { return nil }

// Mode returns the mode the agent was created with
func (r *RuleBased) Mode() agent.Mode { return r.mode }
