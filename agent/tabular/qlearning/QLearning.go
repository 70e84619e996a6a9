// Package qlearning implements tabular Q-Learning over encoded snake
// states.
//
// Each update moves Q(s, a) towards r + γ max_a' Q(s', a'), where no
// value is bootstrapped off a terminal state.
package qlearning

import (
	"github.com/samuelfneumann/snakelearn/agent"
	"github.com/samuelfneumann/snakelearn/agent/tabular"
)

// QLearning implements the Q-Learning algorithm
type QLearning struct {
	*tabular.Agent
}

// New creates a new QLearning agent
func New(c Config, opts agent.Options) (*QLearning, error) {
	a, err := tabular.New(c.Config, tabular.MaxTarget, false, opts)
	if err != nil {
		return nil, err
	}
	return &QLearning{a}, nil
}
