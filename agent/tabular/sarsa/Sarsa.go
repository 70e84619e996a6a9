// Package sarsa implements tabular Sarsa over encoded snake states.
//
// Sarsa is the on-policy counterpart of Q-Learning: it bootstraps off
// the action the behaviour policy actually takes next, so each update
// moves Q(s, a) towards r + γ Q(s', a').
package sarsa

import (
	"github.com/samuelfneumann/snakelearn/agent"
	"github.com/samuelfneumann/snakelearn/agent/tabular"
)

// Sarsa implements the Sarsa algorithm
type Sarsa struct {
	*tabular.Agent
}

// New creates a new Sarsa agent
func New(c Config, opts agent.Options) (*Sarsa, error) {
	a, err := tabular.New(c.Config, tabular.NextActionTarget, true, opts)
	if err != nil {
		return nil, err
	}
	return &Sarsa{a}, nil
}
