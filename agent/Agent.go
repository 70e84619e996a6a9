// Package agent defines an agent interface
package agent

import (
	"github.com/samuelfneumann/snakelearn/game"
	"github.com/samuelfneumann/snakelearn/timestep"
)

// Agent determines the implementation details of an agent or algorithm
//
// An Agent is composed of a Learner, which learns action values, and a
// Policy which chooses actions in each state. The Policy chooses which
// actions are taken, and the Learner uses these actions to update the
// Policy.
type Agent interface {
	Learner
	Policy
}

// A Closer is an agent that must be closed after it is done learning
type Closer interface {
	Agent
	Close() error
}

// Learner implements a learning algorithm that defines how action
// values are updated. In Testing mode every method must leave the
// learned values untouched.
type Learner interface {
	// Step performs a single update to the learner
	Step() error

	// Observe records that an action lead to some timestep
	Observe(action game.Action, nextObs timestep.TimeStep) error

	// ObserveFirst records the first timestep in an episode
	ObserveFirst(timestep.TimeStep) error

	// EndEpisode performs cleanup at the end of an episode
	EndEpisode() error
}

// TdErrorer is a Learner that can return the TD error of some transition
type TdErrorer interface {
	Learner

	// TdError returns the TD error on a transition
	TdError(t timestep.Transition) float64
}

// Policy represents a policy that an agent can have.
//
// For a given agent, the Policy and Learner should share the same
// action values so that any changes the learner makes are reflected
// in the actions the Policy chooses
type Policy interface {
	SelectAction(t timestep.TimeStep) game.Action
	Mode() Mode
}

// Explorer is a Policy that explores with an epsilon greedy
// distribution whose epsilon can be set and retrieved
type Explorer interface {
	Policy
	SetEpsilon(float64)
	Epsilon() float64
}

// Persister is an agent whose learned values can be saved to disk
type Persister interface {
	Save(filename string) error
}

// ActionSource supplies actions chosen outside of the agent, such as
// key presses from a human player. ok is false if no action is
// pending.
type ActionSource interface {
	NextAction() (a game.Action, ok bool)
}
