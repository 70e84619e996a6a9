// Package tabular implements the machinery shared by agents that store
// one row of action values per encoded state in a qtable.Table
package tabular

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/sirupsen/logrus"

	"github.com/samuelfneumann/snakelearn/agent"
	"github.com/samuelfneumann/snakelearn/agent/policy"
	"github.com/samuelfneumann/snakelearn/agent/tabular/qtable"
	"github.com/samuelfneumann/snakelearn/game"
	"github.com/samuelfneumann/snakelearn/timestep"
)

// Target computes the bootstrapped value of the next state of a
// non-terminal transition
type Target func(table *qtable.Table, t timestep.Transition) float64

// MaxTarget bootstraps off the greedy next action, giving Q-learning
func MaxTarget(table *qtable.Table, t timestep.Transition) float64 {
	return table.Max(t.NextState)
}

// NextActionTarget bootstraps off the next action actually taken,
// giving Sarsa
func NextActionTarget(table *qtable.Table, t timestep.Transition) float64 {
	return table.Value(t.NextState, t.NextAction)
}

// Agent is an ε-greedy agent that learns a qtable.Table online, one
// transition at a time
type Agent struct {
	table     *qtable.Table
	behaviour *policy.EGreedy
	target    Target
	onPolicy  bool
	mode      agent.Mode
	log       logrus.FieldLogger

	alpha float64
	gamma float64

	step       timestep.TimeStep
	action     game.Action
	nextStep   timestep.TimeStep
	nextAction game.Action
	hasNext    bool // nextAction was chosen for nextStep and not yet taken
	pending    bool // (step, action, nextStep) has not been learned from
}

// New creates a new tabular Agent. The Q-table is loaded from
// c.LoadPath if it exists. On-policy agents commit to their next
// action when learning, so that the action bootstrapped off is the
// action taken.
func New(c Config, target Target, onPolicy bool,
	opts agent.Options) (*Agent, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}
	log := opts.Log()

	table, loaded, err := load(c.LoadPath, log)
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}
	if !loaded && opts.Mode == agent.Testing {
		log.WithField("path", c.LoadPath).Warn("testing without a " +
			"learned q-table")
	}

	e := c.Epsilon.Float64()
	if opts.Mode == agent.Testing {
		e = 0
	}
	behaviour, err := policy.NewEGreedy(e, opts.Seed)
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	return &Agent{
		table:     table,
		behaviour: behaviour,
		target:    target,
		onPolicy:  onPolicy,
		mode:      opts.Mode,
		log:       log,
		alpha:     c.Alpha,
		gamma:     c.Gamma,
	}, nil
}

// load returns the Q-table at path and whether it was read from disk
func load(path string, log logrus.FieldLogger) (*qtable.Table, bool, error) {
	if path == "" {
		return qtable.New(), false, nil
	}

	table, err := qtable.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.WithField("path", path).Warn("no q-table found, starting " +
			"from an empty table")
		return qtable.New(), false, nil
	} else if err != nil {
		return nil, false, err
	}

	log.WithFields(logrus.Fields{
		"path":   path,
		"states": table.Len(),
	}).Info("loaded q-table")
	return table, true, nil
}

// ObserveFirst observes and records the first episodic timestep
func (a *Agent) ObserveFirst(t timestep.TimeStep) error {
	if !t.First() {
		a.log.Warnf("ObserveFirst() should only be called on the first "+
			"timestep (current timestep = %d)", t.Number)
	}
	a.step = timestep.TimeStep{}
	a.nextStep = t
	a.hasNext = false
	a.pending = false
	return nil
}

// Observe observes and records any timestep other than the first
func (a *Agent) Observe(action game.Action, nextStep timestep.TimeStep) error {
	if !action.Valid() {
		return fmt.Errorf("observe: illegal action %d", action)
	}
	a.step = a.nextStep
	a.action = action
	a.nextStep = nextStep
	a.hasNext = false
	a.pending = true
	return nil
}

// SelectAction selects an action ε-greedily with respect to the
// current action values
func (a *Agent) SelectAction(t timestep.TimeStep) game.Action {
	if a.hasNext && t.Number == a.nextStep.Number &&
		t.Observation == a.nextStep.Observation {
		a.hasNext = false
		return a.nextAction
	}
	return a.behaviour.Select(a.table.Values(t.Observation))
}

// Step updates the action value of the last observed transition. In
// Testing mode the table is never changed.
func (a *Agent) Step() error {
	if a.mode == agent.Testing || !a.pending {
		return nil
	}
	a.pending = false

	if a.onPolicy && !a.nextStep.Last() {
		a.nextAction = a.behaviour.Select(a.table.Values(a.nextStep.Observation))
		a.hasNext = true
	}

	t := timestep.NewTransition(a.step, a.action, a.nextStep, a.nextAction)
	q := a.table.Value(t.State, t.Action)
	a.table.SetValue(t.State, t.Action, q+a.alpha*(a.updateTarget(t)-q))
	return nil
}

// updateTarget returns r + γ * bootstrap, where no value is
// bootstrapped off a terminal state
func (a *Agent) updateTarget(t timestep.Transition) float64 {
	if t.Terminal {
		return t.Reward
	}
	return t.Reward + a.gamma*a.target(a.table, t)
}

// TdError returns the TD error of transition t under the current
// action values
func (a *Agent) TdError(t timestep.Transition) float64 {
	return a.updateTarget(t) - a.table.Value(t.State, t.Action)
}

// EndEpisode performs cleanup at the end of an episode
func (a *Agent) EndEpisode() error {
	a.hasNext = false
	return nil
}

// Mode returns whether the agent is training or testing
func (a *Agent) Mode() agent.Mode {
	return a.mode
}

// SetEpsilon sets the exploration rate. Testing agents never explore.
func (a *Agent) SetEpsilon(e float64) {
	if a.mode == agent.Testing {
		return
	}
	a.behaviour.SetEpsilon(e)
}

// Epsilon returns the exploration rate
func (a *Agent) Epsilon() float64 {
	return a.behaviour.Epsilon()
}

// Table returns the Q-table the agent learns
func (a *Agent) Table() *qtable.Table {
	return a.table
}

// Save saves the Q-table to filename
func (a *Agent) Save(filename string) error {
	if err := a.table.Save(filename); err != nil {
		return err
	}
	a.log.WithFields(logrus.Fields{
		"path":   filename,
		"states": a.table.Len(),
	}).Debug("saved q-table")
	return nil
}
