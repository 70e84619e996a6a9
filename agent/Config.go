package agent

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/samuelfneumann/snakelearn/agent/policy"
	"github.com/samuelfneumann/snakelearn/environment"
)

// Config represents a configuration for creating an agent
type Config interface {
	// CreateAgent creates the agent that the config describes
	CreateAgent(env environment.Environment, opts Options) (Agent, error)

	// Validate returns an error describing whether or not the
	// configuration is valid or not.
	Validate() error

	// Type returns the Type of agent the Config creates
	Type() Type
}

// Scheduled is a Config for agents that explore using an epsilon
// schedule owned by the experiment
type Scheduled interface {
	Config
	EpsilonSchedule() policy.DecayingFloat
}

// Loadable is a Config for agents that start from a persisted
// artifact
type Loadable interface {
	Config

	// Artifact returns the path the agent is loaded from on creation
	Artifact() string

	// WithArtifact returns a copy of the Config loading from path
	WithArtifact(path string) Config
}

// Options holds the run-wide settings an agent is created with
type Options struct {
	Mode   Mode
	Seed   uint64
	Logger logrus.FieldLogger

	// Input supplies actions to agents controlled from outside the
	// process, and may be nil for all other agents
	Input ActionSource
}

// Log returns the logger agents should report through. Without a
// configured Logger, everything is discarded.
func (o Options) Log() logrus.FieldLogger {
	if o.Logger != nil {
		return o.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
