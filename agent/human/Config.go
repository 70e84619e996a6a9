package human

import (
	"github.com/samuelfneumann/snakelearn/agent"
	"github.com/samuelfneumann/snakelearn/environment"
)

func init() {
	agent.Register(agent.Human, Config{})
}

// Config represents a configuration for the Human agent. Actions are
// read from agent.Options.Input.
type Config struct{}

// CreateAgent creates the agent from the Config
func (c Config) CreateAgent(env environment.Environment,
	opts agent.Options) (agent.Agent, error) {
	return New(opts.Input, opts)
}

// Validate ensures that the Config is valid
func (c Config) Validate() error { return nil }

// Type returns the type of the agent constructed by the Config
func (c Config) Type() agent.Type { return agent.Human }
