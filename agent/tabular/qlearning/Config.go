package qlearning

import (
	"github.com/samuelfneumann/snakelearn/agent"
	"github.com/samuelfneumann/snakelearn/agent/tabular"
	"github.com/samuelfneumann/snakelearn/environment"
)

func init() {
	// Register the Config type so that it can be typed using
	// agent.TypedConfig to help with serialization/deserialization.
	agent.Register(agent.QLearning, DefaultConfig())
}

// Config represents a configuration for the QLearning agent
type Config struct {
	tabular.Config
}

// DefaultConfig returns the default QLearning configuration
func DefaultConfig() Config {
	return Config{tabular.DefaultConfig()}
}

// NewConfig returns a new Config as an agent.TypedConfig so that it can
// easily be JSON serialized/deserialized
func NewConfig(c tabular.Config) agent.TypedConfig {
	return agent.NewTypedConfig(Config{c})
}

// CreateAgent creates the agent from the Config
func (c Config) CreateAgent(env environment.Environment,
	opts agent.Options) (agent.Agent, error) {
	return New(c, opts)
}

// Type returns the type of the agent constructed by the Config
func (c Config) Type() agent.Type {
	return agent.QLearning
}

// WithArtifact returns a copy of the Config that loads its Q-table from
// path
func (c Config) WithArtifact(path string) agent.Config {
	c.LoadPath = path
	return c
}
