package deepq

import (
	"fmt"

	"github.com/samuelfneumann/snakelearn/agent"
	"github.com/samuelfneumann/snakelearn/agent/policy"
	"github.com/samuelfneumann/snakelearn/environment"
	"github.com/samuelfneumann/snakelearn/expreplay"
	"github.com/samuelfneumann/snakelearn/initwfn"
	"github.com/samuelfneumann/snakelearn/network"
	"github.com/samuelfneumann/snakelearn/solver"
)

func init() {
	// Register the Config type so that it can be typed using
	// agent.TypedConfig to help with serialization/deserialization.
	agent.Register(agent.DeepQ, DefaultConfig())
}

// Config implements a configuration for a DeepQ agent
type Config struct {
	PolicyLayers []int                 // Layer sizes in neural net
	Biases       []bool                // Whether each layer should have a bias
	Activations  []*network.Activation // Activation of each layer
	Solver       solver.Solver         // Solver for learning weights

	// Initialization algorithm for weights. Random initializers are
	// reseeded with the agent's seed.
	InitWFn initwfn.InitWFn

	Gamma   float64               // Discount factor
	Epsilon policy.DecayingFloat // Behaviour policy epsilon schedule

	// Experience replay parameters
	ExpReplay expreplay.Config

	// Target net updates
	Tau                  float64 // Polyak averaging constant
	TargetUpdateInterval int     // Number of gradient steps between updates

	// LearnInterval is the number of environment steps between
	// gradient steps. Zero disables learning on environment steps.
	LearnInterval int

	// TrainAtEpisodeEnd takes one extra gradient step at the end of
	// each episode
	TrainAtEpisodeEnd bool

	// LoadPath is the weights file loaded on creation, if it exists
	LoadPath string
}

// DefaultConfig returns the default DeepQ configuration
func DefaultConfig() Config {
	adam, err := solver.NewDefaultAdam(0.0005, 1)
	if err != nil {
		panic(fmt.Sprintf("defaultconfig: %v", err))
	}
	init, err := initwfn.NewGlorotU(1.0, 0)
	if err != nil {
		panic(fmt.Sprintf("defaultconfig: %v", err))
	}

	return Config{
		PolicyLayers: []int{30, 80, 30},
		Biases:       []bool{true, true, true},
		Activations: []*network.Activation{
			network.ReLU(),
			network.ReLU(),
			network.ReLU(),
		},
		Solver:  *adam,
		InitWFn: *init,
		Gamma:   0.9,
		Epsilon: policy.NewDecayingFloat(1.0, 0.9, 0.1, policy.Exponential),
		ExpReplay: expreplay.Config{
			SampleSize:        1000,
			MaxReplayCapacity: 2500,
			MinReplayCapacity: 1000,
		},
		Tau:                  1.0,
		TargetUpdateInterval: 1,
		LearnInterval:        0,
		TrainAtEpisodeEnd:    true,
	}
}

// NewConfig returns a new Config as an agent.TypedConfig so that it can
// easily be JSON serialized/deserialized
func NewConfig(c Config) agent.TypedConfig {
	return agent.NewTypedConfig(c)
}

// BatchSize returns the batch size of the agent constructed using this
// Config
func (c Config) BatchSize() int {
	return c.ExpReplay.SampleSize
}

// Type returns the type of the configuration
func (c Config) Type() agent.Type {
	return agent.DeepQ
}

// EpsilonSchedule returns the schedule of the behaviour policy epsilon
func (c Config) EpsilonSchedule() policy.DecayingFloat {
	return c.Epsilon
}

// Validate checks a Config to ensure it is a valid configuration of a
// DeepQ agent.
func (c Config) Validate() error {
	if len(c.PolicyLayers) != len(c.Biases) {
		return fmt.Errorf("validate: invalid number of biases\n\twant(%v)"+
			"\n\thave(%v)", len(c.PolicyLayers), len(c.Biases))
	}

	if len(c.PolicyLayers) != len(c.Activations) {
		return fmt.Errorf("validate: invalid number of activations"+
			"\n\twant(%v)\n\thave(%v)", len(c.PolicyLayers),
			len(c.Activations))
	}

	for i, size := range c.PolicyLayers {
		if size < 1 {
			return fmt.Errorf("validate: layer %d must have a positive "+
				"size\n\twant(>0)\n\thave(%v)", i, size)
		}
		if c.Activations[i] == nil {
			return fmt.Errorf("validate: layer %d has no activation", i)
		}
	}

	if c.Solver.Config == nil {
		return fmt.Errorf("validate: no solver specified")
	}
	if err := c.Solver.Config.Validate(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	if c.InitWFn.Config == nil {
		return fmt.Errorf("validate: no weight initializer specified")
	}

	if c.Gamma < 0 || c.Gamma > 1 {
		return fmt.Errorf("validate: discount must be in [0, 1]"+
			"\n\twant(0 <= γ <= 1)\n\thave(%v)", c.Gamma)
	}

	if err := c.Epsilon.Validate(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	if err := c.ExpReplay.Validate(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	if c.Tau <= 0 || c.Tau > 1 {
		return fmt.Errorf("validate: polyak constant must be in (0, 1]"+
			"\n\twant(0 < τ <= 1)\n\thave(%v)", c.Tau)
	}

	if c.TargetUpdateInterval < 1 {
		return fmt.Errorf("validate: target networks must be updated at "+
			"positive intervals \n\twant(>0) \n\thave(%v)",
			c.TargetUpdateInterval)
	}

	if c.LearnInterval < 0 {
		return fmt.Errorf("validate: learn interval must be non-negative"+
			"\n\twant(>=0)\n\thave(%v)", c.LearnInterval)
	}
	if c.LearnInterval == 0 && !c.TrainAtEpisodeEnd {
		return fmt.Errorf("validate: agent never learns, set " +
			"LearnInterval or TrainAtEpisodeEnd")
	}

	return nil
}

// Artifact returns the path of the weights loaded on creation
func (c Config) Artifact() string {
	return c.LoadPath
}

// WithArtifact returns a copy of the Config that loads its weights from
// path
func (c Config) WithArtifact(path string) agent.Config {
	c.LoadPath = path
	return c
}

// CreateAgent creates a new DeepQ agent based on the configuration
func (c Config) CreateAgent(e environment.Environment,
	opts agent.Options) (agent.Agent, error) {
	return New(c, opts)
}
