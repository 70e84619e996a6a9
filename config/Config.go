// Package config loads the JSON configuration of a snakelearn run.
//
// A Config starts from Default(), is overlaid with a JSON file by Load,
// then with SNAKELEARN_ environment variables by FromEnv. Command line
// flags are applied last by the caller.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/samuelfneumann/snakelearn/agent"
	"github.com/samuelfneumann/snakelearn/agent/policy"
	"github.com/samuelfneumann/snakelearn/environment"
	"github.com/samuelfneumann/snakelearn/experiment/checkpointer"
	"github.com/samuelfneumann/snakelearn/game"
)

// Config describes a complete run
type Config struct {
	Game       Game
	Rewards    game.Rewards
	Experiment Experiment
	Agent      Agent
	Render     Render
	Output     Output
	Log        Log
}

// Game describes the board
type Game struct {
	Width           int
	Height          int
	FoodMinDistance float64
}

// Experiment describes the episodes that are run
type Experiment struct {
	Episodes int
	Mode     agent.Mode
	Seed     uint64

	// MaxSteps caps the length of an episode, 0 disables the cap
	MaxSteps int

	// MaxLength ends an episode as won once the snake is this long, 0
	// disables the win
	MaxLength int

	// Discount is carried on the environment timesteps
	Discount float64

	// CheckpointEvery saves the agent every n episodes, 0 disables
	// checkpointing
	CheckpointEvery int

	// CheckpointNaming is NameByEpisode or NameByTime
	CheckpointNaming string

	Progress bool
}

// Agent selects the agent and its hyperparameters
type Agent struct {
	Type agent.Type

	// Config holds the hyperparameters of Type. If nil, or of another
	// type, the registered defaults of Type are used.
	Config *agent.TypedConfig `json:",omitempty"`

	// Epsilon replaces the exploration schedule of the agent config
	Epsilon *policy.DecayingFloat `json:",omitempty"`
}

// Checkpoint naming schemes
const (
	NameByEpisode = "episode" // <type>-1, <type>-2, ...
	NameByTime    = "time"    // <type>-<UTC timestamp>
)

// Render modes
const (
	RenderNone = "none"
	RenderText = "text"
	RenderPNG  = "png"
)

// Render describes how games are drawn
type Render struct {
	Mode     string
	Colour   bool
	CellSize int // PNG pixels per cell

	// Delay is the pause in milliseconds after each drawn step. If 0,
	// human players get HumanDelay and everyone else no pause.
	Delay int
}

// HumanDelay paces rendered games of the human agent
const HumanDelay = 250 * time.Millisecond

// Output describes where artifacts are written
type Output struct {
	Dir string

	// AgentFile is the file name of the persisted agent inside Dir. If
	// empty, it is derived from the agent type.
	AgentFile string
}

// Log describes the logger
type Log struct {
	Level string
	JSON  bool
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Game: Game{
			Width:           15,
			Height:          20,
			FoodMinDistance: 2,
		},
		Rewards: game.DefaultRewards(),
		Experiment: Experiment{
			Episodes:        100,
			Mode:            agent.Training,
			Seed:            1,
			MaxSteps:        1000,
			Discount:        0.9,
			CheckpointEvery:  0,
			CheckpointNaming: NameByEpisode,
		},
		Agent: Agent{
			Type: agent.QLearning,
		},
		Render: Render{
			Mode:     RenderNone,
			Colour:   true,
			CellSize: 20,
		},
		Output: Output{
			Dir: "out",
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Load returns the defaults overlaid with the JSON document at path.
// An empty path returns the defaults.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load: %w", err)
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("load: could not decode %v: %w", path,
			err)
	}
	return c, nil
}

// AgentConfig returns the typed hyperparameters of the selected agent.
// Agents that persist an artifact and have no load path set load from
// AgentPath, the file that training writes.
func (c Config) AgentConfig() (agent.TypedConfig, error) {
	var typed agent.TypedConfig
	if c.Agent.Config != nil {
		typed = *c.Agent.Config
	}
	typed, err := typed.WithType(c.Agent.Type)
	if err != nil {
		return agent.TypedConfig{}, fmt.Errorf("agentconfig: %w", err)
	}
	if l, ok := typed.Config.(agent.Loadable); ok && l.Artifact() == "" {
		typed.Config = l.WithArtifact(c.AgentPath())
	}
	return typed, nil
}

// Epsilon returns the exploration schedule of the run, or nil if the
// agent does not explore
func (c Config) Epsilon() (*policy.DecayingFloat, error) {
	if c.Agent.Epsilon != nil {
		e := *c.Agent.Epsilon
		return &e, nil
	}

	typed, err := c.AgentConfig()
	if err != nil {
		return nil, fmt.Errorf("epsilon: %w", err)
	}
	scheduled, ok := typed.Config.(agent.Scheduled)
	if !ok {
		return nil, nil
	}
	e := scheduled.EpsilonSchedule()
	return &e, nil
}

// AgentPath returns the path the agent is persisted to
func (c Config) AgentPath() string {
	name := c.Output.AgentFile
	if name == "" {
		ext := ".json"
		if c.Agent.Type == agent.DeepQ {
			ext = ".gob"
		}
		name = string(c.Agent.Type) + ext
	}
	return filepath.Join(c.Output.Dir, name)
}

// Ender returns the episode limits of the run
func (c Config) Ender() environment.Ender {
	enders := environment.Enders{
		environment.NewStepLimit(c.Experiment.MaxSteps),
	}
	if c.Experiment.MaxLength > 0 {
		enders = append(enders,
			environment.NewLengthLimit(c.Experiment.MaxLength))
	}
	return enders
}

// CheckpointNames returns the function naming successive checkpoint
// files of the agent
func (c Config) CheckpointNames() func() string {
	base := filepath.Join(c.Output.Dir, "checkpoints", string(c.Agent.Type))
	ext := filepath.Ext(c.AgentPath())
	if c.Experiment.CheckpointNaming == NameByTime {
		return checkpointer.FileTimer(base, ext)
	}
	return checkpointer.FilenameEnumerator(0, base+"-", ext)
}

// RenderDelay returns the pause after each rendered step
func (c Config) RenderDelay() time.Duration {
	if c.Render.Delay == 0 && c.Agent.Type == agent.Human {
		return HumanDelay
	}
	return time.Duration(c.Render.Delay) * time.Millisecond
}

// GameConfig returns the configuration of the game
func (c Config) GameConfig() game.Config {
	return game.Config{
		Width:           c.Game.Width,
		Height:          c.Game.Height,
		FoodMinDistance: c.Game.FoodMinDistance,
		Seed:            c.Experiment.Seed,
	}
}
