package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/samuelfneumann/snakelearn/agent"
)

// FieldError describes a single invalid field
type FieldError struct {
	Field string
	Msg   string
}

// ValidationError lists every invalid field of a Config
type ValidationError struct {
	Fields []FieldError
}

func (v *ValidationError) Error() string {
	msgs := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		msgs[i] = fmt.Sprintf("%v: %v", f.Field, f.Msg)
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

func (v *ValidationError) add(field, format string, args ...interface{}) {
	v.Fields = append(v.Fields, FieldError{field, fmt.Sprintf(format,
		args...)})
}

// Validate returns a *ValidationError if any field is out of range
func (c Config) Validate() error {
	v := &ValidationError{}

	if err := c.GameConfig().Validate(); err != nil {
		v.add("Game", "%v", err)
	}
	if c.Experiment.Episodes < 1 {
		v.add("Experiment.Episodes", "must be positive, have %v",
			c.Experiment.Episodes)
	}
	if c.Experiment.Mode != agent.Training &&
		c.Experiment.Mode != agent.Testing {
		v.add("Experiment.Mode", "unknown mode %d", c.Experiment.Mode)
	}
	if c.Experiment.MaxSteps < 0 {
		v.add("Experiment.MaxSteps", "must be non-negative, have %v",
			c.Experiment.MaxSteps)
	}
	if n := c.Experiment.MaxLength; n < 0 || n == 1 ||
		n > c.Game.Width*c.Game.Height {
		v.add("Experiment.MaxLength", "must be 0 or in [2, %v], have %v",
			c.Game.Width*c.Game.Height, n)
	}
	if c.Experiment.Discount < 0 || c.Experiment.Discount > 1 {
		v.add("Experiment.Discount", "must be in [0, 1], have %v",
			c.Experiment.Discount)
	}
	if c.Experiment.CheckpointEvery < 0 {
		v.add("Experiment.CheckpointEvery", "must be non-negative, have %v",
			c.Experiment.CheckpointEvery)
	}
	switch c.Experiment.CheckpointNaming {
	case NameByEpisode, NameByTime:
	default:
		v.add("Experiment.CheckpointNaming", "unknown naming %q, want one "+
			"of %v", c.Experiment.CheckpointNaming,
			[]string{NameByEpisode, NameByTime})
	}

	if typed, err := c.AgentConfig(); err != nil {
		v.add("Agent.Type", "%v", err)
	} else if err := typed.Config.Validate(); err != nil {
		v.add("Agent.Config", "%v", err)
	}
	if e := c.Agent.Epsilon; e != nil {
		if err := e.Validate(); err != nil {
			v.add("Agent.Epsilon", "%v", err)
		} else if c.Experiment.Mode == agent.Training {
			if err := e.ValidateTraining(); err != nil {
				v.add("Agent.Epsilon", "%v", err)
			}
		}
	}

	switch c.Render.Mode {
	case RenderNone, RenderText:
	case RenderPNG:
		if c.Render.CellSize < 1 {
			v.add("Render.CellSize", "must be positive, have %v",
				c.Render.CellSize)
		}
	default:
		v.add("Render.Mode", "unknown mode %q, want one of %v", c.Render.Mode,
			[]string{RenderNone, RenderText, RenderPNG})
	}

	if c.Render.Delay < 0 {
		v.add("Render.Delay", "must be non-negative, have %v", c.Render.Delay)
	}

	if c.Output.Dir == "" {
		v.add("Output.Dir", "must not be empty")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		v.add("Log.Level", "%v", err)
	}

	if len(v.Fields) > 0 {
		return v
	}
	return nil
}

// Logger returns a logger configured by the Log section
func (c Config) Logger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	log := logrus.New()
	log.SetLevel(level)
	if c.Log.JSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log, nil
}
