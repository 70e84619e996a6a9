package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/samuelfneumann/snakelearn/agent"
)

// Prefix is the prefix of the environment variables read by FromEnv
const Prefix = "SNAKELEARN_"

// LoadDotEnv loads the variables of a .env file into the process
// environment. Variables that are already set are not overridden. A
// missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loaddotenv: %w", err)
	}
	return nil
}

// FromEnv overlays the SNAKELEARN_ environment variables onto c:
//
//	SNAKELEARN_AGENT       agent type
//	SNAKELEARN_MODE        training or testing
//	SNAKELEARN_EPISODES    number of episodes
//	SNAKELEARN_SEED        seed of the game and agent
//	SNAKELEARN_LOG_LEVEL   logrus level
//	SNAKELEARN_OUTPUT_DIR  artifact directory
func FromEnv(c Config) (Config, error) {
	return fromLookup(c, os.LookupEnv)
}

func fromLookup(c Config, lookup func(string) (string, bool)) (Config,
	error) {
	get := func(key string) (string, bool) {
		val, ok := lookup(Prefix + key)
		return val, ok && val != ""
	}

	if val, ok := get("AGENT"); ok {
		c.Agent.Type = agent.Type(val)
	}
	if val, ok := get("MODE"); ok {
		mode, err := agent.ParseMode(val)
		if err != nil {
			return Config{}, fmt.Errorf("fromenv: %vMODE: %w", Prefix, err)
		}
		c.Experiment.Mode = mode
	}
	if val, ok := get("EPISODES"); ok {
		n, err := strconv.Atoi(val)
		if err != nil {
			return Config{}, fmt.Errorf("fromenv: %vEPISODES: %w", Prefix,
				err)
		}
		c.Experiment.Episodes = n
	}
	if val, ok := get("SEED"); ok {
		seed, err := strconv.ParseUint(val, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("fromenv: %vSEED: %w", Prefix, err)
		}
		c.Experiment.Seed = seed
	}
	if val, ok := get("LOG_LEVEL"); ok {
		c.Log.Level = val
	}
	if val, ok := get("OUTPUT_DIR"); ok {
		c.Output.Dir = val
	}
	return c, nil
}
