package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/samuelfneumann/snakelearn/agent"
	"github.com/samuelfneumann/snakelearn/agent/human"
	_ "github.com/samuelfneumann/snakelearn/agent/nonlinear/discrete/deepq"
	_ "github.com/samuelfneumann/snakelearn/agent/rulebased"
	_ "github.com/samuelfneumann/snakelearn/agent/tabular/qlearning"
	_ "github.com/samuelfneumann/snakelearn/agent/tabular/sarsa"
	"github.com/samuelfneumann/snakelearn/config"
	"github.com/samuelfneumann/snakelearn/environment/snake"
	"github.com/samuelfneumann/snakelearn/experiment"
	"github.com/samuelfneumann/snakelearn/experiment/checkpointer"
	"github.com/samuelfneumann/snakelearn/experiment/tracker"
	"github.com/samuelfneumann/snakelearn/experiment/trackers"
	"github.com/samuelfneumann/snakelearn/game"
	"github.com/samuelfneumann/snakelearn/render"
	"github.com/samuelfneumann/snakelearn/timestep"
	"github.com/samuelfneumann/snakelearn/utils/progressbar"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := flag.NewFlagSet("snakelearn", flag.ContinueOnError)
	configPath := flags.String("config", "", "JSON configuration file")
	envPath := flags.String("env", ".env", ".env file to load")
	agentType := flags.String("agent", "", fmt.Sprintf("agent type %v",
		agent.Registered()))
	mode := flags.String("mode", "", "training or testing")
	episodes := flags.Int("episodes", 0, "number of episodes to run")
	seed := flags.Uint64("seed", 0, "seed of the game and agent")
	renderMode := flags.String("render", "", "none, text or png")
	delay := flags.Int("delay", 0, "milliseconds to pause after each "+
		"rendered step")
	progress := flags.Bool("progress", false, "display a progress bar")
	level := flags.String("log-level", "", "logrus level")
	out := flags.String("out", "", "output directory")
	if err := flags.Parse(args); err != nil {
		return err
	}

	// File, then environment, then flags
	if err := config.LoadDotEnv(*envPath); err != nil {
		return err
	}
	c, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if c, err = config.FromEnv(c); err != nil {
		return err
	}

	set := make(map[string]bool)
	flags.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["agent"] {
		c.Agent.Type = agent.Type(*agentType)
	}
	if set["mode"] {
		if c.Experiment.Mode, err = agent.ParseMode(*mode); err != nil {
			return err
		}
	}
	if set["episodes"] {
		c.Experiment.Episodes = *episodes
	}
	if set["seed"] {
		c.Experiment.Seed = *seed
	}
	if set["render"] {
		c.Render.Mode = *renderMode
	}
	if set["delay"] {
		c.Render.Delay = *delay
	}
	if set["progress"] {
		c.Experiment.Progress = *progress
	}
	if set["log-level"] {
		c.Log.Level = *level
	}
	if set["out"] {
		c.Output.Dir = *out
	}
	if err := c.Validate(); err != nil {
		return err
	}

	log, err := c.Logger()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt,
		syscall.SIGTERM)
	defer stop()

	err = runExperiment(ctx, c, log)
	if errors.Is(err, context.Canceled) {
		log.Warn("stopped by signal")
		return nil
	}
	return err
}

func runExperiment(ctx context.Context, c config.Config,
	log *logrus.Logger) error {
	renderer, err := newRenderer(c)
	if err != nil {
		return err
	}

	g, err := game.New(c.GameConfig(), c.Rewards)
	if err != nil {
		return err
	}
	env, _, err := snake.New(g, c.Ender(), c.Experiment.Discount, renderer)
	if err != nil {
		return err
	}

	opts := agent.Options{
		Mode:   c.Experiment.Mode,
		Seed:   c.Experiment.Seed,
		Logger: log,
	}
	if c.Agent.Type == agent.Human {
		opts.Input = human.NewKeys(os.Stdin)
	}

	typed, err := c.AgentConfig()
	if err != nil {
		return err
	}
	a, err := typed.Create(env, opts)
	if err != nil {
		return err
	}
	if closer, ok := a.(agent.Closer); ok {
		defer closer.Close()
	}

	epsilon, err := c.Epsilon()
	if err != nil {
		return err
	}

	dir := c.Output.Dir
	tracked := []tracker.Tracker{
		trackers.NewReturn(filepath.Join(dir, "return.bin")),
		trackers.NewEpisodeLength(filepath.Join(dir, "length.bin")),
		trackers.NewScore(filepath.Join(dir, "score.bin")),
		trackers.NewEpisodeLog(filepath.Join(dir, "episodes.parquet")),
		trackers.NewChart(fmt.Sprintf("snake: %v", c.Agent.Type),
			filepath.Join(dir, "curve.html")),
	}
	if c.Experiment.Progress {
		tracked = append(tracked, newProgress(os.Stderr, c.Experiment.Episodes))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create output directory: %w", err)
	}

	var checks []checkpointer.Checkpointer
	if p, ok := a.(agent.Persister); ok && c.Experiment.CheckpointEvery > 0 &&
		c.Experiment.Mode == agent.Training {
		check, err := checkpointer.NewNEpisode(c.Experiment.CheckpointEvery, p,
			c.CheckpointNames(), log)
		if err != nil {
			return err
		}
		checks = append(checks, check)
	}

	e, err := experiment.NewOnline(env, a, experiment.Config{
		Episodes: c.Experiment.Episodes,
		Mode:     c.Experiment.Mode,
		Epsilon:  epsilon,
		SavePath: c.AgentPath(),
	}, log, tracked, checks)
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"agent":    c.Agent.Type,
		"mode":     c.Experiment.Mode,
		"episodes": c.Experiment.Episodes,
		"run":      e.RunID().String(),
	}).Info("starting experiment")

	runErr := e.Run(ctx)
	if err := e.Save(); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}

func newRenderer(c config.Config) (render.Renderer, error) {
	var r render.Renderer
	switch c.Render.Mode {
	case config.RenderText:
		r = render.NewText(os.Stdout, c.Render.Colour, true)
	case config.RenderPNG:
		png, err := render.NewPNG(filepath.Join(c.Output.Dir, "frames"),
			c.Render.CellSize)
		if err != nil {
			return nil, err
		}
		r = png
	default:
		return nil, nil
	}

	if delay := c.RenderDelay(); delay > 0 {
		return render.NewPaced(r, delay), nil
	}
	return r, nil
}

// progress displays a progress bar of finished episodes
type progress struct {
	bar *progressbar.ManualProgressBar
}

func newProgress(w io.Writer, episodes int) *progress {
	return &progress{progressbar.NewManualProgressBar(w, 40, episodes)}
}

func (p *progress) Track(timestep.TimeStep) {}

func (p *progress) TrackEpisode(s tracker.Summary) {
	p.bar.Increment()
	p.bar.SetLabel(fmt.Sprintf("episode %d score %d", s.Episode, s.Score))
	p.bar.Display()
}

func (p *progress) Save() error {
	p.bar.Close()
	return nil
}
