package experiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/samuelfneumann/snakelearn/agent"
	"github.com/samuelfneumann/snakelearn/agent/policy"
	env "github.com/samuelfneumann/snakelearn/environment"
	"github.com/samuelfneumann/snakelearn/experiment/checkpointer"
	"github.com/samuelfneumann/snakelearn/experiment/tracker"
	ts "github.com/samuelfneumann/snakelearn/timestep"
)

// Config configures an Online experiment
type Config struct {
	// Episodes is the number of episodes Run runs
	Episodes int

	Mode agent.Mode

	// Epsilon is the exploration schedule of agent.Explorer agents.
	// It is decayed once per finished episode in training mode and
	// ignored in testing mode, where agents never explore. If nil, the
	// agent keeps its own exploration rate.
	Epsilon *policy.DecayingFloat

	// SavePath is where the agent is persisted at the end of Run. The
	// agent is not persisted if SavePath is empty, the agent is not an
	// agent.Persister, or the experiment runs in testing mode.
	SavePath string

	// Run identifies the experiment in logs and episode logs. A new
	// identifier is generated if Run is the zero UUID.
	Run uuid.UUID
}

// Online is an Experiment that runs an agent online only. No offline
// evaluation is performed.
type Online struct {
	env.Environment
	agent.Agent

	episodes      int
	episode       int
	mode          agent.Mode
	epsilon       *policy.DecayingFloat
	savePath      string
	run           uuid.UUID
	log           logrus.FieldLogger
	trackers      []tracker.Tracker
	checkpointers []checkpointer.Checkpointer

	scores  []float64
	returns []float64
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given agent. The t parameter is a slice of
// tracker.Tracker which determine what data is saved, and c determines
// when the agent is checkpointed.
func NewOnline(e env.Environment, a agent.Agent, c Config,
	log logrus.FieldLogger, t []tracker.Tracker,
	check []checkpointer.Checkpointer) (*Online, error) {
	if c.Episodes < 1 {
		return nil, fmt.Errorf("newonline: must run at least one episode"+
			"\n\twant(>0)\n\thave(%v)", c.Episodes)
	}
	if a.Mode() != c.Mode {
		return nil, fmt.Errorf("newonline: agent mode does not match "+
			"experiment mode\n\twant(%v)\n\thave(%v)", c.Mode, a.Mode())
	}

	run := c.Run
	if run == uuid.Nil {
		run = uuid.New()
	}

	o := &Online{
		Environment:   e,
		Agent:         a,
		episodes:      c.Episodes,
		mode:          c.Mode,
		savePath:      c.SavePath,
		run:           run,
		log:           log.WithField("run", run.String()),
		trackers:      t,
		checkpointers: check,
	}

	if explorer, ok := a.(agent.Explorer); ok {
		switch {
		case c.Mode == agent.Testing:
			explorer.SetEpsilon(0)

		case c.Epsilon != nil:
			if err := c.Epsilon.ValidateTraining(); err != nil {
				return nil, fmt.Errorf("newonline: %w", err)
			}
			schedule := *c.Epsilon
			schedule.Reset()
			o.epsilon = &schedule
			explorer.SetEpsilon(o.epsilon.Float64())
		}
	}

	return o, nil
}

// Register registers a tracker.Tracker with an Experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online) Register(t tracker.Tracker) {
	o.trackers = append(o.trackers, t)
}

// Run runs episodes until the episode budget is spent or ctx is
// cancelled. Cancellation is checked between episodes. The agent is
// persisted before returning, also on cancellation.
func (o *Online) Run(ctx context.Context) error {
	var runErr error
	for o.episode < o.episodes {
		if _, err := o.RunEpisode(ctx); err != nil {
			runErr = err
			break
		}
	}

	if errors.Is(runErr, context.Canceled) ||
		errors.Is(runErr, context.DeadlineExceeded) {
		o.log.WithField("episodes", o.episode).Warn("experiment interrupted")
	}

	if o.episode > 0 {
		meanScore, maxScore := stats(o.scores)
		meanReturn, _ := stats(o.returns)
		o.log.WithFields(logrus.Fields{
			"episodes":    o.episode,
			"mean_score":  meanScore,
			"max_score":   maxScore,
			"mean_return": meanReturn,
		}).Info("experiment finished")
	}

	if err := o.SaveAgent(); err != nil {
		return errors.Join(runErr, fmt.Errorf("run: %w", err))
	}
	return runErr
}

func stats(x []float64) (mean, max float64) {
	if len(x) == 0 {
		return 0, 0
	}
	return stat.Mean(x, nil), floats.Max(x)
}

// RunEpisode runs a single episode of the experiment and returns its
// Summary. It returns ctx.Err() without running if ctx is done.
func (o *Online) RunEpisode(ctx context.Context) (Summary, error) {
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}

	epsilon := 0.0
	if explorer, ok := o.Agent.(agent.Explorer); ok {
		epsilon = explorer.Epsilon()
	}

	step, err := o.Environment.Reset()
	if err != nil {
		return Summary{}, fmt.Errorf("runepisode: could not reset: %w", err)
	}
	if err := o.Agent.ObserveFirst(step); err != nil {
		return Summary{}, fmt.Errorf("runepisode: %w", err)
	}
	o.track(step)

	ret := 0.0
	for !step.Last() {
		// Select action, step in environment
		action := o.Agent.SelectAction(step)
		step, _, err = o.Environment.Step(action)
		if err != nil {
			return Summary{}, fmt.Errorf("runepisode: could not step: %w",
				err)
		}
		ret += step.Reward

		// Cache the environment step in each Tracker
		o.track(step)

		// Observe the timestep and step the agent
		if err := o.Agent.Observe(action, step); err != nil {
			return Summary{}, fmt.Errorf("runepisode: %w", err)
		}
		if err := o.Agent.Step(); err != nil {
			return Summary{}, fmt.Errorf("runepisode: %w", err)
		}
	}

	if err := o.Agent.EndEpisode(); err != nil {
		return Summary{}, fmt.Errorf("runepisode: %w", err)
	}
	o.episode++

	summary := Summary{
		Run:     o.run,
		Episode: o.episode,
		Score:   step.Raw.Score,
		Steps:   step.Number,
		Return:  ret,
		Epsilon: epsilon,
		Outcome: step.Outcome,
		End:     step.EndType(),
	}
	o.scores = append(o.scores, float64(summary.Score))
	o.returns = append(o.returns, summary.Return)

	o.log.WithFields(logrus.Fields{
		"episode": summary.Episode,
		"score":   summary.Score,
		"steps":   summary.Steps,
		"return":  summary.Return,
		"epsilon": summary.Epsilon,
		"outcome": summary.Outcome.String(),
	}).Info("episode finished")

	for _, t := range o.trackers {
		if et, ok := t.(tracker.EpisodeTracker); ok {
			et.TrackEpisode(summary)
		}
	}

	if err := o.checkpoint(step); err != nil {
		return summary, fmt.Errorf("runepisode: %w", err)
	}

	o.decayEpsilon()
	return summary, nil
}

// decayEpsilon decays the exploration schedule after a finished
// training episode
func (o *Online) decayEpsilon() {
	if o.epsilon == nil || o.mode == agent.Testing {
		return
	}
	o.epsilon.Decay()
	o.Agent.(agent.Explorer).SetEpsilon(o.epsilon.Float64())
}

// Episodes returns the number of episodes run so far
func (o *Online) Episodes() int {
	return o.episode
}

// RunID returns the identifier of the experiment
func (o *Online) RunID() uuid.UUID {
	return o.run
}

// Save saves all the data cached by the Trackers to disk
func (o *Online) Save() error {
	var errs []error
	for _, t := range o.trackers {
		if err := t.Save(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// SaveAgent persists the agent to the configured save path
func (o *Online) SaveAgent() error {
	p, ok := o.Agent.(agent.Persister)
	if !ok || o.savePath == "" || o.mode == agent.Testing {
		return nil
	}
	if err := p.Save(o.savePath); err != nil {
		return fmt.Errorf("saveagent: %w", err)
	}
	o.log.WithField("path", o.savePath).Info("saved agent")
	return nil
}

// track tracks the current timestep by caching its data in each Tracker
func (o *Online) track(t ts.TimeStep) {
	for _, tr := range o.trackers {
		tr.Track(t)
	}
}

// checkpoint passes the timestep to each Checkpointer
func (o *Online) checkpoint(t ts.TimeStep) error {
	for _, c := range o.checkpointers {
		if err := c.Checkpoint(t); err != nil {
			return err
		}
	}
	return nil
}
