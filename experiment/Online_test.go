package experiment

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/snakelearn/agent"
	"github.com/samuelfneumann/snakelearn/agent/nonlinear/discrete/deepq"
	"github.com/samuelfneumann/snakelearn/agent/policy"
	"github.com/samuelfneumann/snakelearn/agent/rulebased"
	"github.com/samuelfneumann/snakelearn/agent/tabular/qlearning"
	"github.com/samuelfneumann/snakelearn/environment"
	"github.com/samuelfneumann/snakelearn/environment/snake"
	"github.com/samuelfneumann/snakelearn/experiment/checkpointer"
	"github.com/samuelfneumann/snakelearn/experiment/tracker"
	"github.com/samuelfneumann/snakelearn/experiment/trackers"
	"github.com/samuelfneumann/snakelearn/expreplay"
	"github.com/samuelfneumann/snakelearn/game"
	"github.com/samuelfneumann/snakelearn/network"
	"github.com/samuelfneumann/snakelearn/solver"
	ts "github.com/samuelfneumann/snakelearn/timestep"
)

func newEnv(t *testing.T) environment.Environment {
	t.Helper()

	g, err := game.New(game.Config{Width: 8, Height: 8, FoodMinDistance: 2,
		Seed: 3}, game.DefaultRewards())
	require.NoError(t, err)
	env, _, err := snake.New(g, environment.NewStepLimit(100), 0.9, nil)
	require.NoError(t, err)
	return env
}

func newQLearning(t *testing.T, mode agent.Mode) *qlearning.QLearning {
	t.Helper()

	q, err := qlearning.New(qlearning.DefaultConfig(), agent.Options{
		Mode: mode,
		Seed: 7,
	})
	require.NoError(t, err)
	return q
}

func TestRunEpisodes(t *testing.T) {
	log, hook := test.NewNullLogger()
	ret := trackers.NewReturn(filepath.Join(t.TempDir(), "return.bin"))
	length := trackers.NewEpisodeLength(filepath.Join(t.TempDir(), "len.bin"))

	a := rulebased.New(agent.Options{})
	o, err := NewOnline(newEnv(t), a, Config{Episodes: 3}, log,
		[]tracker.Tracker{ret, length}, nil)
	require.NoError(t, err)

	require.NoError(t, o.Run(context.Background()))
	assert.Equal(t, 3, o.Episodes())
	assert.Len(t, ret.Returns(), 3)

	var episodes []*logrus.Entry
	for _, entry := range hook.AllEntries() {
		if entry.Message == "episode finished" {
			episodes = append(episodes, entry)
		}
	}
	require.Len(t, episodes, 3)
	for i, entry := range episodes {
		assert.Equal(t, i+1, entry.Data["episode"])
		assert.Equal(t, o.RunID().String(), entry.Data["run"])
		assert.Contains(t, entry.Data, "score")
		assert.Contains(t, entry.Data, "outcome")
	}

	// Running past the budget keeps working on request
	summary, err := o.RunEpisode(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Episode)
}

func TestSummary(t *testing.T) {
	log, _ := test.NewNullLogger()
	run := uuid.New()

	o, err := NewOnline(newEnv(t), rulebased.New(agent.Options{}),
		Config{Episodes: 1, Run: run}, log, nil, nil)
	require.NoError(t, err)

	summary, err := o.RunEpisode(context.Background())
	require.NoError(t, err)
	assert.Equal(t, run, summary.Run)
	assert.Equal(t, 1, summary.Episode)
	assert.Positive(t, summary.Steps)
	assert.LessOrEqual(t, summary.Steps, 100)
	assert.NotEqual(t, game.Running, summary.Outcome)

	// Default rewards: +10 per food and -10 for a crash
	want := 10 * float64(summary.Score)
	if summary.Outcome == game.CrashedWall ||
		summary.Outcome == game.CrashedBody {
		want -= 10
	}
	assert.InDelta(t, want, summary.Return, 1e-9)
}

func TestEpsilonSchedule(t *testing.T) {
	log, _ := test.NewNullLogger()
	schedule := policy.NewDecayingFloat(1.0, 0.5, 0.1, policy.Exponential)

	q := newQLearning(t, agent.Training)
	o, err := NewOnline(newEnv(t), q, Config{
		Episodes: 4,
		Epsilon:  &schedule,
	}, log, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, q.Epsilon())

	want := []float64{1.0, 0.5, 0.25, 0.125}
	for _, e := range want {
		summary, err := o.RunEpisode(context.Background())
		require.NoError(t, err)
		assert.InDelta(t, e, summary.Epsilon, 1e-12)
	}
	assert.InDelta(t, 0.1, q.Epsilon(), 1e-12)

	// The caller's schedule is not advanced
	assert.Equal(t, 1.0, schedule.Float64())
}

func TestTestingNeverExplores(t *testing.T) {
	log, _ := test.NewNullLogger()
	schedule := policy.NewConstant(0.5)

	path := filepath.Join(t.TempDir(), "q.json")

	q := newQLearning(t, agent.Testing)
	o, err := NewOnline(newEnv(t), q, Config{
		Episodes: 2,
		Mode:     agent.Testing,
		Epsilon:  &schedule,
		SavePath: path,
	}, log, nil, nil)
	require.NoError(t, err)

	summary, err := o.RunEpisode(context.Background())
	require.NoError(t, err)
	assert.Zero(t, summary.Epsilon)
	assert.Zero(t, q.Table().Len())

	// Testing runs never overwrite the persisted agent
	require.NoError(t, o.SaveAgent())
	_, err = os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestInvalidConfig(t *testing.T) {
	log, _ := test.NewNullLogger()
	zero := policy.NewConstant(0)

	_, err := NewOnline(newEnv(t), newQLearning(t, agent.Training),
		Config{Episodes: 1, Epsilon: &zero}, log, nil, nil)
	assert.Error(t, err, "training must explore")

	_, err = NewOnline(newEnv(t), newQLearning(t, agent.Training),
		Config{Episodes: 0}, log, nil, nil)
	assert.Error(t, err)

	_, err = NewOnline(newEnv(t), newQLearning(t, agent.Testing),
		Config{Episodes: 1, Mode: agent.Training}, log, nil, nil)
	assert.Error(t, err)
}

func TestRunSavesAgent(t *testing.T) {
	log, _ := test.NewNullLogger()
	dir := t.TempDir()
	path := filepath.Join(dir, "q.json")

	q := newQLearning(t, agent.Training)
	check, err := checkpointer.NewNEpisode(2, q,
		checkpointer.FilenameEnumerator(0, filepath.Join(dir, "q-"), ".json"),
		log)
	require.NoError(t, err)

	o, err := NewOnline(newEnv(t), q, Config{Episodes: 4, SavePath: path},
		log, nil, []checkpointer.Checkpointer{check})
	require.NoError(t, err)
	require.NoError(t, o.Run(context.Background()))

	for _, name := range []string{"q.json", "q-1.json", "q-2.json"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
	assert.NoFileExists(t, filepath.Join(dir, "q-3.json"))

	// The saved table warm starts a new agent
	c := qlearning.DefaultConfig()
	c.LoadPath = path
	loaded, err := qlearning.New(c, agent.Options{Mode: agent.Testing})
	require.NoError(t, err)
	assert.Equal(t, q.Table().Len(), loaded.Table().Len())
}

func TestRunCancelled(t *testing.T) {
	log, hook := test.NewNullLogger()
	path := filepath.Join(t.TempDir(), "q.json")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o, err := NewOnline(newEnv(t), newQLearning(t, agent.Training),
		Config{Episodes: 10, SavePath: path}, log, nil, nil)
	require.NoError(t, err)

	err = o.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, o.Episodes())
	assert.FileExists(t, path, "artifacts are saved on cancellation")
	assert.Equal(t, "experiment interrupted", hook.Entries[0].Message)
}

func TestSaveTrackers(t *testing.T) {
	log, _ := test.NewNullLogger()
	dir := t.TempDir()

	ret := trackers.NewReturn(filepath.Join(dir, "return.bin"))
	score := trackers.NewScore(filepath.Join(dir, "score.bin"))
	o, err := NewOnline(newEnv(t), rulebased.New(agent.Options{}),
		Config{Episodes: 2}, log, []tracker.Tracker{ret}, nil)
	require.NoError(t, err)
	o.Register(score)

	require.NoError(t, o.Run(context.Background()))
	require.NoError(t, o.Save())

	returns, err := tracker.LoadData[float64](filepath.Join(dir, "return.bin"))
	require.NoError(t, err)
	assert.Equal(t, ret.Returns(), returns)

	scores, err := tracker.LoadData[int](filepath.Join(dir, "score.bin"))
	require.NoError(t, err)
	assert.Len(t, scores, 2)
}

// positions records the head and food of every tracked step
type positions struct {
	cells []game.Point
}

func (p *positions) Track(t ts.TimeStep) {
	p.cells = append(p.cells, t.Raw.Head(), t.Raw.Food)
}

func (p *positions) Save() error { return nil }

func smallDeepQ(t *testing.T) deepq.Config {
	t.Helper()
	adam, err := solver.NewDefaultAdam(0.01, 1)
	require.NoError(t, err)

	c := deepq.DefaultConfig()
	c.PolicyLayers = []int{8}
	c.Biases = []bool{true}
	c.Activations = []*network.Activation{network.ReLU()}
	c.Solver = *adam
	c.Epsilon = policy.NewConstant(0.3)
	c.ExpReplay = expreplay.Config{
		SampleSize:        4,
		MaxReplayCapacity: 50,
		MinReplayCapacity: 4,
	}
	c.LearnInterval = 1
	return c
}

func TestTestingIsDeterministic(t *testing.T) {
	agents := []struct {
		name   string
		file   string
		create func(t *testing.T, path string, opts agent.Options) agent.Agent
	}{
		{
			name: "q-learning",
			file: "q.json",
			create: func(t *testing.T, path string,
				opts agent.Options) agent.Agent {
				c := qlearning.DefaultConfig()
				c.LoadPath = path
				q, err := qlearning.New(c, opts)
				require.NoError(t, err)
				return q
			},
		},
		{
			name: "dqn",
			file: "dqn.gob",
			create: func(t *testing.T, path string,
				opts agent.Options) agent.Agent {
				c := smallDeepQ(t)
				c.LoadPath = path
				d, err := deepq.New(c, opts)
				require.NoError(t, err)
				t.Cleanup(func() { d.Close() })
				return d
			},
		},
	}

	for _, tc := range agents {
		t.Run(tc.name, func(t *testing.T) {
			log, _ := test.NewNullLogger()
			path := filepath.Join(t.TempDir(), tc.file)

			trained := tc.create(t, "", agent.Options{
				Mode: agent.Training,
				Seed: 7,
			})
			o, err := NewOnline(newEnv(t), trained, Config{
				Episodes: 3,
				SavePath: path,
			}, log, nil, nil)
			require.NoError(t, err)
			require.NoError(t, o.Run(context.Background()))
			require.FileExists(t, path)

			// Agent seeds differ, the persisted policy and the game
			// seed do not
			var runs [2]*positions
			for i, seed := range []uint64{11, 12} {
				a := tc.create(t, path, agent.Options{
					Mode: agent.Testing,
					Seed: seed,
				})
				runs[i] = &positions{}
				o, err := NewOnline(newEnv(t), a, Config{
					Episodes: 3,
					Mode:     agent.Testing,
				}, log, []tracker.Tracker{runs[i]}, nil)
				require.NoError(t, err)
				require.NoError(t, o.Run(context.Background()))
			}

			assert.NotEmpty(t, runs[0].cells)
			assert.Equal(t, runs[0].cells, runs[1].cells)
		})
	}
}
