package deepq

import (
	"encoding/json"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/snakelearn/agent"
	"github.com/samuelfneumann/snakelearn/agent/policy"
	"github.com/samuelfneumann/snakelearn/environment"
	"github.com/samuelfneumann/snakelearn/environment/snake"
	"github.com/samuelfneumann/snakelearn/expreplay"
	"github.com/samuelfneumann/snakelearn/game"
	"github.com/samuelfneumann/snakelearn/network"
	"github.com/samuelfneumann/snakelearn/solver"
	ts "github.com/samuelfneumann/snakelearn/timestep"
	"github.com/samuelfneumann/snakelearn/vision"
)

var (
	start = vision.State{Food: vision.Ahead}
	end   = vision.State{
		Food:    vision.Behind,
		Sensors: [vision.NumSensors]vision.Sensor{vision.Clear, vision.Obstacle, vision.Clear},
	}
)

func smallConfig(t testing.TB) Config {
	adam, err := solver.NewDefaultAdam(0.01, 1)
	require.NoError(t, err)

	c := DefaultConfig()
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

func newAgent(t testing.TB, c Config, mode agent.Mode) *DeepQ {
	d, err := New(c, agent.Options{Mode: mode, Seed: 5})
	require.NoError(t, err)
	return d
}

// observeTerminal feeds the agent one episode made of a single
// transition from start to a terminal state with reward 10
func observeTerminal(t testing.TB, d *DeepQ) {
	first := ts.New(ts.First, 0, 0.9, start, game.State{}, 0)
	last := ts.New(ts.Mid, 10, 0, end, game.State{}, 1)
	last.SetEnd(ts.Terminal)

	require.NoError(t, d.ObserveFirst(first))
	d.SelectAction(first)
	require.NoError(t, d.Observe(game.Straight, last))
	require.NoError(t, d.Step())
	require.NoError(t, d.EndEpisode())
}

var terminal = ts.Transition{
	State:     start,
	Action:    game.Straight,
	Reward:    10,
	NextState: end,
	Terminal:  true,
}

func TestConfigJSON(t *testing.T) {
	raw := `{"Type": "dqn", "Config": {"PolicyLayers": [16], "Biases": [false],
		"Activations": ["tanh"], "ExpReplay": {"SampleSize": 8,
		"MaxReplayCapacity": 64, "MinReplayCapacity": 8},
		"Solver": {"Type": "Vanilla", "Config": {"StepSize": 0.1, "Batch": 1}}}}`

	var tc agent.TypedConfig
	require.NoError(t, json.Unmarshal([]byte(raw), &tc))

	c, ok := tc.Config.(Config)
	require.True(t, ok, "have %T", tc.Config)
	assert.Equal(t, []int{16}, c.PolicyLayers)
	assert.Equal(t, []bool{false}, c.Biases)
	assert.Equal(t, "tanh", c.Activations[0].String())
	assert.Equal(t, solver.Vanilla, c.Solver.Type)
	assert.Equal(t, 8, c.BatchSize())
	assert.Equal(t, 0.9, c.Gamma, "missing fields keep their defaults")
	assert.True(t, c.TrainAtEpisodeEnd)
	require.NoError(t, c.Validate())

	// Decoding never writes through to the registered defaults
	defaults, err := agent.Default(agent.DeepQ)
	require.NoError(t, err)
	assert.Equal(t, []int{30, 80, 30}, defaults.(Config).PolicyLayers)
	assert.Equal(t, []bool{true, true, true}, defaults.(Config).Biases)
	assert.Equal(t, "relu", defaults.(Config).Activations[0].String())
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.Validate())
	assert.Equal(t, 1000, c.BatchSize())
	assert.Equal(t, 2500, c.ExpReplay.MaxReplayCapacity)
	assert.Equal(t, policy.NewDecayingFloat(1.0, 0.9, 0.1, policy.Exponential),
		c.EpsilonSchedule())

	var s agent.Config = c
	_, ok := s.(agent.Scheduled)
	assert.True(t, ok)
}

func TestValidate(t *testing.T) {
	tests := map[string]func(*Config){
		"biases":      func(c *Config) { c.Biases = nil },
		"activations": func(c *Config) { c.Activations = nil },
		"layer size":  func(c *Config) { c.PolicyLayers[0] = 0 },
		"gamma":       func(c *Config) { c.Gamma = 1.5 },
		"tau":         func(c *Config) { c.Tau = 0 },
		"interval":    func(c *Config) { c.TargetUpdateInterval = 0 },
		"learn":       func(c *Config) { c.LearnInterval = -1 },
		"never learns": func(c *Config) {
			c.LearnInterval = 0
			c.TrainAtEpisodeEnd = false
		},
		"replay": func(c *Config) { c.ExpReplay.MaxReplayCapacity = 2 },
		"epsilon": func(c *Config) {
			c.Epsilon = policy.NewConstant(2)
		},
	}

	for name, modify := range tests {
		t.Run(name, func(t *testing.T) {
			c := smallConfig(t)
			modify(&c)
			assert.Error(t, c.Validate())

			_, err := New(c, agent.Options{})
			assert.Error(t, err)
		})
	}
}

func TestNoLearningUntilBatch(t *testing.T) {
	d := newAgent(t, smallConfig(t), agent.Training)
	defer d.Close()

	for i := 0; i < 3; i++ {
		observeTerminal(t, d)
	}
	assert.Zero(t, d.GradientSteps())

	observeTerminal(t, d)
	assert.Equal(t, 2, d.GradientSteps())
}

func TestLearningReducesTdError(t *testing.T) {
	d := newAgent(t, smallConfig(t), agent.Training)
	defer d.Close()

	before := math.Abs(d.TdError(terminal))
	for i := 0; i < 150; i++ {
		observeTerminal(t, d)
	}
	after := math.Abs(d.TdError(terminal))

	assert.Less(t, after, before/2)
}

func TestTestingNeverLearns(t *testing.T) {
	d := newAgent(t, smallConfig(t), agent.Testing)
	defer d.Close()

	assert.Zero(t, d.Epsilon())
	d.SetEpsilon(0.5)
	assert.Zero(t, d.Epsilon())

	before := d.trainNet.Weights()
	for i := 0; i < 10; i++ {
		observeTerminal(t, d)
	}
	assert.Zero(t, d.GradientSteps())
	assert.Equal(t, before, d.trainNet.Weights())
	assert.Zero(t, d.replay.Capacity())
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dqn.gob")
	c := smallConfig(t)

	trained := newAgent(t, c, agent.Training)
	defer trained.Close()
	for i := 0; i < 20; i++ {
		observeTerminal(t, trained)
	}
	require.NoError(t, trained.Save(path))

	c.LoadPath = path
	loaded := newAgent(t, c, agent.Testing)
	defer loaded.Close()

	for _, s := range []vision.State{start, end} {
		want, err := trained.ActionValues(s)
		require.NoError(t, err)
		have, err := loaded.ActionValues(s)
		require.NoError(t, err)
		assert.Equal(t, want, have)
	}
}

func TestColdStart(t *testing.T) {
	c := smallConfig(t)
	c.LoadPath = filepath.Join(t.TempDir(), "missing.gob")

	d := newAgent(t, c, agent.Training)
	defer d.Close()
	assert.Equal(t, 0.3, d.Epsilon())
}

func TestSeededInitialization(t *testing.T) {
	a := newAgent(t, smallConfig(t), agent.Training)
	defer a.Close()
	b := newAgent(t, smallConfig(t), agent.Training)
	defer b.Close()

	assert.Equal(t, a.trainNet.Weights(), b.trainNet.Weights())
}

func TestPlaysEpisode(t *testing.T) {
	g, err := game.New(game.Config{Width: 8, Height: 8, FoodMinDistance: 2,
		Seed: 3}, game.DefaultRewards())
	require.NoError(t, err)
	env, _, err := snake.New(g, environment.NewStepLimit(50), 0.9, nil)
	require.NoError(t, err)

	a, err := NewConfig(smallConfig(t)).Create(env, agent.Options{
		Mode: agent.Training,
		Seed: 2,
	})
	require.NoError(t, err)
	defer a.(agent.Closer).Close()

	step, err := env.Reset()
	require.NoError(t, err)
	require.NoError(t, a.ObserveFirst(step))
	for !step.Last() {
		action := a.SelectAction(step)
		require.True(t, action.Valid())
		step, _, err = env.Step(action)
		require.NoError(t, err)
		require.NoError(t, a.Observe(action, step))
		require.NoError(t, a.Step())
	}
	require.NoError(t, a.EndEpisode())
}

func BenchmarkLearn(b *testing.B) {
	c := smallConfig(b)
	c.PolicyLayers = []int{30, 80, 30}
	c.Biases = []bool{true, true, true}
	c.Activations = []*network.Activation{
		network.ReLU(), network.ReLU(), network.ReLU(),
	}
	c.ExpReplay = expreplay.Config{SampleSize: 64, MaxReplayCapacity: 256}

	d := newAgent(b, c, agent.Training)
	defer d.Close()
	for i := 0; i < 64; i++ {
		observeTerminal(b, d)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := d.learn(); err != nil {
			b.Fatal(err)
		}
	}
}
