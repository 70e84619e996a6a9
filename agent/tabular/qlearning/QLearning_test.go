package qlearning

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/snakelearn/agent"
	"github.com/samuelfneumann/snakelearn/agent/policy"
	"github.com/samuelfneumann/snakelearn/environment"
	"github.com/samuelfneumann/snakelearn/environment/snake"
	"github.com/samuelfneumann/snakelearn/game"
	"github.com/samuelfneumann/snakelearn/vision"
)

func TestTypedConfigJSON(t *testing.T) {
	raw := `{"Type": "q-learning", "Config": {"Alpha": 0.1,
		"Epsilon": {"Initial": 0.5, "Factor": 0.9, "Min": 0.01, "Mode": "exp"}}}`

	var tc agent.TypedConfig
	require.NoError(t, json.Unmarshal([]byte(raw), &tc))
	require.Equal(t, agent.QLearning, tc.Type)

	c, ok := tc.Config.(Config)
	require.True(t, ok, "have %T", tc.Config)
	assert.Equal(t, 0.1, c.Alpha)
	assert.Equal(t, 0.9, c.Gamma, "missing fields keep their defaults")
	assert.Equal(t, policy.NewDecayingFloat(0.5, 0.9, 0.01, policy.Exponential),
		c.EpsilonSchedule())

	data, err := json.Marshal(tc)
	require.NoError(t, err)
	var again agent.TypedConfig
	require.NoError(t, json.Unmarshal(data, &again))
	assert.Equal(t, tc, again)
}

func TestRegistered(t *testing.T) {
	c, err := agent.Default(agent.QLearning)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
	_, ok := c.(agent.Scheduled)
	assert.True(t, ok)
}

func newEnv(t testing.TB) environment.Environment {
	g, err := game.New(game.Config{Width: 8, Height: 8, FoodMinDistance: 2,
		Seed: 3}, game.DefaultRewards())
	require.NoError(t, err)
	env, _, err := snake.New(g, environment.NewStepLimit(200), 0.9, nil)
	require.NoError(t, err)
	return env
}

// runEpisode runs a single episode in the same order as the experiment
// package
func runEpisode(t testing.TB, env environment.Environment, a agent.Agent) {
	step, err := env.Reset()
	require.NoError(t, err)
	require.NoError(t, a.ObserveFirst(step))

	for !step.Last() {
		action := a.SelectAction(step)
		step, _, err = env.Step(action)
		require.NoError(t, err)
		require.NoError(t, a.Observe(action, step))
		require.NoError(t, a.Step())
	}
	require.NoError(t, a.EndEpisode())
}

func TestLearnsFromEpisodes(t *testing.T) {
	env := newEnv(t)
	c := DefaultConfig()
	c.Epsilon = policy.NewConstant(0.5)
	a, err := agent.NewTypedConfig(c).Create(env, agent.Options{
		Mode: agent.Training,
		Seed: 11,
	})
	require.NoError(t, err)
	q := a.(*QLearning)

	for i := 0; i < 20; i++ {
		runEpisode(t, env, q)
	}

	table := q.Table()
	assert.Greater(t, table.Len(), 0)
	assert.LessOrEqual(t, table.Len(), vision.NumStates)

	// Every crash is punished, so some action value must be negative
	negative := false
	for _, s := range table.States() {
		v := table.Values(s)
		for _, value := range v {
			negative = negative || value < 0
		}
	}
	assert.True(t, negative)
}

func BenchmarkStep(b *testing.B) {
	env := newEnv(b)
	q, err := New(DefaultConfig(), agent.Options{Mode: agent.Training})
	require.NoError(b, err)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		runEpisode(b, env, q)
	}
}
