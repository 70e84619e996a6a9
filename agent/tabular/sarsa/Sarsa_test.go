package sarsa

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/snakelearn/agent"
	"github.com/samuelfneumann/snakelearn/agent/tabular"
	"github.com/samuelfneumann/snakelearn/environment"
	"github.com/samuelfneumann/snakelearn/environment/snake"
	"github.com/samuelfneumann/snakelearn/game"
)

func TestNewConfig(t *testing.T) {
	c := tabular.DefaultConfig()
	c.Alpha = 0.3
	tc := NewConfig(c)
	assert.Equal(t, agent.Sarsa, tc.Type)

	data, err := json.Marshal(tc)
	require.NoError(t, err)

	var decoded agent.TypedConfig
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, Config{c}, decoded.Config)
}

func TestSarsaEpisode(t *testing.T) {
	g, err := game.New(game.Config{Width: 6, Height: 6, Seed: 5},
		game.DefaultRewards())
	require.NoError(t, err)
	env, step, err := snake.New(g, environment.NewStepLimit(100), 0.9, nil)
	require.NoError(t, err)

	a, err := New(DefaultConfig(), agent.Options{Mode: agent.Training, Seed: 2})
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
	assert.Greater(t, a.Table().Len(), 0)
}
