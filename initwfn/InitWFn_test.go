package initwfn

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

func TestInitWFnJSON(t *testing.T) {
	init, err := NewGlorotU(1.0, 7)
	require.NoError(t, err)

	data, err := json.Marshal(init)
	require.NoError(t, err)

	var decoded InitWFn
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, GlorotU, decoded.Type)
	assert.Equal(t, GlorotUConfig{Gain: 1.0, Seed: 7}, decoded.Config)
	assert.NotNil(t, decoded.InitWFn())
}

func TestInitWFnUnknownType(t *testing.T) {
	var decoded InitWFn
	err := json.Unmarshal([]byte(`{"Type": "Xavier", "Config": {}}`), &decoded)
	assert.Error(t, err)
}

func TestSeededInitializersRepeat(t *testing.T) {
	configs := []Config{
		GlorotUConfig{Gain: 1, Seed: 3},
		GlorotNConfig{Gain: 1, Seed: 3},
		HeUConfig{Gain: 1, Seed: 3},
		HeNConfig{Gain: 1, Seed: 3},
		UniformConfig{Low: -1, High: 1, Seed: 3},
		GaussianConfig{Mean: 0, StdDev: 1, Seed: 3},
	}

	for _, c := range configs {
		t.Run(string(c.Type()), func(t *testing.T) {
			first := c.Create()(tensor.Float64, 4, 5).([]float64)
			second := c.Create()(tensor.Float64, 4, 5).([]float64)

			assert.Len(t, first, 20)
			assert.Equal(t, first, second)
		})
	}
}

func TestWithSeed(t *testing.T) {
	init, err := NewHeN(1.0, 1)
	require.NoError(t, err)

	a := init.WithSeed(10).InitWFn()(tensor.Float64, 3, 3).([]float64)
	b := init.WithSeed(11).InitWFn()(tensor.Float64, 3, 3).([]float64)
	c := init.WithSeed(10).InitWFn()(tensor.Float64, 3, 3).([]float64)

	assert.NotEqual(t, a, b)
	assert.Equal(t, a, c)

	zeroes, err := NewZeroes()
	require.NoError(t, err)
	assert.Same(t, zeroes, zeroes.WithSeed(10))
}

func TestUniformBounds(t *testing.T) {
	limit := 0.5
	values := GlorotUConfig{Gain: 1, Seed: 9}.Create()(tensor.Float64, 12, 12)
	for _, v := range values.([]float64) {
		assert.LessOrEqual(t, v, limit)
		assert.GreaterOrEqual(t, v, -limit)
	}

	values = UniformConfig{Low: 2, High: 3, Seed: 9}.Create()(tensor.Float64, 10)
	for _, v := range values.([]float64) {
		assert.True(t, v >= 2 && v < 3)
	}
}
