package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	G "gorgonia.org/gorgonia"

	"github.com/samuelfneumann/snakelearn/game"
	"github.com/samuelfneumann/snakelearn/network"
	"github.com/samuelfneumann/snakelearn/vision"
)

// rightNet returns a linear network which values turning right by the
// number of active features and every other action at zero
func rightNet(t *testing.T, batch int) network.NeuralNet {
	t.Helper()

	net, err := network.NewMultiHeadMLP(vision.NumFeatures, batch,
		game.NumActions, G.NewGraph(), nil, nil, G.Zeroes(), nil)
	require.NoError(t, err)

	w := net.Weights()
	for i := 0; i < vision.NumFeatures; i++ {
		w.Values[0][i*game.NumActions+int(game.Right)] = 1
	}
	require.NoError(t, net.SetWeights(w))
	return net
}

func TestActionValues(t *testing.T) {
	p, err := NewMultiHeadEGreedyMLP(rightNet(t, 1), 0, 1)
	require.NoError(t, err)
	defer p.Close()

	s := vision.State{Food: vision.Ahead,
		Sensors: [3]vision.Sensor{vision.Obstacle, vision.Clear, vision.Clear}}
	values, err := p.ActionValues(s)
	require.NoError(t, err)
	assert.Equal(t, [game.NumActions]float64{0, 0, 2}, values)

	// The VM is reset between calls
	values, err = p.ActionValues(s)
	require.NoError(t, err)
	assert.Equal(t, 2.0, values[game.Right])

	a, err := p.SelectAction(s)
	require.NoError(t, err)
	assert.Equal(t, game.Right, a)
}

func TestEpsilon(t *testing.T) {
	p, err := NewMultiHeadEGreedyMLP(rightNet(t, 1), 1, 3)
	require.NoError(t, err)
	defer p.Close()

	counts := make(map[game.Action]int)
	for i := 0; i < 300; i++ {
		a, err := p.SelectAction(vision.State{Food: vision.Behind})
		require.NoError(t, err)
		counts[a]++
	}
	assert.Len(t, counts, game.NumActions)

	p.SetEpsilon(0)
	assert.Zero(t, p.Epsilon())
}

func TestRejectsNetwork(t *testing.T) {
	_, err := NewMultiHeadEGreedyMLP(rightNet(t, 2), 0.1, 1)
	assert.Error(t, err)

	net, err := network.NewMultiHeadMLP(2, 1, game.NumActions, G.NewGraph(),
		nil, nil, G.Zeroes(), nil)
	require.NoError(t, err)
	_, err = NewMultiHeadEGreedyMLP(net, 0.1, 1)
	assert.Error(t, err)
}
