package timestep

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/samuelfneumann/snakelearn/game"
	"github.com/samuelfneumann/snakelearn/vision"
)

func TestSetEnd(t *testing.T) {
	step := New(Mid, 0, 0.9, vision.State{}, game.State{}, 4)
	assert.False(t, step.Last())
	assert.Equal(t, NotEnded, step.EndType())

	step.SetEnd(Timeout)
	assert.True(t, step.Last())
	assert.True(t, step.Terminal())
	assert.Equal(t, Timeout, step.EndType())
}

func TestNewTransition(t *testing.T) {
	s := vision.State{Food: vision.Left}
	next := vision.State{Food: vision.Ahead}

	first := New(First, 0, 0.9, s, game.State{}, 0)
	last := New(Mid, 10, 0.9, next, game.State{}, 1)
	last.SetEnd(Terminal)

	tr := NewTransition(first, game.Left, last, game.Straight)
	assert.Equal(t, s, tr.State)
	assert.Equal(t, next, tr.NextState)
	assert.Equal(t, game.Left, tr.Action)
	assert.Equal(t, game.Straight, tr.NextAction)
	assert.Equal(t, 10.0, tr.Reward)
	assert.True(t, tr.Terminal)
}
