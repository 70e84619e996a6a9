package environment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/samuelfneumann/snakelearn/game"
	"github.com/samuelfneumann/snakelearn/timestep"
	"github.com/samuelfneumann/snakelearn/vision"
)

func step(n, length int) timestep.TimeStep {
	body := make([]game.Point, length)
	for i := range body {
		body[i] = game.Point{X: 0, Y: i}
	}
	return timestep.New(timestep.Mid, -0.5, 0.9, vision.State{},
		game.State{Body: body}, n)
}

func TestStepLimit(t *testing.T) {
	limit := NewStepLimit(10)

	s := step(9, 1)
	assert.False(t, limit.End(&s))
	assert.False(t, s.Last())

	s = step(10, 1)
	assert.True(t, limit.End(&s))
	assert.True(t, s.Last())
	assert.Equal(t, timestep.Timeout, s.EndType())
	assert.Equal(t, -0.5, s.Reward, "timeouts keep the step reward")
}

func TestStepLimitDisabled(t *testing.T) {
	s := step(1<<20, 1)
	assert.False(t, NewStepLimit(0).End(&s))
}

func TestLengthLimit(t *testing.T) {
	limit := NewLengthLimit(4)

	s := step(3, 3)
	assert.False(t, limit.End(&s))

	s = step(3, 4)
	assert.True(t, limit.End(&s))
	assert.Equal(t, timestep.Terminal, s.EndType())
	assert.Equal(t, game.Won, s.Outcome)
}

func TestFunctionEnderKeepsOutcome(t *testing.T) {
	ender := NewFunctionEnder(func(s game.State) bool { return true },
		timestep.Timeout, game.Running)

	s := step(1, 1)
	s.Outcome = game.Running
	assert.True(t, ender.End(&s))
	assert.Equal(t, timestep.Timeout, s.EndType())
	assert.Equal(t, game.Running, s.Outcome)
}

func TestEnders(t *testing.T) {
	enders := Enders{NewStepLimit(100), NewLengthLimit(2)}

	s := step(1, 1)
	assert.False(t, enders.End(&s))

	s = step(1, 2)
	assert.True(t, enders.End(&s))
	assert.Equal(t, timestep.Terminal, s.EndType())
}
