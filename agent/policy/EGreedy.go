// Package policy implements action selection over the action values of
// the three relative actions.
package policy

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samuelfneumann/snakelearn/game"
	"github.com/samuelfneumann/snakelearn/utils/floatutils"
)

// EGreedy implements an ε-greedy policy. With probability ε an action
// is chosen uniformly at random, and otherwise the action of maximum
// value is chosen.
type EGreedy struct {
	epsilon float64
	seed    rand.Source // Seed for random number generation
}

// NewEGreedy constructs a new EGreedy policy, where e=epislon is the
// probability with which a random action is selected
func NewEGreedy(e float64, seed uint64) (*EGreedy, error) {
	if e < 0 || e > 1 {
		return nil, fmt.Errorf("newegreedy: epsilon must be a probability"+
			"\n\twant(0 <= ε <= 1)\n\thave(%v)", e)
	}
	return &EGreedy{epsilon: e, seed: rand.NewSource(seed)}, nil
}

// Select selects an action from the ε-greedy distribution over values.
// When ε is 0 no randomness is consumed, so selection is a pure
// function of the values.
func (p *EGreedy) Select(values [game.NumActions]float64) game.Action {
	greedyAction := Greedy(values)
	if p.epsilon <= 0 {
		return greedyAction
	}

	// Calculate the ε probability of choosing any action at random
	prob := p.epsilon / float64(game.NumActions)
	actionProbabilites := make([]float64, game.NumActions)
	for i := range actionProbabilites {
		actionProbabilites[i] = prob
	}

	// Adjust the probability of choosing the greedy action
	actionProbabilites[greedyAction] += 1.0 - p.epsilon

	// Construct a categorical distribution over actions using action
	// probabilities
	dist := distuv.NewCategorical(actionProbabilites, p.seed)
	return game.Action(int(dist.Rand()))
}

// SetEpsilon sets the value for epsilon in the epsilon greedy policy.
// Values outside [0, 1] are clipped.
func (p *EGreedy) SetEpsilon(ε float64) {
	p.epsilon = floatutils.Clip(ε, 0, 1)
}

// Epsilon gets the value of epsilon for the policy.
func (p *EGreedy) Epsilon() float64 {
	return p.epsilon
}

// Greedy returns the action of maximum value. Ties are broken in the
// fixed order left, straight, right.
func Greedy(values [game.NumActions]float64) game.Action {
	_, maxIndices := floatutils.MaxSlice(values[:])
	return game.Action(maxIndices[0])
}
