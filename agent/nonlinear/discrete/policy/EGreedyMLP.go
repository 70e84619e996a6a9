// Package policy implements policies using function approximation using
// Gorgonia. Many of these policies use nonlinear function
// approximation.
package policy

import (
	"fmt"

	G "gorgonia.org/gorgonia"

	"github.com/samuelfneumann/snakelearn/agent/policy"
	"github.com/samuelfneumann/snakelearn/game"
	"github.com/samuelfneumann/snakelearn/network"
	"github.com/samuelfneumann/snakelearn/vision"
)

// MultiHeadEGreedyMLP implements an epsilon greedy policy using a
// feedforward neural network/MLP. The neural network produces one
// output per action, each predicting the value of a distinct action.
//
// Unlike a bare network, the policy owns a VM over the network's graph.
// Selecting an action sets the network input, runs the VM, and reads
// the predicted action values:
//
//		Set input to policy's network:	policy.SetInput(obs)
//		Predict the action values:		vm.RunAll()
//		Select an action:				policy.Select(values)
type MultiHeadEGreedyMLP struct {
	network.NeuralNet
	vm G.VM

	egreedy *policy.EGreedy
}

// NewMultiHeadEGreedyMLP creates and returns a new MultiHeadEGreedyMLP
// over a network which takes single encoded states as input and
// predicts one value per action.
func NewMultiHeadEGreedyMLP(net network.NeuralNet, epsilon float64,
	seed uint64) (*MultiHeadEGreedyMLP, error) {
	if net.BatchSize() != 1 {
		return nil, fmt.Errorf("newmultiheadegreedymlp: policy network "+
			"must take a single input\n\twant(1)\n\thave(%v)", net.BatchSize())
	}
	if net.Features() != vision.NumFeatures {
		return nil, fmt.Errorf("newmultiheadegreedymlp: invalid number of "+
			"features\n\twant(%v)\n\thave(%v)", vision.NumFeatures,
			net.Features())
	}
	if net.Outputs() != game.NumActions {
		return nil, fmt.Errorf("newmultiheadegreedymlp: invalid number of "+
			"outputs\n\twant(%v)\n\thave(%v)", game.NumActions, net.Outputs())
	}

	egreedy, err := policy.NewEGreedy(epsilon, seed)
	if err != nil {
		return nil, fmt.Errorf("newmultiheadegreedymlp: %w", err)
	}

	return &MultiHeadEGreedyMLP{
		NeuralNet: net,
		vm:        G.NewTapeMachine(net.Graph()),
		egreedy:   egreedy,
	}, nil
}

// Network returns the neural network function approximator that the
// policy uses.
func (e *MultiHeadEGreedyMLP) Network() network.NeuralNet {
	return e.NeuralNet
}

// SetEpsilon sets the value for epsilon in the epsilon greedy policy.
func (e *MultiHeadEGreedyMLP) SetEpsilon(ε float64) {
	e.egreedy.SetEpsilon(ε)
}

// Epsilon gets the value of epsilon for the policy.
func (e *MultiHeadEGreedyMLP) Epsilon() float64 {
	return e.egreedy.Epsilon()
}

// ActionValues runs the network on s and returns the predicted value of
// each action
func (e *MultiHeadEGreedyMLP) ActionValues(
	s vision.State) ([game.NumActions]float64, error) {
	var values [game.NumActions]float64

	if err := e.SetInput(s.Features()); err != nil {
		return values, fmt.Errorf("actionvalues: could not set input: %v", err)
	}

	defer e.vm.Reset()
	if err := e.vm.RunAll(); err != nil {
		return values, fmt.Errorf("actionvalues: could not run vm: %v", err)
	}

	copy(values[:], e.Output().Data().([]float64))
	return values, nil
}

// SelectAction selects an action ε-greedily with respect to the action
// values the network predicts in s
func (e *MultiHeadEGreedyMLP) SelectAction(s vision.State) (game.Action,
	error) {
	values, err := e.ActionValues(s)
	if err != nil {
		return game.Straight, fmt.Errorf("selectaction: %w", err)
	}
	return e.egreedy.Select(values), nil
}

// Close releases the resources held by the policy's VM
func (e *MultiHeadEGreedyMLP) Close() error {
	return e.vm.Close()
}
