// Package network implements feed forward neural networks built on
// Gorgonia computational graphs.
package network

import (
	G "gorgonia.org/gorgonia"
)

// NeuralNet is a neural network whose forward pass lives in its own
// computational graph
type NeuralNet interface {
	Graph() *G.ExprGraph
	Clone() (NeuralNet, error)
	CloneWithBatch(int) (NeuralNet, error)
	BatchSize() int
	Features() int
	Outputs() int

	// SetInput sets the input to the network. It panics if the input
	// does not have BatchSize() * Features() values.
	SetInput([]float64) error

	// Set copies the weights of the argument into the receiver
	Set(NeuralNet) error

	// Polyak sets the weights to tau * source + (1 - tau) * current
	Polyak(NeuralNet, float64) error

	Learnables() G.Nodes
	Model() []G.ValueGrad

	// Output returns the value of the prediction after the graph has
	// been run
	Output() G.Value
	Prediction() *G.Node

	// Architecture describes the layers of the network
	Architecture() Architecture

	// Weights returns a copy of the current weights, and SetWeights
	// replaces them
	Weights() *Weights
	SetWeights(*Weights) error
}
