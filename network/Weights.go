package network

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// ErrMalformedWeights is returned when a weights blob cannot be decoded
// or does not fit the network it is loaded into
var ErrMalformedWeights = errors.New("malformed weights")

// Architecture describes the layers of a multi-layered perceptron. The
// final linear output layer is implied by Outputs and is not listed in
// Hidden, Biases, or Activations.
type Architecture struct {
	Features    int
	Outputs     int
	Hidden      []int
	Biases      []bool
	Activations []string
}

// Equal returns whether two architectures describe the same network
func (a Architecture) Equal(other Architecture) bool {
	if a.Features != other.Features || a.Outputs != other.Outputs {
		return false
	}
	if len(a.Hidden) != len(other.Hidden) ||
		len(a.Biases) != len(other.Biases) ||
		len(a.Activations) != len(other.Activations) {
		return false
	}
	for i := range a.Hidden {
		if a.Hidden[i] != other.Hidden[i] {
			return false
		}
	}
	for i := range a.Biases {
		if a.Biases[i] != other.Biases[i] {
			return false
		}
	}
	for i := range a.Activations {
		if a.Activations[i] != other.Activations[i] {
			return false
		}
	}
	return true
}

// Weights is a snapshot of the learnable parameters of a network. Shapes
// and Values are stored in the order of the network's Learnables().
type Weights struct {
	Architecture
	Shapes [][]int
	Values [][]float64
}

// weightsOf takes a snapshot of the learnables of a network
func weightsOf(arch Architecture, learnables G.Nodes) *Weights {
	w := &Weights{
		Architecture: arch,
		Shapes:       make([][]int, len(learnables)),
		Values:       make([][]float64, len(learnables)),
	}

	for i, node := range learnables {
		w.Shapes[i] = append([]int(nil), node.Shape()...)

		data := node.Value().Data().([]float64)
		w.Values[i] = append([]float64(nil), data...)
	}
	return w
}

// validate checks that the weights are internally consistent
func (w *Weights) validate() error {
	if len(w.Shapes) != len(w.Values) {
		return fmt.Errorf("%w: shapes and values differ in length"+
			"\n\twant(%v)\n\thave(%v)", ErrMalformedWeights, len(w.Shapes),
			len(w.Values))
	}

	for i, shape := range w.Shapes {
		size := 1
		for _, dim := range shape {
			size *= dim
		}
		if size != len(w.Values[i]) {
			return fmt.Errorf("%w: learnable %d has wrong number of values"+
				"\n\twant(%v)\n\thave(%v)", ErrMalformedWeights, i, size,
				len(w.Values[i]))
		}
		for _, v := range w.Values[i] {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: learnable %d is not finite",
					ErrMalformedWeights, i)
			}
		}
	}
	return nil
}

// setLearnables sets the values of learnables to the weights
func (w *Weights) setLearnables(arch Architecture, learnables G.Nodes) error {
	if !w.Architecture.Equal(arch) {
		return fmt.Errorf("%w: architecture mismatch\n\twant(%+v)\n\thave(%+v)",
			ErrMalformedWeights, arch, w.Architecture)
	}
	if err := w.validate(); err != nil {
		return err
	}
	if len(w.Values) != len(learnables) {
		return fmt.Errorf("%w: wrong number of learnables\n\twant(%v)"+
			"\n\thave(%v)", ErrMalformedWeights, len(learnables), len(w.Values))
	}

	for i, node := range learnables {
		if !tensor.Shape(w.Shapes[i]).Eq(node.Shape()) {
			return fmt.Errorf("%w: learnable %v has wrong shape\n\twant(%v)"+
				"\n\thave(%v)", ErrMalformedWeights, node.Name(), node.Shape(),
				w.Shapes[i])
		}
	}

	for i, node := range learnables {
		backing := append([]float64(nil), w.Values[i]...)
		value := tensor.New(
			tensor.WithShape(w.Shapes[i]...),
			tensor.WithBacking(backing),
		)
		if err := G.Let(node, value); err != nil {
			return fmt.Errorf("setweights: could not set %v: %v", node.Name(),
				err)
		}
	}
	return nil
}

// Encode writes the weights to w as a gob blob
func (w *Weights) Encode(out io.Writer) error {
	if err := gob.NewEncoder(out).Encode(w); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// DecodeWeights reads a gob blob of weights from r
func DecodeWeights(r io.Reader) (*Weights, error) {
	var w Weights
	if err := gob.NewDecoder(r).Decode(&w); err != nil {
		return nil, fmt.Errorf("decodeweights: %w: %v", ErrMalformedWeights, err)
	}
	if err := w.validate(); err != nil {
		return nil, fmt.Errorf("decodeweights: %w", err)
	}
	return &w, nil
}

// SaveWeights atomically writes the weights of net to the file at path
func SaveWeights(net NeuralNet, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("saveweights: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("saveweights: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := net.Weights().Encode(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("saveweights: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("saveweights: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("saveweights: %w", err)
	}
	return nil
}

// LoadWeights sets the weights of net to those stored in the file at
// path. If the file does not exist, the returned error wraps
// fs.ErrNotExist and net is unchanged.
func LoadWeights(net NeuralNet, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("loadweights: %w", err)
	}
	defer f.Close()

	w, err := DecodeWeights(f)
	if err != nil {
		return fmt.Errorf("loadweights: %w", err)
	}

	if err := net.SetWeights(w); err != nil {
		return fmt.Errorf("loadweights: %w", err)
	}
	return nil
}
