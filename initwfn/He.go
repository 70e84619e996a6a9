package initwfn

import (
	"math"

	"golang.org/x/exp/rand"
	G "gorgonia.org/gorgonia"
)

// HeUConfig implements a configuration of the He uniform
// initialization algorithm.
type HeUConfig struct {
	Gain float64
	Seed uint64
}

// NewHeU returns a new He Uniform weight initializer
func NewHeU(gain float64, seed uint64) (*InitWFn, error) {
	config := HeUConfig{
		Gain: gain,
		Seed: seed,
	}

	return newInitWFn(config)
}

// Type returns the type of initialization algorithm described by
// the configuration.
func (h HeUConfig) Type() Type {
	return HeU
}

// Create returns the weight initialization algorithm as a Gorgonia
// InitWFn
func (h HeUConfig) Create() G.InitWFn {
	return randomInit(h.Seed, func(src rand.Source, in, _ float64) float64 {
		return uniform(src, h.Gain*math.Sqrt(6/in))
	})
}

func (h HeUConfig) withSeed(seed uint64) Config {
	h.Seed = seed
	return h
}

// HeNConfig implements a configuration of the He normal
// initialization algorithm.
type HeNConfig struct {
	Gain float64
	Seed uint64
}

// NewHeN returns a new He Normal weight initializer
func NewHeN(gain float64, seed uint64) (*InitWFn, error) {
	config := HeNConfig{
		Gain: gain,
		Seed: seed,
	}

	return newInitWFn(config)
}

// Type returns the type of initialization algorithm described by
// the configuration.
func (h HeNConfig) Type() Type {
	return HeN
}

// Create returns the weight initialization algorithm as a Gorgonia
// InitWFn
func (h HeNConfig) Create() G.InitWFn {
	return randomInit(h.Seed, func(src rand.Source, in, _ float64) float64 {
		return normal(src, h.Gain*math.Sqrt(2/in))
	})
}

func (h HeNConfig) withSeed(seed uint64) Config {
	h.Seed = seed
	return h
}
