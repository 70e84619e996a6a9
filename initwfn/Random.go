package initwfn

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// sampler draws a single weight given the fan in and fan out of the
// tensor being initialized
type sampler func(src rand.Source, fanIn, fanOut float64) float64

// randomInit returns a Gorgonia InitWFn that fills float64 tensors with
// values drawn by sample. All tensors initialized by the returned
// function share one seeded source.
func randomInit(seed uint64, sample sampler) G.InitWFn {
	src := rand.NewSource(seed)

	return func(dt tensor.Dtype, s ...int) interface{} {
		if dt != tensor.Float64 {
			panic(fmt.Sprintf("initwfn: unsupported dtype %v", dt))
		}

		fanIn, fanOut := fans(s)
		size := 1
		for _, dim := range s {
			size *= dim
		}

		backing := make([]float64, size)
		for i := range backing {
			backing[i] = sample(src, fanIn, fanOut)
		}
		return backing
	}
}

// fans returns the fan in and fan out of a tensor of shape s
func fans(s []int) (float64, float64) {
	switch len(s) {
	case 0:
		return 1, 1
	case 1:
		return float64(s[0]), float64(s[0])
	default:
		return float64(s[0]), float64(s[1])
	}
}

func uniform(src rand.Source, limit float64) float64 {
	return distuv.Uniform{Min: -limit, Max: limit, Src: src}.Rand()
}

func normal(src rand.Source, stddev float64) float64 {
	return distuv.Normal{Mu: 0, Sigma: stddev, Src: src}.Rand()
}
