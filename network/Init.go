package network

import (
	"golang.org/x/exp/rand"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// GaussianInit returns a Gorgonia weight initializer drawing values
// from a zero-mean Gaussian with the given standard deviation, using
// an explicitly seeded RNG so that weight initialization is
// reproducible.
func GaussianInit(stddev float64, seed uint64) G.InitWFn {
	rng := rand.New(rand.NewSource(seed))
	return func(dt tensor.Dtype, s ...int) interface{} {
		size := 1
		for _, dim := range s {
			size *= dim
		}

		data := make([]float64, size)
		for i := range data {
			data[i] = rng.NormFloat64() * stddev
		}
		return data
	}
}
