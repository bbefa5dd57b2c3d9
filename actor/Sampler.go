package actor

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/PoJason/open-chatgpt/utils/floatutils"
)

// sampler selects token ids from next-token logits. A temperature of
// 0 selects the argmax token, with ties broken by the sampler's RNG;
// any positive temperature samples from the softmax of the
// temperature-scaled logits.
type sampler struct {
	temperature float64
	src         rand.Source
	rng         *rand.Rand
}

// newSampler returns a new sampler. The seed parameter determines the
// sampler's RNG.
func newSampler(temperature float64, seed uint64) *sampler {
	src := rand.NewSource(seed)
	return &sampler{
		temperature: temperature,
		src:         src,
		rng:         rand.New(src),
	}
}

// Sample selects a token id from a vocabulary's worth of unnormalized
// logits.
func (s *sampler) Sample(logits []float64) int {
	if s.temperature == 0 {
		_, indices := floatutils.MaxSlice(logits)
		return indices[s.rng.Intn(len(indices))]
	}

	// Softmax of the temperature-scaled logits, shifted by the max
	// logit for numerical stability
	max := floatutils.Max(logits...)
	probs := make([]float64, len(logits))
	for i, logit := range logits {
		probs[i] = math.Exp((logit - max) / s.temperature)
	}
	floats.Scale(1.0/floats.Sum(probs), probs)

	dist := distuv.NewCategorical(probs, s.src)
	return int(dist.Rand())
}
