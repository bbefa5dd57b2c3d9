// Package network implements the concrete language-model networks
// used by the actor and critic: a small embedding-table language model
// that can be scored both causally and as an encoder, and the
// feed-forward value projection head applied to encoder hidden states.
package network

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"

	"github.com/PoJason/open-chatgpt/model"
)

// LinearLM implements a linear (embedding-table) language model. Each
// token id indexes a row of an embedding matrix; that row is both the
// position's hidden state and, projected back through the transposed
// embedding matrix (weight tying), the position's next-token logits.
// LinearLM therefore implements both model.CausalModel and
// model.EncoderModel. Padding positions (mask 0) produce zero hidden
// states and zero logits.
type LinearLM struct {
	vocabSize  int
	hiddenSize int
	embed      *mat.Dense // (vocab, hidden)
}

// NewLinearLM returns a new LinearLM with Gaussian-initialized
// embeddings scaled by 1/√hiddenSize. The seed parameter determines
// the initialization RNG.
func NewLinearLM(vocabSize, hiddenSize int, seed uint64) (*LinearLM, error) {
	if vocabSize <= 0 || hiddenSize <= 0 {
		return nil, fmt.Errorf("newlinearlm: non-positive dimensions "+
			"(vocab %d, hidden %d)", vocabSize, hiddenSize)
	}

	rng := rand.New(rand.NewSource(seed))
	scale := 1.0 / math.Sqrt(float64(hiddenSize))
	weights := make([]float64, vocabSize*hiddenSize)
	for i := range weights {
		weights[i] = rng.NormFloat64() * scale
	}

	return &LinearLM{
		vocabSize:  vocabSize,
		hiddenSize: hiddenSize,
		embed:      mat.NewDense(vocabSize, hiddenSize, weights),
	}, nil
}

// VocabSize returns the size of the model's vocabulary.
func (l *LinearLM) VocabSize() int {
	return l.vocabSize
}

// HiddenSize returns the width of the model's hidden representation.
func (l *LinearLM) HiddenSize() int {
	return l.hiddenSize
}

// Embeddings returns the model's embedding matrix. The returned matrix
// is the model's own storage, not a copy.
func (l *LinearLM) Embeddings() *mat.Dense {
	return l.embed
}

// LastHiddenState returns the embedding row of each token as the
// position's hidden state, with shape (batch, length, hidden).
func (l *LinearLM) LastHiddenState(ids,
	mask *tensor.Dense) (*tensor.Dense, error) {
	if err := model.CheckShapes("lasthiddenstate", ids, mask); err != nil {
		return nil, err
	}

	batch := ids.Shape()[0]
	length := ids.Shape()[1]
	hidden := make([]float64, batch*length*l.hiddenSize)
	for b := 0; b < batch; b++ {
		for t := 0; t < length; t++ {
			id, real, err := tokenAt(ids, mask, b, t)
			if err != nil {
				return nil, fmt.Errorf("lasthiddenstate: %v", err)
			}
			if real == 0 {
				continue // padding positions keep zero hidden states
			}
			if id < 0 || id >= l.vocabSize {
				return nil, fmt.Errorf("lasthiddenstate: token id %d out "+
					"of vocabulary range [0, %d)", id, l.vocabSize)
			}

			row := l.embed.RawRowView(id)
			copy(hidden[(b*length+t)*l.hiddenSize:], row)
		}
	}

	return tensor.New(
		tensor.WithShape(batch, length, l.hiddenSize),
		tensor.WithBacking(hidden),
	), nil
}

// Logits returns per-position next-token logits with shape
// (batch, length, vocab), computed as the dot product of each
// position's hidden state with every embedding row.
func (l *LinearLM) Logits(ids, mask *tensor.Dense) (*tensor.Dense, error) {
	if err := model.CheckShapes("logits", ids, mask); err != nil {
		return nil, err
	}

	batch := ids.Shape()[0]
	length := ids.Shape()[1]
	logits := make([]float64, batch*length*l.vocabSize)
	for b := 0; b < batch; b++ {
		for t := 0; t < length; t++ {
			id, real, err := tokenAt(ids, mask, b, t)
			if err != nil {
				return nil, fmt.Errorf("logits: %v", err)
			}
			if real == 0 {
				continue
			}
			if id < 0 || id >= l.vocabSize {
				return nil, fmt.Errorf("logits: token id %d out of "+
					"vocabulary range [0, %d)", id, l.vocabSize)
			}

			e := l.embed.RowView(id)
			out := logits[(b*length+t)*l.vocabSize:]
			for v := 0; v < l.vocabSize; v++ {
				out[v] = mat.Dot(e, l.embed.RowView(v))
			}
		}
	}

	return tensor.New(
		tensor.WithShape(batch, length, l.vocabSize),
		tensor.WithBacking(logits),
	), nil
}

// tokenAt reads the token id and mask value at position (b, t)
func tokenAt(ids, mask *tensor.Dense, b, t int) (int, int, error) {
	rawID, err := ids.At(b, t)
	if err != nil {
		return 0, 0, err
	}
	id, ok := rawID.(int)
	if !ok {
		return 0, 0, fmt.Errorf("token tensor holds %T, not int", rawID)
	}

	rawReal, err := mask.At(b, t)
	if err != nil {
		return 0, 0, err
	}
	real, ok := rawReal.(int)
	if !ok {
		return 0, 0, fmt.Errorf("mask tensor holds %T, not int", rawReal)
	}
	return id, real, nil
}
