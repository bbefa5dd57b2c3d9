// Package critic implements the value model of an RLHF training loop:
// an encoder language model whose per-position hidden states are
// reduced to scalar value estimates by a feed-forward projection head.
package critic

import (
	"fmt"
	"math"

	"gorgonia.org/tensor"

	"github.com/PoJason/open-chatgpt/codec"
	"github.com/PoJason/open-chatgpt/model"
	"github.com/PoJason/open-chatgpt/network"
	"github.com/PoJason/open-chatgpt/utils/tensorutils"
)

// ValueModel wraps an encoder model, its codec, and a value projection
// head as the RL critic.
type ValueModel struct {
	model model.EncoderModel
	codec codec.Codec
	head  *network.ValueHead
}

var _ model.SequenceScorer = (*ValueModel)(nil)

// New returns a new ValueModel over an encoder model and its codec.
// The value head projects the encoder's hidden states through a
// ValueHeadHiddenSize-wide intermediate layer; its weights are
// Gaussian initialized from the given seed.
func New(encoder model.EncoderModel, c codec.Codec, config model.Config,
	seed uint64) (*ValueModel, error) {
	if encoder == nil {
		return nil, fmt.Errorf("new: no encoder model given")
	}
	if c == nil {
		return nil, fmt.Errorf("new: no codec given")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	stddev := 1.0 / math.Sqrt(float64(encoder.HiddenSize()))
	head, err := network.NewValueHead(encoder.HiddenSize(),
		config.ValueHeadHiddenSize, network.GaussianInit(stddev, seed))
	if err != nil {
		return nil, fmt.Errorf("new: could not create value head: %v", err)
	}

	return &ValueModel{
		model: encoder,
		codec: c,
		head:  head,
	}, nil
}

// Codec returns the critic's codec.
func (v *ValueModel) Codec() codec.Codec {
	return v.codec
}

// PadTokenID returns the pad token id of the critic's codec.
func (v *ValueModel) PadTokenID() int {
	return v.codec.Config().PadTokenID
}

// Head returns the critic's value projection head, whose learnables an
// outer training loop may update.
func (v *ValueModel) Head() *network.ValueHead {
	return v.head
}

// Score runs the encoder once over full sequences and projects every
// position's hidden state to a scalar, returning values with shape
// (batch, length). No positional truncation is performed internally;
// sequences exceeding the encoder's supported context are the caller's
// responsibility.
func (v *ValueModel) Score(ids, mask *tensor.Dense) (*tensor.Dense, error) {
	if err := model.CheckShapes("score", ids, mask); err != nil {
		return nil, err
	}

	hidden, err := v.model.LastHiddenState(ids, mask)
	if err != nil {
		return nil, fmt.Errorf("score: could not encode sequences: %v", err)
	}

	batch := ids.Shape()[0]
	length := ids.Shape()[1]
	if err := hidden.Reshape(batch*length, v.model.HiddenSize()); err != nil {
		return nil, fmt.Errorf("score: could not flatten hidden states: %v",
			err)
	}

	values, err := v.head.Forward(hidden)
	if err != nil {
		return nil, fmt.Errorf("score: %v", err)
	}
	if err := values.Reshape(batch, length); err != nil {
		return nil, fmt.Errorf("score: could not reshape values: %v", err)
	}
	return values, nil
}

// FinalValue returns the scalar value at the last token position of
// each sequence in the batch, with shape (batch,).
func (v *ValueModel) FinalValue(ids, mask *tensor.Dense) (*tensor.Dense,
	error) {
	values, err := v.Score(ids, mask)
	if err != nil {
		return nil, fmt.Errorf("finalvalue: %v", err)
	}

	length := values.Shape()[1]
	last, err := values.Slice(nil, tensorutils.NewSlice(length-1, length, 1))
	if err != nil {
		return nil, fmt.Errorf("finalvalue: could not slice values: %v", err)
	}

	final := last.Materialize().(*tensor.Dense)
	if err := final.Reshape(values.Shape()[0]); err != nil {
		return nil, fmt.Errorf("finalvalue: could not reshape values: %v",
			err)
	}
	return final, nil
}
