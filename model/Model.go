// Package model defines the scoring interfaces implemented by the
// underlying language models, along with the configuration shared by
// the actor and critic built on top of them. Token ids and attention
// masks are (batch, length) integer tensors; masks are 1 exactly at
// non-pad positions. Real content is right-aligned (left padding).
package model

import (
	"fmt"

	"gorgonia.org/tensor"
)

// SequenceScorer is anything that scores full token sequences in one
// pass, producing a per-position output tensor. The policy scorer
// produces vocabulary logits per position; the value scorer produces a
// scalar per position.
type SequenceScorer interface {
	Score(ids, mask *tensor.Dense) (*tensor.Dense, error)
}

// CausalModel is a causal generative language model scored in
// full-sequence (teacher-forced) mode: a single pass over a sequence
// yields next-token logits for every position simultaneously.
type CausalModel interface {
	// Logits returns per-position next-token logits with shape
	// (batch, length, vocab). Inputs are never mutated.
	Logits(ids, mask *tensor.Dense) (*tensor.Dense, error)

	// VocabSize returns the size of the model's output vocabulary.
	VocabSize() int
}

// EncoderModel is a language model scored for its per-position hidden
// representations rather than next-token predictions.
type EncoderModel interface {
	// LastHiddenState returns the final-layer hidden state at every
	// position, with shape (batch, length, hidden). No positional
	// truncation is performed; sequences exceeding the model's
	// supported context are the caller's responsibility.
	LastHiddenState(ids, mask *tensor.Dense) (*tensor.Dense, error)

	// HiddenSize returns the width of the hidden representation.
	HiddenSize() int
}

// Config holds the generation and scoring configuration shared by the
// actor and critic.
type Config struct {
	// Temperature is the sampling temperature for generation. A
	// temperature of 0 selects the argmax token at every step.
	Temperature float64

	// MaxSequenceLength bounds the total length of any sequence
	// (prompt and completion together).
	MaxSequenceLength int

	// MaxNewTokens bounds the length of a generated completion.
	MaxNewTokens int

	// ValueHeadHiddenSize is the width of the critic's value
	// projection head.
	ValueHeadHiddenSize int
}

// Validate returns an error if the configuration describes an unusable
// actor or critic.
func (c Config) Validate() error {
	if c.Temperature < 0 {
		return fmt.Errorf("validate: negative temperature %v", c.Temperature)
	}
	if c.MaxSequenceLength <= 0 {
		return fmt.Errorf("validate: non-positive max sequence length %d",
			c.MaxSequenceLength)
	}
	if c.MaxNewTokens <= 0 {
		return fmt.Errorf("validate: non-positive max new tokens %d",
			c.MaxNewTokens)
	}
	if c.ValueHeadHiddenSize <= 0 {
		return fmt.Errorf("validate: non-positive value head hidden size %d",
			c.ValueHeadHiddenSize)
	}
	return nil
}
