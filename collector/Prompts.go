package collector

import (
	"fmt"

	"gorgonia.org/tensor"

	"github.com/PoJason/open-chatgpt/codec"
)

// TextPrompts is a PromptSource cycling through a fixed list of text
// prompt batches, encoding each batch with a codec. Prompts are
// left-padded to a common width per batch and left-truncated to the
// source's maximum prompt length.
type TextPrompts struct {
	codec     codec.Codec
	batches   [][]string
	maxLength int
	next      int
}

// NewTextPrompts returns a new TextPrompts over the given batches.
// The maxLength parameter bounds the encoded prompt length; prompts
// should be bounded well below the actor's maximum sequence length or
// rollouts will fail with an exhausted generation budget.
func NewTextPrompts(c codec.Codec, batches [][]string,
	maxLength int) (*TextPrompts, error) {
	if c == nil {
		return nil, fmt.Errorf("newtextprompts: no codec given")
	}
	if len(batches) == 0 {
		return nil, fmt.Errorf("newtextprompts: no prompt batches given")
	}
	for i, batch := range batches {
		if len(batch) == 0 {
			return nil, fmt.Errorf("newtextprompts: batch %d is empty", i)
		}
	}
	if maxLength <= 0 {
		return nil, fmt.Errorf("newtextprompts: non-positive max length %d",
			maxLength)
	}

	return &TextPrompts{
		codec:     c,
		batches:   batches,
		maxLength: maxLength,
	}, nil
}

// Next encodes and returns the next prompt batch, cycling back to the
// first batch after the last.
func (t *TextPrompts) Next() (*tensor.Dense, *tensor.Dense, error) {
	batch := t.batches[t.next%len(t.batches)]
	t.next++

	states, stateMask, err := codec.EncodeBatch(t.codec, batch, t.maxLength)
	if err != nil {
		return nil, nil, fmt.Errorf("next: %v", err)
	}
	return states, stateMask, nil
}
