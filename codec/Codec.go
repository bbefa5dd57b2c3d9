// Package codec implements the tokenization convention shared by the
// actor and critic models: integer token ids, left padding with the
// pad token, left truncation, and a pad token that is always the
// end-of-sequence token (synthesized if the vocabulary lacks one).
package codec

import (
	"fmt"

	"gorgonia.org/tensor"
)

// Codec converts between text and integer token ids under a resolved
// padding convention.
type Codec interface {
	// Encode converts text to token ids. No padding or truncation is
	// applied.
	Encode(text string) []int

	// Decode converts token ids back to text, skipping pad tokens.
	Decode(ids []int) string

	// VocabSize returns the number of ids in the codec's vocabulary,
	// including the pad/end-of-sequence token.
	VocabSize() int

	// Config returns the codec's resolved padding convention.
	Config() Config
}

// EncodeBatch encodes a batch of prompts into a (batch, width) token
// id tensor and a same-shaped attention mask tensor. Prompts longer
// than maxLength tokens are truncated on the codec's truncation side.
// Every prompt is padded on the codec's padding side to the width of
// the longest (possibly truncated) prompt in the batch, and the mask
// is 1 exactly at non-pad positions.
func EncodeBatch(c Codec, prompts []string,
	maxLength int) (*tensor.Dense, *tensor.Dense, error) {
	if len(prompts) == 0 {
		return nil, nil, fmt.Errorf("encodebatch: no prompts to encode")
	}
	if maxLength <= 0 {
		return nil, nil, fmt.Errorf("encodebatch: non-positive max length %d",
			maxLength)
	}

	config := c.Config()

	encoded := make([][]int, len(prompts))
	width := 0
	for i, prompt := range prompts {
		ids := c.Encode(prompt)
		if len(ids) > maxLength {
			if config.TruncationSide == Left {
				ids = ids[len(ids)-maxLength:]
			} else {
				ids = ids[:maxLength]
			}
		}
		if len(ids) == 0 {
			return nil, nil, fmt.Errorf("encodebatch: prompt %d encodes to "+
				"no tokens", i)
		}
		encoded[i] = ids
		if len(ids) > width {
			width = len(ids)
		}
	}

	idData := make([]int, len(prompts)*width)
	maskData := make([]int, len(prompts)*width)
	for i, ids := range encoded {
		pad := width - len(ids)
		for j := 0; j < width; j++ {
			var tok, real int
			switch {
			case config.PaddingSide == Left && j < pad:
				tok, real = config.PadTokenID, 0
			case config.PaddingSide == Left:
				tok, real = ids[j-pad], 1
			case j < len(ids): // right padding
				tok, real = ids[j], 1
			default:
				tok, real = config.PadTokenID, 0
			}
			idData[i*width+j] = tok
			maskData[i*width+j] = real
		}
	}

	ids := tensor.New(
		tensor.WithShape(len(prompts), width),
		tensor.WithBacking(idData),
	)
	mask := tensor.New(
		tensor.WithShape(len(prompts), width),
		tensor.WithBacking(maskData),
	)
	return ids, mask, nil
}
