// Package actor implements the policy model of an RLHF training loop:
// a causal generative language model that scores full sequences in one
// teacher-forced pass and rolls out new action sequences from prompt
// states.
package actor

import (
	"fmt"

	"gorgonia.org/tensor"

	"github.com/PoJason/open-chatgpt/codec"
	"github.com/PoJason/open-chatgpt/model"
	"github.com/PoJason/open-chatgpt/utils/intutils"
	"github.com/PoJason/open-chatgpt/utils/tensorutils"
)

// PolicyModel wraps a causal language model and its codec as the RL
// policy. Scoring and generation never mutate their input tensors.
type PolicyModel struct {
	model   model.CausalModel
	codec   codec.Codec
	config  model.Config
	sampler *sampler
}

var _ model.SequenceScorer = (*PolicyModel)(nil)

// New returns a new PolicyModel over a causal model and its codec.
// The seed parameter determines the token sampler's RNG; generation is
// reproducible across calls only when the temperature is 0 (argmax
// decoding with no logit ties) or when fresh PolicyModels are built
// from the same seed.
func New(causal model.CausalModel, c codec.Codec, config model.Config,
	seed uint64) (*PolicyModel, error) {
	if causal == nil {
		return nil, fmt.Errorf("new: no causal model given")
	}
	if c == nil {
		return nil, fmt.Errorf("new: no codec given")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	return &PolicyModel{
		model:   causal,
		codec:   c,
		config:  config,
		sampler: newSampler(config.Temperature, seed),
	}, nil
}

// Codec returns the policy's codec.
func (p *PolicyModel) Codec() codec.Codec {
	return p.codec
}

// PadTokenID returns the pad token id of the policy's codec.
func (p *PolicyModel) PadTokenID() int {
	return p.codec.Config().PadTokenID
}

// VocabSize returns the size of the policy's output vocabulary.
func (p *PolicyModel) VocabSize() int {
	return p.model.VocabSize()
}

// Score runs the causal model once over full sequences in
// teacher-forced mode, returning per-position next-token logits with
// shape (batch, length, vocab).
func (p *PolicyModel) Score(ids, mask *tensor.Dense) (*tensor.Dense, error) {
	if err := model.CheckShapes("score", ids, mask); err != nil {
		return nil, err
	}

	logits, err := p.model.Logits(ids, mask)
	if err != nil {
		return nil, fmt.Errorf("score: could not score sequences: %v", err)
	}
	return logits, nil
}

// Generate samples action sequences from prompt states. The completion
// length is bounded by min(MaxNewTokens, MaxSequenceLength - prompt
// length); a BudgetError is returned, before any model call, when that
// bound is not positive. Each sequence in the batch stops early once
// it produces the end-of-sequence token, after which its remaining
// positions are filled with the pad token so that the batch stays
// rectangular (completions are a contiguous suffix, so this fill is
// necessarily on the right even though prompts are left-padded).
//
// Generate returns the generated actions with shape (batch, actionLen)
// and the full sequences [states, actions] with shape
// (batch, promptLen + actionLen).
func (p *PolicyModel) Generate(states,
	stateMask *tensor.Dense) (*tensor.Dense, *tensor.Dense, error) {
	if err := model.CheckShapes("generate", states, stateMask); err != nil {
		return nil, nil, err
	}

	batch := states.Shape()[0]
	promptLen := states.Shape()[1]

	maxGenerationPossible := p.config.MaxSequenceLength - promptLen
	maxCompletion := intutils.Min(p.config.MaxNewTokens,
		maxGenerationPossible)
	if maxCompletion <= 0 {
		return nil, nil, &BudgetError{
			Op:                "generate",
			PromptLength:      promptLen,
			MaxSequenceLength: p.config.MaxSequenceLength,
			MaxNewTokens:      p.config.MaxNewTokens,
		}
	}

	padID := p.codec.Config().PadTokenID
	eosID := p.codec.Config().EOSTokenID

	// Growable per-row working copies of the prompt ids and mask
	ids := make([][]int, batch)
	masks := make([][]int, batch)
	for b := 0; b < batch; b++ {
		ids[b] = make([]int, promptLen, promptLen+maxCompletion)
		masks[b] = make([]int, promptLen, promptLen+maxCompletion)
		for t := 0; t < promptLen; t++ {
			id, err := tensorutils.IntAt(states, b, t)
			if err != nil {
				return nil, nil, fmt.Errorf("generate: %v", err)
			}
			real, err := tensorutils.IntAt(stateMask, b, t)
			if err != nil {
				return nil, nil, fmt.Errorf("generate: %v", err)
			}
			ids[b][t] = id
			masks[b][t] = real
		}
	}

	finished := make([]bool, batch)
	vocab := p.model.VocabSize()
	for step := 0; step < maxCompletion; step++ {
		cur, curMask := rowTensors(ids, masks)
		logits, err := p.model.Logits(cur, curMask)
		if err != nil {
			return nil, nil, fmt.Errorf("generate: could not score "+
				"sequences at step %d: %v", step, err)
		}

		// The next token for every row is predicted by the logits at
		// the current final position
		position := promptLen + step - 1

		done := true
		for b := 0; b < batch; b++ {
			if finished[b] {
				ids[b] = append(ids[b], padID)
				masks[b] = append(masks[b], 0)
				continue
			}

			row := make([]float64, vocab)
			for v := 0; v < vocab; v++ {
				logit, err := tensorutils.Float64At(logits, b, position, v)
				if err != nil {
					return nil, nil, fmt.Errorf("generate: %v", err)
				}
				row[v] = logit
			}

			tok := p.sampler.Sample(row)
			ids[b] = append(ids[b], tok)
			masks[b] = append(masks[b], 1)
			if tok == eosID {
				finished[b] = true
			} else {
				done = false
			}
		}
		if done {
			break
		}
	}

	actionLen := len(ids[0]) - promptLen
	seqData := make([]int, 0, batch*(promptLen+actionLen))
	actData := make([]int, 0, batch*actionLen)
	for b := 0; b < batch; b++ {
		seqData = append(seqData, ids[b]...)
		actData = append(actData, ids[b][promptLen:]...)
	}

	actions := tensor.New(
		tensor.WithShape(batch, actionLen),
		tensor.WithBacking(actData),
	)
	sequence := tensor.New(
		tensor.WithShape(batch, promptLen+actionLen),
		tensor.WithBacking(seqData),
	)
	return actions, sequence, nil
}

// rowTensors flattens per-row id and mask buffers into (batch, length)
// tensors
func rowTensors(ids, masks [][]int) (*tensor.Dense, *tensor.Dense) {
	batch := len(ids)
	length := len(ids[0])

	idData := make([]int, 0, batch*length)
	maskData := make([]int, 0, batch*length)
	for b := 0; b < batch; b++ {
		idData = append(idData, ids[b]...)
		maskData = append(maskData, masks[b]...)
	}

	idTensor := tensor.New(
		tensor.WithShape(batch, length),
		tensor.WithBacking(idData),
	)
	maskTensor := tensor.New(
		tensor.WithShape(batch, length),
		tensor.WithBacking(maskData),
	)
	return idTensor, maskTensor
}
