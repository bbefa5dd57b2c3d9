// Package actorcritic composes a policy model and a value model over a
// shared tokenized-sequence input space. One joint scoring pass yields
// the policy logits and value estimates an advantage-based
// policy-gradient update needs; one rollout pass samples fresh action
// sequences from prompt states together with a consistent snapshot of
// those logits and values.
package actorcritic

import (
	"fmt"
	"sync"

	"gorgonia.org/tensor"

	"github.com/PoJason/open-chatgpt/actor"
	"github.com/PoJason/open-chatgpt/codec"
	"github.com/PoJason/open-chatgpt/critic"
	"github.com/PoJason/open-chatgpt/model"
	"github.com/PoJason/open-chatgpt/utils/tensorutils"
)

// ActorCritic composes an already-constructed PolicyModel and
// ValueModel. It holds no state of its own between calls; both
// sub-models may be shared with other users, and external
// synchronization is assumed if their weights are mutated concurrently
// with scoring.
type ActorCritic struct {
	actor  *actor.PolicyModel
	critic *critic.ValueModel
}

// Experience is the result of a single rollout: the sampled actions,
// the policy logits and value estimates at every action position, and
// the full sequence with its attention mask. All tensors are one
// consistent snapshot; replaying Sequence, SequenceMask, and
// ActionLength through JointScore reproduces ActionLogits and Values
// under unchanged weights.
type Experience struct {
	Actions      *tensor.Dense // (batch, actionLen) token ids
	ActionLogits *tensor.Dense // (batch, actionLen, vocab)
	Values       *tensor.Dense // (batch, actionLen)
	Sequence     *tensor.Dense // (batch, promptLen + actionLen) token ids
	SequenceMask *tensor.Dense // same shape as Sequence, 1 at non-pad
}

// ActionLength returns the number of trailing action positions in the
// experience's sequences.
func (e *Experience) ActionLength() int {
	return e.Actions.Shape()[1]
}

// New returns a new ActorCritic composing a policy and a value model.
// Both models must agree on the pad token id, since rollout derives
// the sequence mask from the actor's pad token and feeds it to both
// models; a disagreement fails construction with a
// codec.ConfigurationError.
func New(a *actor.PolicyModel, c *critic.ValueModel) (*ActorCritic, error) {
	if a == nil {
		return nil, fmt.Errorf("new: no actor given")
	}
	if c == nil {
		return nil, fmt.Errorf("new: no critic given")
	}
	if a.PadTokenID() != c.PadTokenID() {
		return nil, &codec.ConfigurationError{
			Op:  "new",
			Err: codec.ErrPadTokenMismatch,
		}
	}

	return &ActorCritic{actor: a, critic: c}, nil
}

// JointScore scores full sequences with both models in one pass each
// and returns the policy logits (batch, actionLen, vocab) and value
// estimates (batch, actionLen) at the trailing actionLen positions.
// The actor's single teacher-forced pass yields logits for every
// action token simultaneously; per-step rescoring never happens. The
// two passes have no data dependency and run concurrently.
//
// actionLen must satisfy 0 < actionLen <= sequence length. Beyond that
// bounds check, alignment between actionLen and the boundary at which
// the sequences were actually generated is the caller's
// responsibility: always pass the action length of the Experience the
// sequences came from.
func (a *ActorCritic) JointScore(sequences, sequencesMask *tensor.Dense,
	actionLen int) (*tensor.Dense, *tensor.Dense, error) {
	if err := model.CheckShapes("jointscore", sequences,
		sequencesMask); err != nil {
		return nil, nil, err
	}

	length := sequences.Shape()[1]
	if actionLen <= 0 || actionLen > length {
		return nil, nil, fmt.Errorf("jointscore: action length %d outside "+
			"(0, %d]", actionLen, length)
	}

	var (
		wg         sync.WaitGroup
		logitsFull *tensor.Dense
		valuesFull *tensor.Dense
		actorErr   error
		criticErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		logitsFull, actorErr = a.actor.Score(sequences, sequencesMask)
	}()
	go func() {
		defer wg.Done()
		valuesFull, criticErr = a.critic.Score(sequences, sequencesMask)
	}()
	wg.Wait()
	if actorErr != nil {
		return nil, nil, fmt.Errorf("jointscore: actor: %v", actorErr)
	}
	if criticErr != nil {
		return nil, nil, fmt.Errorf("jointscore: critic: %v", criticErr)
	}

	trailing := tensorutils.Trailing(length, actionLen)

	logitsView, err := logitsFull.Slice(nil, trailing, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("jointscore: could not slice action "+
			"logits: %v", err)
	}
	actionLogits := logitsView.Materialize().(*tensor.Dense)

	valuesView, err := valuesFull.Slice(nil, trailing)
	if err != nil {
		return nil, nil, fmt.Errorf("jointscore: could not slice values: %v",
			err)
	}
	values := valuesView.Materialize().(*tensor.Dense)

	// Slicing squeezes size-1 dimensions, so restore the contracted
	// shapes explicitly for actionLen == 1
	batch := sequences.Shape()[0]
	vocab := logitsFull.Shape()[2]
	if err := actionLogits.Reshape(batch, actionLen, vocab); err != nil {
		return nil, nil, fmt.Errorf("jointscore: could not reshape action "+
			"logits: %v", err)
	}
	if err := values.Reshape(batch, actionLen); err != nil {
		return nil, nil, fmt.Errorf("jointscore: could not reshape "+
			"values: %v", err)
	}

	return actionLogits, values, nil
}

// Rollout samples action sequences from prompt states with the actor,
// derives the sequence attention mask from pad-token presence, and
// scores the result with JointScore, returning one consistent
// Experience for the outer training loop. The derived mask is a plain
// constant tensor; it carries no gradient semantics.
func (a *ActorCritic) Rollout(states,
	stateMask *tensor.Dense) (*Experience, error) {
	actions, sequence, err := a.actor.Generate(states, stateMask)
	if err != nil {
		return nil, err
	}

	sequenceMask, err := maskOf(sequence, a.actor.PadTokenID())
	if err != nil {
		return nil, fmt.Errorf("rollout: %v", err)
	}

	actionLen := actions.Shape()[1]
	actionLogits, values, err := a.JointScore(sequence, sequenceMask,
		actionLen)
	if err != nil {
		return nil, fmt.Errorf("rollout: %v", err)
	}

	return &Experience{
		Actions:      actions,
		ActionLogits: actionLogits,
		Values:       values,
		Sequence:     sequence,
		SequenceMask: sequenceMask,
	}, nil
}

// maskOf derives an attention mask from a token sequence: 1 exactly
// where the token differs from the pad token id
func maskOf(sequence *tensor.Dense, padID int) (*tensor.Dense, error) {
	batch := sequence.Shape()[0]
	length := sequence.Shape()[1]

	data := make([]int, batch*length)
	for b := 0; b < batch; b++ {
		for t := 0; t < length; t++ {
			id, err := tensorutils.IntAt(sequence, b, t)
			if err != nil {
				return nil, err
			}
			if id != padID {
				data[b*length+t] = 1
			}
		}
	}

	return tensor.New(
		tensor.WithShape(batch, length),
		tensor.WithBacking(data),
	), nil
}
