// Package collector implements the acting phase of the outer training
// loop: repeatedly rolling out the actor-critic on fresh prompt
// batches and storing the resulting experiences in a rollout buffer.
// The policy-gradient update that consumes the buffer is not this
// package's concern.
package collector

import (
	"fmt"
	"time"

	"github.com/samuelfneumann/progressbar"
	"gorgonia.org/tensor"

	"github.com/PoJason/open-chatgpt/actorcritic"
	"github.com/PoJason/open-chatgpt/buffer/rollout"
)

// PromptSource produces batches of environment states (prompts) for
// rollouts: a (batch, length) token id tensor and its attention mask.
type PromptSource interface {
	Next() (*tensor.Dense, *tensor.Dense, error)
}

// Collector runs rollouts from a PromptSource into a rollout Buffer.
type Collector struct {
	actorCritic  *actorcritic.ActorCritic
	source       PromptSource
	buffer       *rollout.Buffer
	showProgress bool
}

// New creates and returns a new Collector. If showProgress is true,
// Run displays a progress bar while collecting.
func New(a *actorcritic.ActorCritic, source PromptSource,
	buffer *rollout.Buffer, showProgress bool) (*Collector, error) {
	if a == nil {
		return nil, fmt.Errorf("new: no actor-critic given")
	}
	if source == nil {
		return nil, fmt.Errorf("new: no prompt source given")
	}
	if buffer == nil {
		return nil, fmt.Errorf("new: no buffer given")
	}

	return &Collector{
		actorCritic:  a,
		source:       source,
		buffer:       buffer,
		showProgress: showProgress,
	}, nil
}

// Run performs the given number of rollouts, storing each experience
// in the Collector's buffer. Run stops at the first failed rollout;
// whether to shorten prompts and retry after a budget exhaustion is
// the caller's decision.
func (c *Collector) Run(rollouts int) error {
	var bar *progressbar.ProgressBar
	if c.showProgress {
		bar = progressbar.New(50, rollouts, time.Second, true)
		bar.Display()
		defer bar.Close()
	}

	for i := 0; i < rollouts; i++ {
		states, stateMask, err := c.source.Next()
		if err != nil {
			return fmt.Errorf("run: could not get prompt batch %d: %v", i,
				err)
		}

		experience, err := c.actorCritic.Rollout(states, stateMask)
		if err != nil {
			return err
		}

		// Typed rollout and buffer errors pass through untouched so
		// callers can distinguish budget exhaustion from a full buffer
		if err := c.buffer.Store(experience); err != nil {
			return err
		}
		if bar != nil {
			bar.Increment()
		}
	}
	return nil
}
