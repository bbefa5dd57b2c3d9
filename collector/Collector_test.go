package collector

import (
	"testing"

	"github.com/PoJason/open-chatgpt/actor"
	"github.com/PoJason/open-chatgpt/actorcritic"
	"github.com/PoJason/open-chatgpt/buffer/rollout"
	"github.com/PoJason/open-chatgpt/codec"
	"github.com/PoJason/open-chatgpt/critic"
	"github.com/PoJason/open-chatgpt/model"
	"github.com/PoJason/open-chatgpt/network"
)

func testActorCritic(t *testing.T) (*actorcritic.ActorCritic, codec.Codec) {
	t.Helper()

	c, err := codec.NewRune("abcdefghij ")
	if err != nil {
		t.Fatalf("could not create codec: %v", err)
	}
	lm, err := network.NewLinearLM(c.VocabSize(), 8, 512)
	if err != nil {
		t.Fatalf("could not create model: %v", err)
	}

	config := model.Config{
		Temperature:         0.9,
		MaxSequenceLength:   32,
		MaxNewTokens:        6,
		ValueHeadHiddenSize: 8,
	}
	policy, err := actor.New(lm, c, config, 3)
	if err != nil {
		t.Fatalf("could not create actor: %v", err)
	}
	value, err := critic.New(lm, c, config, 4)
	if err != nil {
		t.Fatalf("could not create critic: %v", err)
	}

	ac, err := actorcritic.New(policy, value)
	if err != nil {
		t.Fatalf("could not create actor-critic: %v", err)
	}
	return ac, c
}

func TestTextPromptsCycle(t *testing.T) {
	_, c := testActorCritic(t)

	prompts, err := NewTextPrompts(c, [][]string{
		{"abc", "de"},
		{"fghij"},
	}, 10)
	if err != nil {
		t.Fatalf("could not create prompt source: %v", err)
	}

	first, _, err := prompts.Next()
	if err != nil {
		t.Fatalf("could not get first batch: %v", err)
	}
	if first.Shape()[0] != 2 {
		t.Errorf("first batch size %v, want 2", first.Shape()[0])
	}

	second, _, err := prompts.Next()
	if err != nil {
		t.Fatalf("could not get second batch: %v", err)
	}
	if second.Shape()[0] != 1 {
		t.Errorf("second batch size %v, want 1", second.Shape()[0])
	}

	// Cycles back to the first batch
	third, _, err := prompts.Next()
	if err != nil {
		t.Fatalf("could not get third batch: %v", err)
	}
	if third.Shape()[0] != 2 {
		t.Errorf("third batch size %v, want 2", third.Shape()[0])
	}
}

func TestRunFillsBuffer(t *testing.T) {
	ac, c := testActorCritic(t)

	prompts, err := NewTextPrompts(c, [][]string{
		{"abc def", "ghij"},
	}, 16)
	if err != nil {
		t.Fatalf("could not create prompt source: %v", err)
	}

	buffer := rollout.New(4)
	coll, err := New(ac, prompts, buffer, false)
	if err != nil {
		t.Fatalf("could not create collector: %v", err)
	}

	if err := coll.Run(3); err != nil {
		t.Fatalf("could not collect rollouts: %v", err)
	}
	if buffer.Len() != 3 {
		t.Errorf("buffer holds %v experiences, want 3", buffer.Len())
	}

	experiences, err := buffer.Get()
	if err != nil {
		t.Fatalf("could not drain buffer: %v", err)
	}
	for i, e := range experiences {
		if e.ActionLength() <= 0 {
			t.Errorf("experience %v has no actions", i)
		}
	}
}

func TestRunStopsWhenBufferFull(t *testing.T) {
	ac, c := testActorCritic(t)

	prompts, err := NewTextPrompts(c, [][]string{{"abc"}}, 8)
	if err != nil {
		t.Fatalf("could not create prompt source: %v", err)
	}

	buffer := rollout.New(1)
	coll, err := New(ac, prompts, buffer, false)
	if err != nil {
		t.Fatalf("could not create collector: %v", err)
	}

	err = coll.Run(2)
	if err == nil {
		t.Fatal("expected error once buffer is full")
	}
	if !rollout.IsFullBuffer(err) {
		t.Errorf("expected full buffer error, got %v", err)
	}
}
