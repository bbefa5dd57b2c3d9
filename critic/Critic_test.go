package critic

import (
	"testing"

	"gorgonia.org/tensor"

	"github.com/PoJason/open-chatgpt/codec"
	"github.com/PoJason/open-chatgpt/model"
	"github.com/PoJason/open-chatgpt/network"
)

func testValueModel(t *testing.T) *ValueModel {
	t.Helper()

	c, err := codec.NewRune("abcdefgh")
	if err != nil {
		t.Fatalf("could not create codec: %v", err)
	}
	lm, err := network.NewLinearLM(c.VocabSize(), 6, 37)
	if err != nil {
		t.Fatalf("could not create encoder: %v", err)
	}

	config := model.Config{
		Temperature:         0.7,
		MaxSequenceLength:   20,
		MaxNewTokens:        8,
		ValueHeadHiddenSize: 12,
	}
	v, err := New(lm, c, config, 37)
	if err != nil {
		t.Fatalf("could not create critic: %v", err)
	}
	return v
}

func sequences(t *testing.T) (*tensor.Dense, *tensor.Dense) {
	t.Helper()
	ids := tensor.New(
		tensor.WithShape(2, 4),
		tensor.WithBacking([]int{0, 1, 2, 3, 4, 5, 6, 7}),
	)
	mask := tensor.New(
		tensor.WithShape(2, 4),
		tensor.WithBacking([]int{0, 1, 1, 1, 1, 1, 1, 1}),
	)
	return ids, mask
}

func TestScoreShape(t *testing.T) {
	v := testValueModel(t)
	ids, mask := sequences(t)

	values, err := v.Score(ids, mask)
	if err != nil {
		t.Fatalf("could not score: %v", err)
	}
	if !values.Shape().Eq([]int{2, 4}) {
		t.Errorf("wrong value shape\n\twant(2, 4)\n\thave(%v)",
			values.Shape())
	}
}

func TestFinalValueIsLastPosition(t *testing.T) {
	v := testValueModel(t)
	ids, mask := sequences(t)

	values, err := v.Score(ids, mask)
	if err != nil {
		t.Fatalf("could not score: %v", err)
	}
	final, err := v.FinalValue(ids, mask)
	if err != nil {
		t.Fatalf("could not compute final value: %v", err)
	}

	if !final.Shape().Eq([]int{2}) {
		t.Fatalf("wrong final value shape\n\twant(2)\n\thave(%v)",
			final.Shape())
	}
	for b := 0; b < 2; b++ {
		want, _ := values.At(b, 3)
		have, _ := final.At(b)
		if want.(float64) != have.(float64) {
			t.Errorf("final value of row %v is %v, want last position "+
				"value %v", b, have, want)
		}
	}
}

func TestScoreShapeMismatch(t *testing.T) {
	v := testValueModel(t)
	ids, _ := sequences(t)

	badMask := tensor.New(
		tensor.WithShape(2, 3),
		tensor.WithBacking(make([]int, 6)),
	)
	if _, err := v.Score(ids, badMask); !model.IsShapeMismatch(err) {
		t.Errorf("expected shape mismatch error, got %v", err)
	}
	if _, err := v.FinalValue(ids, badMask); err == nil {
		t.Error("expected error for mismatched mask")
	}
}
