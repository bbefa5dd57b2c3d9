package codec

import "testing"

func TestNewConfigFallback(t *testing.T) {
	config, err := NewConfig("", -1)
	if err != nil {
		t.Fatalf("could not resolve fallback config: %v", err)
	}

	if config.EOSToken != FallbackEOSToken ||
		config.EOSTokenID != FallbackEOSTokenID {
		t.Errorf("fallback eos not synthesized\n\twant(%v, %v)"+
			"\n\thave(%v, %v)", FallbackEOSToken, FallbackEOSTokenID,
			config.EOSToken, config.EOSTokenID)
	}
	if config.PadToken != config.EOSToken ||
		config.PadTokenID != config.EOSTokenID {
		t.Error("pad token does not reuse the eos token")
	}
	if config.PaddingSide != Left || config.TruncationSide != Left {
		t.Error("padding convention is not left-sided")
	}
}

func TestNewConfigKeepsVocabularyEOS(t *testing.T) {
	config, err := NewConfig("<eos>", 5)
	if err != nil {
		t.Fatalf("could not resolve config: %v", err)
	}
	if config.EOSToken != "<eos>" || config.EOSTokenID != 5 {
		t.Errorf("vocabulary eos not kept: have (%v, %v)", config.EOSToken,
			config.EOSTokenID)
	}
	if config.PadTokenID != 5 {
		t.Errorf("pad token id %v does not reuse eos id 5", config.PadTokenID)
	}
}

func TestNewConfigRejectsEOSWithoutID(t *testing.T) {
	_, err := NewConfig("<eos>", -1)
	if err == nil {
		t.Fatal("expected configuration error for eos token without id")
	}
	if !IsConfiguration(err) {
		t.Errorf("expected configuration error, got %T", err)
	}
}

func TestRuneEncodeDecode(t *testing.T) {
	c, err := NewRune("abc ")
	if err != nil {
		t.Fatalf("could not create codec: %v", err)
	}

	if c.VocabSize() != 5 { // four runes plus the pad/eos token
		t.Errorf("wrong vocab size\n\twant(5)\n\thave(%v)", c.VocabSize())
	}

	ids := c.Encode("abc cab")
	if len(ids) != 7 {
		t.Fatalf("wrong number of tokens\n\twant(7)\n\thave(%v)", len(ids))
	}
	for _, id := range ids {
		if id <= 0 || id >= c.VocabSize() {
			t.Errorf("token id %v outside (0, %v)", id, c.VocabSize())
		}
	}

	if decoded := c.Decode(ids); decoded != "abc cab" {
		t.Errorf("round trip failed\n\twant(abc cab)\n\thave(%v)", decoded)
	}

	// Runes outside the alphabet are dropped
	if got := c.Decode(c.Encode("a!b?c")); got != "abc" {
		t.Errorf("unknown runes not dropped: %q", got)
	}
}

func TestEncodeBatchLeftPadding(t *testing.T) {
	c, err := NewRune("abcdef")
	if err != nil {
		t.Fatalf("could not create codec: %v", err)
	}

	ids, mask, err := EncodeBatch(c, []string{"abcdef", "ab"}, 10)
	if err != nil {
		t.Fatalf("could not encode batch: %v", err)
	}

	if !ids.Shape().Eq([]int{2, 6}) || !mask.Shape().Eq([]int{2, 6}) {
		t.Fatalf("wrong batch shape\n\twant(2, 6)\n\thave(%v, %v)",
			ids.Shape(), mask.Shape())
	}

	padID := c.Config().PadTokenID
	for j := 0; j < 6; j++ {
		tok, _ := ids.At(1, j)
		real, _ := mask.At(1, j)
		if j < 4 {
			// Padding occupies the leading positions
			if tok.(int) != padID || real.(int) != 0 {
				t.Errorf("position %v should be padding (token %v, mask %v)",
					j, tok, real)
			}
		} else if tok.(int) == padID || real.(int) != 1 {
			t.Errorf("position %v should be content (token %v, mask %v)",
				j, tok, real)
		}
	}
}

func TestEncodeBatchLeftTruncation(t *testing.T) {
	c, err := NewRune("abcdef")
	if err != nil {
		t.Fatalf("could not create codec: %v", err)
	}

	ids, _, err := EncodeBatch(c, []string{"abcdef"}, 3)
	if err != nil {
		t.Fatalf("could not encode batch: %v", err)
	}
	if !ids.Shape().Eq([]int{1, 3}) {
		t.Fatalf("wrong truncated shape\n\twant(1, 3)\n\thave(%v)",
			ids.Shape())
	}

	// Left truncation keeps the suffix
	got := make([]int, 3)
	for j := range got {
		tok, _ := ids.At(0, j)
		got[j] = tok.(int)
	}
	if c.Decode(got) != "def" {
		t.Errorf("left truncation kept %q, want %q", c.Decode(got), "def")
	}
}

func TestEncodeBatchRejectsEmpty(t *testing.T) {
	c, err := NewRune("abc")
	if err != nil {
		t.Fatalf("could not create codec: %v", err)
	}

	if _, _, err := EncodeBatch(c, nil, 10); err == nil {
		t.Error("expected error for empty batch")
	}
	if _, _, err := EncodeBatch(c, []string{"xyz"}, 10); err == nil {
		t.Error("expected error for prompt encoding to no tokens")
	}
}
