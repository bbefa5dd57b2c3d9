package codec

import "strings"

// Rune implements a character-level Codec over a fixed alphabet.
// Alphabet runes are assigned ids 1..N in order of first appearance;
// id 0 is the synthesized end-of-text token, reused as the pad token.
// Runes outside the alphabet are dropped on Encode.
type Rune struct {
	config   Config
	runeToID map[rune]int
	idToRune []rune
}

// NewRune returns a new character-level codec over the runes of
// alphabet.
func NewRune(alphabet string) (*Rune, error) {
	// The alphabet has no end-of-sequence token of its own, so the
	// fallback is synthesized at id 0.
	config, err := NewConfig("", -1)
	if err != nil {
		return nil, err
	}

	runeToID := make(map[rune]int)
	idToRune := []rune{0} // id 0 is reserved for the pad/eos token
	for _, r := range alphabet {
		if _, ok := runeToID[r]; ok {
			continue
		}
		runeToID[r] = len(idToRune)
		idToRune = append(idToRune, r)
	}
	if len(idToRune) == 1 {
		return nil, &ConfigurationError{
			Op:  "newrune",
			Err: ErrNoEndOfSequence,
		}
	}

	return &Rune{
		config:   config,
		runeToID: runeToID,
		idToRune: idToRune,
	}, nil
}

// Encode converts text to token ids, dropping runes outside the
// alphabet.
func (r *Rune) Encode(text string) []int {
	ids := make([]int, 0, len(text))
	for _, c := range text {
		if id, ok := r.runeToID[c]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// Decode converts token ids back to text, skipping pad/eos tokens and
// out-of-vocabulary ids.
func (r *Rune) Decode(ids []int) string {
	var text strings.Builder
	for _, id := range ids {
		if id <= 0 || id >= len(r.idToRune) {
			continue
		}
		text.WriteRune(r.idToRune[id])
	}
	return text.String()
}

// VocabSize returns the alphabet size plus the pad/eos token.
func (r *Rune) VocabSize() int {
	return len(r.idToRune)
}

// Config returns the codec's resolved padding convention.
func (r *Rune) Config() Config {
	return r.config
}
