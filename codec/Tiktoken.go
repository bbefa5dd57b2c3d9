package codec

import (
	"fmt"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// Available tiktoken encodings
const (
	CL100KBase string = "cl100k_base"
	P50KBase   string = "p50k_base"
	R50KBase   string = "r50k_base"
)

// Base vocabulary sizes of the supported tiktoken encodings, excluding
// special tokens (EncodeOrdinary never produces special tokens).
var tiktokenVocabSizes = map[string]int{
	CL100KBase: 100256,
	P50KBase:   50281,
	R50KBase:   50257,
}

// Tiktoken implements a byte-pair-encoding Codec backed by a tiktoken
// encoding. The underlying BPE id space exposes no end-of-sequence
// token through ordinary encoding, so the fallback end-of-text token
// is synthesized at id 0 and all BPE ids are shifted up by one to make
// room for it.
type Tiktoken struct {
	config    Config
	enc       *tiktoken.Tiktoken
	vocabSize int
}

// NewTiktoken returns a new codec backed by the named tiktoken
// encoding.
func NewTiktoken(encoding string) (*Tiktoken, error) {
	size, ok := tiktokenVocabSizes[encoding]
	if !ok {
		return nil, fmt.Errorf("newtiktoken: unsupported encoding %q",
			encoding)
	}

	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("newtiktoken: could not load encoding %q: %v",
			encoding, err)
	}

	config, err := NewConfig("", -1)
	if err != nil {
		return nil, err
	}

	return &Tiktoken{
		config:    config,
		enc:       enc,
		vocabSize: size + 1,
	}, nil
}

// Encode converts text to shifted BPE token ids.
func (t *Tiktoken) Encode(text string) []int {
	raw := t.enc.EncodeOrdinary(text)
	ids := make([]int, len(raw))
	for i, id := range raw {
		ids[i] = id + 1
	}
	return ids
}

// Decode converts shifted BPE token ids back to text, skipping the
// pad/eos token.
func (t *Tiktoken) Decode(ids []int) string {
	raw := make([]int, 0, len(ids))
	for _, id := range ids {
		if id <= 0 || id >= t.vocabSize {
			continue
		}
		raw = append(raw, id-1)
	}
	return t.enc.Decode(raw)
}

// VocabSize returns the shifted vocabulary size, including the
// synthesized pad/eos token.
func (t *Tiktoken) VocabSize() int {
	return t.vocabSize
}

// Config returns the codec's resolved padding convention.
func (t *Tiktoken) Config() Config {
	return t.config
}
