package codec

// Side denotes the side of a token sequence on which padding or
// truncation is applied.
type Side int

// Available sides for padding and truncation
const (
	Left Side = iota
	Right
)

// Fallback end-of-text token, synthesized when a vocabulary defines no
// end-of-sequence token of its own. The fallback is always reused as
// the pad token so that mask derivation from generated sequences
// (position is padding iff token == pad token id) stays well defined.
const (
	FallbackEOSToken   string = "</s>"
	FallbackEOSTokenID int    = 0
)

// Config holds a codec's resolved padding convention. It is built once
// at construction time and passed around immutably, so that an actor
// and a critic constructed from the same vocabulary can never drift
// apart on pad/end-of-sequence token ids.
type Config struct {
	EOSToken   string
	EOSTokenID int
	PadToken   string
	PadTokenID int

	PaddingSide    Side
	TruncationSide Side
}

// NewConfig resolves a padding convention for a vocabulary. The
// eosToken and eosTokenID arguments describe the vocabulary's own
// end-of-sequence token; an empty eosToken means the vocabulary has
// none, in which case the fallback end-of-text token is synthesized.
// In every case the end-of-sequence token is reused as the pad token,
// and both padding and truncation are applied on the left so that real
// content is always right-aligned.
func NewConfig(eosToken string, eosTokenID int) (Config, error) {
	if eosToken == "" {
		eosToken = FallbackEOSToken
		eosTokenID = FallbackEOSTokenID
	} else if eosTokenID < 0 {
		return Config{}, &ConfigurationError{
			Op:  "newconfig",
			Err: ErrNoEndOfSequence,
		}
	}

	return Config{
		EOSToken:       eosToken,
		EOSTokenID:     eosTokenID,
		PadToken:       eosToken,
		PadTokenID:     eosTokenID,
		PaddingSide:    Left,
		TruncationSide: Left,
	}, nil
}
