package codec

import "errors"

// ConfigurationError implements errors arising when a codec's padding
// convention cannot be established.
type ConfigurationError struct {
	Op  string
	Err error
}

// Error satisfies the error interface
func (e *ConfigurationError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// ErrNoEndOfSequence reports that a vocabulary defines no
// end-of-sequence token and no fallback could be synthesized.
var ErrNoEndOfSequence = errors.New("no end-of-sequence token can be " +
	"established")

// ErrPadTokenMismatch reports that two codecs which must share a
// padding convention disagree on the pad token id.
var ErrPadTokenMismatch = errors.New("pad token ids differ between codecs")

// IsConfiguration returns whether or not an error reports that a codec
// could not be configured with a consistent pad/end-of-sequence token.
func IsConfiguration(err error) bool {
	_, ok := err.(*ConfigurationError)
	return ok
}
