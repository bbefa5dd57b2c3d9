package rollout

import "errors"

// BufferError implements errors unique to a rollout experience buffer.
type BufferError struct {
	Op  string
	Err error
}

// Error satisfies the error interface
func (e *BufferError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

var errEmptyBuffer = errors.New("buffer empty")

var errFullBuffer = errors.New("buffer full")

// IsEmptyBuffer returns whether or not an error reports that a rollout
// buffer holds no experiences to drain.
func IsEmptyBuffer(err error) bool {
	if bufErr, ok := err.(*BufferError); ok {
		err = bufErr.Err
	}
	return err == errEmptyBuffer
}

// IsFullBuffer returns whether or not an error reports that a rollout
// buffer has reached its capacity.
func IsFullBuffer(err error) bool {
	if bufErr, ok := err.(*BufferError); ok {
		err = bufErr.Err
	}
	return err == errFullBuffer
}
