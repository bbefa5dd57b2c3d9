// Package rollout implements a buffer for storing rollout experiences
// until the outer training loop drains them for an update. Sequences
// from different rollouts may have different widths, so experiences
// are stored whole rather than flattened into fixed-stride backing
// slices.
package rollout

import "github.com/PoJason/open-chatgpt/actorcritic"

// Buffer stores rollout experiences in insertion order up to a fixed
// capacity.
type Buffer struct {
	experiences []*actorcritic.Experience
	maxSize     int
}

// New creates and returns a new rollout Buffer holding at most size
// experiences.
func New(size int) *Buffer {
	return &Buffer{
		experiences: make([]*actorcritic.Experience, 0, size),
		maxSize:     size,
	}
}

// Store stores a single rollout experience in the Buffer.
func (b *Buffer) Store(e *actorcritic.Experience) error {
	if len(b.experiences) >= b.maxSize {
		return &BufferError{Op: "store", Err: errFullBuffer}
	}
	b.experiences = append(b.experiences, e)
	return nil
}

// Get drains and returns all experiences currently in the Buffer, in
// insertion order.
func (b *Buffer) Get() ([]*actorcritic.Experience, error) {
	if len(b.experiences) == 0 {
		return nil, &BufferError{Op: "get", Err: errEmptyBuffer}
	}

	experiences := b.experiences
	b.experiences = make([]*actorcritic.Experience, 0, b.maxSize)
	return experiences, nil
}

// Len returns the number of experiences currently in the Buffer.
func (b *Buffer) Len() int {
	return len(b.experiences)
}

// Cap returns the maximum number of experiences the Buffer can hold.
func (b *Buffer) Cap() int {
	return b.maxSize
}
