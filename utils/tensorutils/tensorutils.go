// Package tensorutils provides utilities for working with tensors
package tensorutils

import (
	"fmt"

	"gorgonia.org/tensor"
)

// Slice implements a struct that can be used for slicing tensors.
//
// Given a tensor T and a Slice S, T.Slice(..., S, ...) is equivalent to
// T[..., S.start:S.end:S.step, ...]
type Slice struct {
	start, end, step int
}

// Start returns the start index for the tensor slice
func (s Slice) Start() int {
	return s.start
}

// End returns the ending index for the tensor slice
func (s Slice) End() int {
	return s.end
}

// Step returns the step for the tensor slice
func (s Slice) Step() int {
	return s.step
}

// NewSlice returns a new Slice that can be used to slice tensors
func NewSlice(start, stop, step int) Slice {
	return Slice{start, stop, step}
}

// Trailing returns a Slice selecting the last n indices of a dimension
// of size length.
func Trailing(length, n int) Slice {
	return Slice{length - n, length, 1}
}

// IntAt reads the int held at the given coordinates of a tensor.
func IntAt(t *tensor.Dense, coords ...int) (int, error) {
	raw, err := t.At(coords...)
	if err != nil {
		return 0, err
	}
	val, ok := raw.(int)
	if !ok {
		return 0, fmt.Errorf("intat: tensor holds %T, not int", raw)
	}
	return val, nil
}

// Float64At reads the float64 held at the given coordinates of a
// tensor.
func Float64At(t *tensor.Dense, coords ...int) (float64, error) {
	raw, err := t.At(coords...)
	if err != nil {
		return 0, err
	}
	val, ok := raw.(float64)
	if !ok {
		return 0, fmt.Errorf("float64at: tensor holds %T, not float64", raw)
	}
	return val, nil
}
