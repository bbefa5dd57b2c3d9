package model

import (
	"fmt"

	"gorgonia.org/tensor"
)

// ShapeError implements errors arising when an attention mask's shape
// disagrees with its paired token id tensor. A ShapeError indicates a
// caller bug and is never retried internally.
type ShapeError struct {
	Op   string
	Want tensor.Shape
	Have tensor.Shape
}

// Error satisfies the error interface
func (e *ShapeError) Error() string {
	return fmt.Sprintf("%v: mask shape does not match token shape"+
		"\n\twant(%v)\n\thave(%v)", e.Op, e.Want, e.Have)
}

// IsShapeMismatch returns whether or not an error reports a mask/token
// shape disagreement.
func IsShapeMismatch(err error) bool {
	_, ok := err.(*ShapeError)
	return ok
}

// CheckShapes returns a ShapeError if the mask tensor's shape differs
// from the token id tensor's shape, or if either tensor is not a
// (batch, length) matrix.
func CheckShapes(op string, ids, mask *tensor.Dense) error {
	if ids == nil || mask == nil {
		return &ShapeError{Op: op}
	}
	if ids.Dims() != 2 || !ids.Shape().Eq(mask.Shape()) {
		return &ShapeError{Op: op, Want: ids.Shape(), Have: mask.Shape()}
	}
	return nil
}
