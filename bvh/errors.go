package bvh

import "errors"

// Error taxonomy returned by Build. Traverse never returns an error; an
// uninitialised or failed Accel simply reports no hit.
var (
	ErrInvalidInput      = errors.New("bvh: invalid input")
	ErrResourceExhausted = errors.New("bvh: resource exhausted")
	ErrUninitialised     = errors.New("bvh: accel not built")
)
