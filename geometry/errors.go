package geometry

import "errors"

var (
	// ErrNoDeployPoints indicates no usable deploy point or cluster exists.
	ErrNoDeployPoints = errors.New("geometry: no usable deploy points")
)
