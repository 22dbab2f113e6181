package deploy

import "errors"

var (
	// ErrStuckUnit indicates a recount showed no unit consumed despite placements.
	ErrStuckUnit = errors.New("deploy: unit count unchanged after placement")
	// ErrPartialPlacement indicates fewer units were consumed than attempted.
	ErrPartialPlacement = errors.New("deploy: fewer units consumed than attempted")
)
