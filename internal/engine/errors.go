package engine

import "errors"

// ErrInvalidSide is returned by Revise when the replacement order carries
// an unknown side.
var ErrInvalidSide = errors.New("engine: invalid side")
