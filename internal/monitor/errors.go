package monitor

import "errors"

// ErrInvalidArgument is returned by New when threshold is not positive.
var ErrInvalidArgument = errors.New("monitor: invalid argument")
