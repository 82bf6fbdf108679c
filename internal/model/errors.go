package model

import "errors"

// Sentinel errors shared across packages.
// Use errors.Is to check: errors.Is(err, model.ErrAborted)
var (
	ErrAborted = errors.New("drill: input aborted")
	ErrNoSets  = errors.New("drill: no question sets matched")
)
