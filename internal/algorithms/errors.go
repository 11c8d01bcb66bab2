package algorithms

import "errors"

// Input validation failures reported by Filter. All of them are detected
// before any transform work starts.
var (
	ErrInvalidDimensions = errors.New("invalid image dimensions")
	ErrInvalidRadius     = errors.New("invalid filter radius")
	ErrInvalidMode       = errors.New("invalid filter mode")
)
