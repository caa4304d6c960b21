package ackwatch

import "errors"

// Sentinel errors returned by the strategy.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrAborterRequired is returned when the abort action is nil.
	ErrAborterRequired = errors.New("aborter is required")

	// ErrAlreadyStarted is returned when Start is called on an already running strategy.
	ErrAlreadyStarted = errors.New("strategy already started")

	// ErrNotStarted is returned when Stop is called on a strategy that hasn't been started.
	ErrNotStarted = errors.New("strategy not started")
)
