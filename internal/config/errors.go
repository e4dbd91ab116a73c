package config

import "errors"

// Configuration errors.
var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrUnknownHost   = errors.New("unknown speech host")
)
