package service

import "errors"

// Sentinel kinds for catalog errors.
var (
	ErrNotFound      = errors.New("no cats found")
	ErrInvalidOffset = errors.New("offset must be a non-negative integer")
	ErrNoSource      = errors.New("catalog has no cat source")
)
