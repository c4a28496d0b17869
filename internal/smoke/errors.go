package smoke

import "errors"

// Sentinel kinds for smoke run failures.
var (
	ErrUnhealthy   = errors.New("service is not healthy")
	ErrCheckFailed = errors.New("checks failed")
)
