package site

import "errors"

// Sentinel kinds for site errors.
var (
	ErrUnknownRoute = errors.New("unknown route")
	ErrMissingParam = errors.New("missing route parameter")
	ErrBadRoute     = errors.New("malformed route path")
	ErrRender       = errors.New("template render failed")
)
