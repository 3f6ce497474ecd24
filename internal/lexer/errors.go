package lexer

import "errors"

// Errors reported by Engine.Run. Each aborts the scan; they indicate a bug
// in a lexer implementation rather than a problem with the input.
var (
	ErrInvalidSpan       = errors.New("token ends before it starts")
	ErrTokenOverlap      = errors.New("token overlaps previously emitted text")
	ErrBoundaryOverrun   = errors.New("lexer read past its region")
	ErrInvalidBoundary   = errors.New("invalid delegation boundary")
	ErrRunawayDelegation = errors.New("delegation nested too deeply")
	ErrNoProgress        = errors.New("lexer stopped making progress")
)
