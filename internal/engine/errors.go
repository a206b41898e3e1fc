package engine

import "errors"

// Error taxonomy. Policy rejections are surfaced verbatim and never retried;
// ErrInsufficientPoints is recovered inside Enqueue and not surfaced to end
// users; ErrInvariantViolation halts the channel's write path.
var (
	ErrNotFound           = errors.New("not found")
	ErrCapacityExceeded   = errors.New("capacity exceeded")
	ErrQueueClosed        = errors.New("queue closed")
	ErrPriorityOnly       = errors.New("queue accepts priority requests only")
	ErrBumpLimitExceeded  = errors.New("bump limit exceeded")
	ErrInsufficientPoints = errors.New("insufficient priority points")
	ErrAlreadyPlayed      = errors.New("request already played")
	ErrNoMatchingPlaylist = errors.New("no matching playlist")
	ErrInvariantViolation = errors.New("invariant violation")
	ErrChannelHalted      = errors.New("channel write path halted")
)
