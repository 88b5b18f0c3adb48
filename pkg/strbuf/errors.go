package strbuf

import "errors"

// Legacy index sentinels, returned next to the matching error by index-returning operations.
const (
	NotFound    = -1
	GeneralFail = -2
)

var (
	ErrNotFound         = errors.New("strbuf: not found")
	ErrAllocationFailed = errors.New("strbuf: allocation failed")
	ErrOutOfBounds      = errors.New("strbuf: index out of bounds")
	ErrTooSmall         = errors.New("strbuf: size too small for content")
	ErrInvalidArgument  = errors.New("strbuf: invalid argument")
	ErrReleased         = errors.New("strbuf: buffer released")
)
