package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrUpstreamTransport = errors.New("upstream transport error")
	ErrDateParse         = errors.New("date parse error")
	// ErrCacheCorrupt marks a cached value that exists but cannot be decoded.
	ErrCacheCorrupt = errors.New("corrupt cache entry")
)
