package services

import "errors"

var (
	// ErrNotFound maps to HTTP 404.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput maps to HTTP 400 and is returned before any write.
	ErrInvalidInput = errors.New("invalid input")
)
