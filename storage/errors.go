package storage

import "errors"

var (
	// ErrDataUnavailable means the source could not be opened or read.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrSchemaMismatch means a required column is absent from the source.
	ErrSchemaMismatch = errors.New("schema mismatch")
)
