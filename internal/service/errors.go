package service

import "errors"

var (
	// ErrFetchFailure means the store could not be read
	ErrFetchFailure = errors.New("fetch failure")
	// ErrWriteFailure means the store rejected an insert or update
	ErrWriteFailure = errors.New("write failure")
	// ErrInvalidMaterialization means a command targeted a projection it cannot act on
	ErrInvalidMaterialization = errors.New("action not permitted on a projected entry")
	// ErrInFlight means a command for the same entry is still running
	ErrInFlight = errors.New("entry is already being processed")
	// ErrNotFound means the target entry does not exist
	ErrNotFound = errors.New("entry not found")
	// ErrConflict means the entry would repeat an already settled contract month
	ErrConflict = errors.New("contract month already recorded")
	// ErrInvalidInput means the request is malformed
	ErrInvalidInput = errors.New("invalid input")
)
