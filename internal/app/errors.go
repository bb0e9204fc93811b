package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotStarted is returned when batch scoring is requested before Start.
	ErrNotStarted = errors.New("service not started")
	// ErrInvalidBatch is returned for an empty or oversized batch.
	ErrInvalidBatch = errors.New("invalid batch")
	// ErrBatchTooLarge is returned when a batch exceeds the configured maximum.
	ErrBatchTooLarge = fmt.Errorf("%w: too many records", ErrInvalidBatch)
	// ErrBackpressure is returned when the job queue refuses work.
	ErrBackpressure = errors.New("job queue is full")
)
