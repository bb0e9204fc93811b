package scoring

import (
	"errors"

	"github.com/okian/triage/internal/domain/model"
)

// Scoring errors.
var (
	// ErrInvalidInput is returned when a vital sign is missing, non-numeric
	// or negative. It is the same value as model.ErrInvalidInput.
	ErrInvalidInput = model.ErrInvalidInput
	ErrNilEngine    = errors.New("scoring engine is nil")
)
