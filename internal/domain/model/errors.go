package model

import "errors"

// ErrInvalidInput marks a request whose vital signs are missing,
// non-numeric or negative.
var ErrInvalidInput = errors.New("invalid input")
