package domain

import "errors"

// ErrInvalidInput is returned when a loan request violates its invariants.
// Callers get it wrapped with the offending field; match with errors.Is.
var ErrInvalidInput = errors.New("invalid input")
