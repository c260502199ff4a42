package tiers

import "errors"

// Sentinel error kinds for allocation. Callers branch with errors.Is.
var (
	ErrInvalidConfiguration = errors.New("invalid tier configuration")
	ErrDuplicateSubmission  = errors.New("duplicate submission")
	ErrInvalidSubmission    = errors.New("invalid submission")
	ErrInvariantViolation   = errors.New("allocation invariant violated")
)
