package seeder

import "errors"

// Error constants.
var (
	ErrInvalidConfig   = errors.New("invalid seeder config")
	ErrUnexpectedReply = errors.New("unexpected response")
	ErrIngestTimeout   = errors.New("timed out waiting for ingestion")
	ErrMismatch        = errors.New("leaderboard mismatch")
)
