package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound      = errors.New("record not found")
	ErrConflict      = errors.New("video already belongs to another participant or competition")
	ErrInvalidRecord = errors.New("invalid record")
)
