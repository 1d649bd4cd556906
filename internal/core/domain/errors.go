package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrBackendTimeout     = errors.New("backend timeout")
	ErrIndexDrift         = errors.New("index member does not resolve to an entity")
	ErrUniqueConstraint   = errors.New("unique constraint conflict")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrCorruptRecord      = errors.New("corrupt record")
)
