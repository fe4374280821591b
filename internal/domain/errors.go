package domain

import "errors"

// Error taxonomy shared by every subsystem. Use cases wrap these with
// fmt.Errorf("...: %w", Err...) so the delivery layer can map them to
// HTTP statuses with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrAccessDenied = errors.New("access denied")
	ErrConflict     = errors.New("conflict")
)
