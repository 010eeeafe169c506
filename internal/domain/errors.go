package domain

import "errors"

var (
	// ErrInvalidConfig wraps every .govaudit.yaml validation failure.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrUnknownMode is returned when a run is requested with an unrecognised mode.
	ErrUnknownMode = errors.New("unknown audit mode")
	// ErrDocumentNotFound is returned when a single document lookup misses.
	ErrDocumentNotFound = errors.New("document not found")
)
