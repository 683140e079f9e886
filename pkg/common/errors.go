package common

import "errors"

var (
	ErrUnknownDevice      = errors.New("unknown device")
	ErrMalformedPayload   = errors.New("malformed payload")
	ErrInvalidFilterInput = errors.New("invalid filter input")
	// ErrTransient is returned when the per-device alert transaction kept
	// conflicting after all retries.
	ErrTransient       = errors.New("transient failure, retry later")
	ErrUnknownBackup   = errors.New("unknown backup")
	ErrNothingToBackup = errors.New("no reports to back up")
)
