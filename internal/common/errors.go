// Package common defines shared constants and sentinel errors used across
// the ORCHA client. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Transport-level errors.
	ErrUnavailable = errors.New("server unavailable")

	// Auth errors.
	ErrUnauthorized = errors.New("unauthorized")

	// State machine errors.
	ErrInvalidTransition = errors.New("invalid transition")
	ErrNoDraft           = errors.New("no pending registration draft")

	// Validation errors.
	ErrInvalidJobTitle = errors.New("invalid job title")
)
