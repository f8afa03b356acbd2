// Package common defines shared sentinel errors used across the document
// vault. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository / blob-store level errors.
	ErrNotFound    = errors.New("not found")
	ErrPersistence = errors.New("persistence error")

	// Validation errors.
	ErrInvalidArgument = errors.New("invalid argument")

	// Cipher / key errors.
	ErrConfiguration = errors.New("configuration error")
	ErrDecryption    = errors.New("cannot decrypt")

	// Auth errors (invalid or malformed token, insufficient rights).
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
)
