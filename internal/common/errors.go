// Package common defines shared constants and sentinel errors used across
// client and server layers of FileKeeper. Callers should use errors.Is to
// match these values; wrapped messages keep the underlying SDK text.
package common

import "errors"

var (
	// File action taxonomy.
	ErrStorageWrite   = errors.New("storage write error")
	ErrStorageDelete  = errors.New("storage delete error")
	ErrDatabaseWrite  = errors.New("database write error")
	ErrMetadataUpdate = errors.New("metadata update error")
	ErrList           = errors.New("list error")
	ErrNotFound       = errors.New("not found")

	// Request validation.
	ErrValidation = errors.New("validation error")

	// Service-level errors.
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
