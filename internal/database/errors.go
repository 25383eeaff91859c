package database

import "errors"

var (
	// ErrNotConfigured indicates the MongoDB endpoint is missing from configuration.
	// Distinct from ErrUnavailable so callers can surface a configuration
	// problem instead of a reachability one.
	ErrNotConfigured = errors.New("database endpoint not configured")

	// ErrUnavailable indicates the database could not be reached
	ErrUnavailable = errors.New("database unavailable")

	// ErrUserNotFound indicates no user matches the given Clerk id
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateUser indicates a user with the given Clerk id already exists
	ErrDuplicateUser = errors.New("user already exists")
)
