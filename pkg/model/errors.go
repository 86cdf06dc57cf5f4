package model

import "errors"

var (
	// ErrInvalidArgument marks malformed input: a non-positive terminal, an
	// empty username, or a login/logout pair that cannot form a session.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound marks a query with no matching user or session.
	ErrNotFound = errors.New("not found")
)
