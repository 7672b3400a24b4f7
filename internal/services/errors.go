package services

import "errors"

var (
	// ErrUserNotFound is returned when no user has the requested username.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameTaken is returned when creating a user whose username exists.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrMalformedID is returned when an id cannot identify any record.
	ErrMalformedID = errors.New("malformed id")
)

// Lookup is the outcome of fetching a single record by id.
type Lookup int

const (
	// Found means the record exists and was returned.
	Found Lookup = iota
	// NotFound means the id is well formed but no record has it.
	NotFound
	// MalformedID means the id could never identify a record.
	MalformedID
)

func (l Lookup) String() string {
	switch l {
	case Found:
		return "found"
	case NotFound:
		return "not_found"
	case MalformedID:
		return "malformed_id"
	default:
		return "unknown"
	}
}
