package types

import "errors"

// Sentinel errors for the exercise tracker core. Handlers map these to
// transport status codes with errors.Is; anything else is treated as a
// store failure and surfaced as a generic server error.
var (
	ErrUserNotFound    = errors.New("this user does not exist — provide a valid user id.")
	ErrInvalidDate     = errors.New("date must be a valid yyyy-mm-dd calendar date")
	ErrInvalidDuration = errors.New("duration must be a positive whole number")
	ErrEmptyUsername   = errors.New("username must not be empty")
)
