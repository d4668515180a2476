package services

import "errors"

var (
	// ErrSelfAward is returned when a user tries to give bananas to
	// themselves. The sender gets an ephemeral rejection; no state changes.
	ErrSelfAward = errors.New("self-award is not allowed")

	// ErrMalformedAward is returned when the mention event is missing a
	// sender or recipient.
	ErrMalformedAward = errors.New("malformed award event")

	// ErrInvalidCredentials is returned on a failed admin login.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
