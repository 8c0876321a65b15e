package models

import "errors"

// Domain error kinds. Services return these (optionally wrapped with %w) and the
// handler layer maps them onto HTTP statuses.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrSelfBooking       = errors.New("cannot request a booking on your own post")
	ErrDuplicatePending  = errors.New("a pending booking request already exists for this post")
	ErrInvalidTransition = errors.New("booking is no longer pending")
)
