package contracts

import "errors"

// Sentinel errors shared by repositories and services.
// API handlers map them onto HTTP status codes.
var (
	ErrNotFound           = errors.New("not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrBidNotPending      = errors.New("bid is not pending")
	ErrTooManyAttempts    = errors.New("too many attempts")
	ErrInvalidInput       = errors.New("invalid input")
)
