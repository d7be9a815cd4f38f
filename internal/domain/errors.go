package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so the protocol layer can map to tool error results without leaking infrastructure details.
var (
	ErrNotFound         = errors.New("not found")
	ErrBadRequest       = errors.New("bad request")
	ErrInvalidOrExpired = errors.New("invalid or expired code")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrDispatchFailed   = errors.New("dispatch failed")
)
