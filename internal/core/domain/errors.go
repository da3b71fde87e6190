package domain

import "errors"

var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrInvalidState          = errors.New("order is not in an active tracking state")
	ErrMalformedInput        = errors.New("malformed input")
	ErrStaleLocation         = errors.New("location reading is older than the current one")
	ErrDriverAlreadyAssigned = errors.New("order already has a driver assigned")
	ErrForbidden             = errors.New("access forbidden")

	// ErrConflict is returned by the store when a conditional update lost a race.
	ErrConflict = errors.New("order was modified concurrently")

	// ErrDispatchFailure marks a notification that could not be handed off.
	// It never reaches the caller of the triggering operation.
	ErrDispatchFailure = errors.New("notification dispatch failed")
)
