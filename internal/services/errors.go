package services

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrSelfReference    = errors.New("self reference")
	ErrAuthorization    = errors.New("not authorized")
	ErrInsufficientData = errors.New("insufficient cycle data")
	ErrStorage          = errors.New("storage failure")
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrInvalidInput     = errors.New("invalid input")
)

var (
	ErrFriendRequestNotFound = fmt.Errorf("%w: friend request", ErrNotFound)
	ErrFriendshipNotFound    = fmt.Errorf("%w: friendship", ErrNotFound)
	ErrLogEntryNotFound      = fmt.Errorf("%w: log entry", ErrNotFound)
	ErrUserNotFound          = fmt.Errorf("%w: user", ErrNotFound)

	ErrDuplicateRequest = fmt.Errorf("%w: friend request already pending", ErrConflict)
	ErrAlreadyFriends   = fmt.Errorf("%w: already friends", ErrConflict)
	ErrLogDateTaken     = fmt.Errorf("%w: log already exists for date", ErrConflict)
	ErrUsernameTaken    = fmt.Errorf("%w: username taken", ErrConflict)

	ErrSelfRequest = fmt.Errorf("%w: cannot send a friend request to yourself", ErrSelfReference)

	ErrNotLogOwner = fmt.Errorf("%w: log entry belongs to another user", ErrAuthorization)

	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
)

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
