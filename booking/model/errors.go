package model

import "errors"

// BackendError is the single domain error kind: any store-level failure
// (connection, read, write, timeout) is wrapped into one of these with the
// operation that failed and the underlying store error.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return "could not " + e.Op + ": " + e.Err.Error()
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// ErrRoomTaken is returned by ClaimFreeRoom when the free-room row disappeared
// between the read and the conditional delete.
var ErrRoomTaken = errors.New("room is no longer free")
