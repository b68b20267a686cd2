package services

import "errors"

var (
	// ErrSessionNotFound is returned by a SessionStore when no record backs
	// the given id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrRoomNotFound marks an event referencing a room with no live roster.
	// Ephemeral events ignore it silently; persisted mutations log it.
	ErrRoomNotFound = errors.New("room not found")
)
