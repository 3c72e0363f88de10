// internal/game/errors.go
package game

import "errors"

// Errors surfaced to the offending connection as an error-msg event. None of
// them disturb the room's state for other players.
var (
	ErrRoomNotFound    = errors.New("room does not exist")
	ErrNotHost         = errors.New("only the host can start the game")
	ErrNotDrawer       = errors.New("only the current drawer can do that")
	ErrInvalidUsername = errors.New("invalid username")
)
