// internal/lobby/errors.go
package lobby

import "errors"

// Typed failures returned by the lobby layer. Nothing here is logged or
// swallowed; the websocket dispatcher turns each one into an error unicast
// for the requesting connection.
var (
	// Not-found.
	ErrLobbyNotFound = errors.New("lobby not found")
	ErrUnknownPlayer = errors.New("player is not in this lobby")

	// Conflicts.
	ErrKeyphraseInUse = errors.New("keyphrase already in use")
	ErrNicknameTaken  = errors.New("nickname already taken in this lobby")
	ErrAlreadyJoined  = errors.New("connection is already in a lobby")
	ErrSlotTaken      = errors.New("button already picked")

	// Authority.
	ErrNotHost = errors.New("only the host may start the game")

	// Phase.
	ErrAlreadyStarted = errors.New("game already started")
	ErrNotInProgress  = errors.New("game is not in progress")

	// Exhaustion and bad input.
	ErrNoPicksLeft   = errors.New("no picks remaining")
	ErrInvalidSlot   = errors.New("button out of range")
	ErrInvalidConfig = errors.New("invalid game config")
)
