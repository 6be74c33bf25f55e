package apperror

import "errors"

var (
	ErrOutOfRange    = errors.New("coordinate is out of range")
	ErrCellOccupied  = errors.New("cell is already occupied")
	ErrBoardFull     = errors.New("no empty cell left on the board")
	ErrNotYourTurn   = errors.New("it's not your turn")
	ErrGameFinished  = errors.New("game is already finished")
	ErrAIPending     = errors.New("ai request is already in flight")
	ErrIllegalAIMove = errors.New("ai proposed an occupied cell")

	ErrStreamTransport = errors.New("chat completion transport failed")
	ErrStreamDecode    = errors.New("failed to decode stream chunk")
	ErrMoveParse       = errors.New("no well-formed move in model output")

	ErrSessionClosed   = errors.New("game session is closed")
	ErrSessionNotFound = errors.New("game session not found")
)
