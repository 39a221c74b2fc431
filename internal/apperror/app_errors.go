package apperror

import "errors"

var (
	ErrInvalidPlayers   = errors.New("challenger should not be the same as the host")
	ErrDuplicateSession = errors.New("game already exists")
	ErrSessionNotFound  = errors.New("game does not exist")
	ErrUnauthorized     = errors.New("this is not your game")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrGameFinished     = errors.New("game is already finished")
	ErrIllegalMove      = errors.New("not a valid movement")

	ErrRecordNotFound = errors.New("record does not exist")
)
