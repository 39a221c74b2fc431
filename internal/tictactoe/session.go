package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// Command is one lifecycle operation applied to a session.
type Command interface {
	Name() string
	apply(current *entity.Game) (*entity.Game, error)
}

type Create struct {
	Challenger string
	Host       string
}

type Restart struct {
	By string
}

type Move struct {
	By     string
	Row    int
	Column int
}

type Close struct{}

func (Create) Name() string  { return "create" }
func (Restart) Name() string { return "restart" }
func (Move) Name() string    { return "move" }
func (Close) Name() string   { return "close" }

// Apply runs cmd against the current session state and returns the next
// state. current is nil when no session exists for the key; a nil result
// with a nil error means the session must be erased. current is never
// modified, so a failed command leaves no trace.
func Apply(current *entity.Game, cmd Command) (*entity.Game, error) {
	next, err := cmd.apply(current)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cmd.Name(), err)
	}

	return next, nil
}

func (that Create) apply(current *entity.Game) (*entity.Game, error) {
	if that.Challenger == that.Host {
		return nil, apperror.ErrInvalidPlayers
	}

	if current != nil {
		return nil, apperror.ErrDuplicateSession
	}

	return entity.NewGame(that.Challenger, that.Host), nil
}

func (that Restart) apply(current *entity.Game) (*entity.Game, error) {
	if current == nil {
		return nil, apperror.ErrSessionNotFound
	}

	if !current.IsPlayer(that.By) {
		return nil, apperror.ErrUnauthorized
	}

	next := *current
	next.Reset()

	return &next, nil
}

func (that Move) apply(current *entity.Game) (*entity.Game, error) {
	if current == nil {
		return nil, apperror.ErrSessionNotFound
	}

	if current.IsFinished() {
		return nil, apperror.ErrGameFinished
	}

	if !current.IsPlayer(that.By) {
		return nil, apperror.ErrUnauthorized
	}

	if that.By != current.Turn {
		return nil, apperror.ErrNotYourTurn
	}

	if !IsValidMove(that.Row, that.Column, current.Board) {
		return nil, fmt.Errorf("%w: row %d, column %d", apperror.ErrIllegalMove, that.Row, that.Column)
	}

	next := *current
	next.Board.SetCell(that.Row, that.Column, current.MarkOf(that.By))
	next.Turn = current.Opponent(that.By)
	next.Winner = Evaluate(next.Board)

	return &next, nil
}

func (that Close) apply(current *entity.Game) (*entity.Game, error) {
	if current == nil {
		return nil, apperror.ErrSessionNotFound
	}

	return nil, nil //nolint: nilnil // a nil game means the session is erased
}
