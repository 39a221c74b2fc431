package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

type gameRepo interface {
	Find(ctx context.Context, key entity.GameKey) (*entity.Game, error)
	Insert(ctx context.Context, game *entity.Game) error
	Update(ctx context.Context, game *entity.Game) error
	Erase(ctx context.Context, key entity.GameKey) error
	ListByHost(ctx context.Context, host string) ([]*entity.Game, error)
}

type authorizer interface {
	RequireAuthority(ctx context.Context, identity string) error
	HasAuthority(ctx context.Context, identity string) bool
}

type gameObserver interface {
	ObserveGameOperation(operation string, err error)
}

// GameManager runs session operations. Each operation holds the lock of its
// (host, challenger) key from the read until the write, so a session never
// sees interleaved commands while other sessions proceed independently.
type GameManager struct {
	logger *slog.Logger

	gameRepo   gameRepo
	authorizer authorizer
	observer   gameObserver

	locks *pkg.KeyLock
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, authorizer authorizer, observer gameObserver) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		gameRepo:   gameRepo,
		authorizer: authorizer,
		observer:   observer,

		locks: pkg.NewKeyLock(),
	}
}

// Create opens a session between host and challenger. Only the host may create it.
func (that *GameManager) Create(ctx context.Context, challenger, host string) (*entity.Game, error) {
	key := entity.GameKey{Host: host, Challenger: challenger}

	if err := that.authorizer.RequireAuthority(ctx, host); err != nil {
		return nil, that.finish(ctx, "create", key, err)
	}

	game, err := that.execute(ctx, key, tictactoe.Create{Challenger: challenger, Host: host})

	return game, that.finish(ctx, "create", key, err)
}

// Restart clears the board of an existing session, finished or not.
func (that *GameManager) Restart(ctx context.Context, challenger, host, by string) (*entity.Game, error) {
	key := entity.GameKey{Host: host, Challenger: challenger}

	if !that.authorizer.HasAuthority(ctx, by) {
		err := fmt.Errorf("%w: only %s can restart the game", apperror.ErrUnauthorized, by)
		return nil, that.finish(ctx, "restart", key, err)
	}

	game, err := that.execute(ctx, key, tictactoe.Restart{By: by})

	return game, that.finish(ctx, "restart", key, err)
}

// Move places by's mark at (row, column).
func (that *GameManager) Move(ctx context.Context, challenger, host, by string, row, column int) (*entity.Game, error) {
	key := entity.GameKey{Host: host, Challenger: challenger}

	if !that.authorizer.HasAuthority(ctx, by) {
		err := fmt.Errorf("%w: the next move should be made by %s", apperror.ErrUnauthorized, by)
		return nil, that.finish(ctx, "move", key, err)
	}

	game, err := that.execute(ctx, key, tictactoe.Move{By: by, Row: row, Column: column})

	return game, that.finish(ctx, "move", key, err)
}

// Close removes the session. Only the host may close it.
func (that *GameManager) Close(ctx context.Context, challenger, host string) error {
	key := entity.GameKey{Host: host, Challenger: challenger}

	if err := that.authorizer.RequireAuthority(ctx, host); err != nil {
		return that.finish(ctx, "close", key, err)
	}

	_, err := that.execute(ctx, key, tictactoe.Close{})

	return that.finish(ctx, "close", key, err)
}

func (that *GameManager) Get(ctx context.Context, challenger, host string) (*entity.Game, error) {
	game, err := that.gameRepo.Find(ctx, entity.GameKey{Host: host, Challenger: challenger})
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

func (that *GameManager) ListByHost(ctx context.Context, host string) ([]*entity.Game, error) {
	games, err := that.gameRepo.ListByHost(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	return games, nil
}

// execute reads the session, applies cmd and writes the result back while
// holding the key lock. Nothing is written when cmd is rejected.
func (that *GameManager) execute(ctx context.Context, key entity.GameKey, cmd tictactoe.Command) (*entity.Game, error) {
	unlock := that.locks.Lock(key.String())
	defer unlock()

	current, err := that.gameRepo.Find(ctx, key)
	if errors.Is(err, apperror.ErrSessionNotFound) {
		current = nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to find game: %w", err)
	}

	next, err := tictactoe.Apply(current, cmd)
	if err != nil {
		return nil, err
	}

	switch {
	case current == nil:
		err = that.gameRepo.Insert(ctx, next)
	case next == nil:
		err = that.gameRepo.Erase(ctx, key)
	default:
		err = that.gameRepo.Update(ctx, next)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to store game after %s: %w", cmd.Name(), err)
	}

	return next, nil
}

func (that *GameManager) finish(ctx context.Context, operation string, key entity.GameKey, err error) error {
	that.observer.ObserveGameOperation(operation, err)

	log := that.logger.With("method", operation, "game", key.String())

	switch {
	case err == nil:
		log.InfoContext(ctx, "game operation applied")
	case IsRejection(err):
		log.DebugContext(ctx, "game operation rejected", "error", err)
	default:
		log.ErrorContext(ctx, "game operation failed", "error", err)
	}

	return err
}

// IsRejection reports whether err is a rule violation rather than an infrastructure failure.
func IsRejection(err error) bool {
	for _, target := range []error{
		apperror.ErrInvalidPlayers,
		apperror.ErrDuplicateSession,
		apperror.ErrSessionNotFound,
		apperror.ErrUnauthorized,
		apperror.ErrNotYourTurn,
		apperror.ErrGameFinished,
		apperror.ErrIllegalMove,
		apperror.ErrRecordNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
