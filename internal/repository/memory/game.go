package memory

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// GameRepository keeps sessions in process. Entries are stored by value so
// callers never share a live record.
type GameRepository struct {
	games sync.Map // entity.GameKey -> entity.Game
}

func NewGameRepository() *GameRepository {
	return &GameRepository{}
}

func (that *GameRepository) Find(_ context.Context, key entity.GameKey) (*entity.Game, error) {
	value, ok := that.games.Load(key)
	if !ok {
		return nil, apperror.ErrSessionNotFound
	}

	game := value.(entity.Game) //nolint: forcetypeassert // only entity.Game is stored

	return &game, nil
}

func (that *GameRepository) Insert(_ context.Context, game *entity.Game) error {
	if _, loaded := that.games.LoadOrStore(game.Key(), *game); loaded {
		return apperror.ErrDuplicateSession
	}

	return nil
}

func (that *GameRepository) Update(_ context.Context, game *entity.Game) error {
	key := game.Key()

	for {
		previous, ok := that.games.Load(key)
		if !ok {
			return apperror.ErrSessionNotFound
		}

		if that.games.CompareAndSwap(key, previous, *game) {
			return nil
		}
	}
}

func (that *GameRepository) Erase(_ context.Context, key entity.GameKey) error {
	if _, loaded := that.games.LoadAndDelete(key); !loaded {
		return apperror.ErrSessionNotFound
	}

	return nil
}

func (that *GameRepository) ListByHost(_ context.Context, host string) ([]*entity.Game, error) {
	games := make([]*entity.Game, 0)

	that.games.Range(func(key, value any) bool {
		if key.(entity.GameKey).Host == host { //nolint: forcetypeassert // only entity.GameKey is stored
			game := value.(entity.Game) //nolint: forcetypeassert // only entity.Game is stored
			games = append(games, &game)
		}

		return true
	})

	return games, nil
}
