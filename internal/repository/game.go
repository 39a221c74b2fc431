package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const scanBatch = 100

type GameRepository interface {
	Find(ctx context.Context, key entity.GameKey) (*entity.Game, error)
	Insert(ctx context.Context, game *entity.Game) error
	Update(ctx context.Context, game *entity.Game) error
	Erase(ctx context.Context, key entity.GameKey) error
	ListByHost(ctx context.Context, host string) ([]*entity.Game, error)
}

type dbGame struct {
	client *redis.Client
}

func NewGameRepository(client *redis.Client) GameRepository {
	return &dbGame{
		client: client,
	}
}

var errKeyMismatch = errors.New("stored game does not match its key")

func gameKey(key entity.GameKey) string {
	return "game:" + key.String()
}

func hostPattern(host string) string {
	return "game:" + entity.EscapeKeyPart(host) + ":*"
}

func (that *dbGame) Find(ctx context.Context, key entity.GameKey) (*entity.Game, error) {
	response, err := that.client.Get(ctx, gameKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrSessionNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game %s: %w", key, err)
	}

	var existingGame entity.Game
	if err = json.Unmarshal([]byte(response), &existingGame); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	if existingGame.Key() != key {
		return nil, fmt.Errorf("%w: %s", errKeyMismatch, key)
	}

	return &existingGame, nil
}

func (that *dbGame) Insert(ctx context.Context, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	created, err := that.client.SetNX(ctx, gameKey(game.Key()), gameJSON, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to insert game: %w", err)
	}

	if !created {
		return apperror.ErrDuplicateSession
	}

	return nil
}

func (that *dbGame) Update(ctx context.Context, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	updated, err := that.client.SetXX(ctx, gameKey(game.Key()), gameJSON, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	if !updated {
		return apperror.ErrSessionNotFound
	}

	return nil
}

func (that *dbGame) Erase(ctx context.Context, key entity.GameKey) error {
	deleted, err := that.client.Del(ctx, gameKey(key)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	if deleted == 0 {
		return apperror.ErrSessionNotFound
	}

	return nil
}

func (that *dbGame) ListByHost(ctx context.Context, host string) ([]*entity.Game, error) {
	games := make([]*entity.Game, 0)

	iter := that.client.Scan(ctx, 0, hostPattern(host), scanBatch).Iterator()
	for iter.Next(ctx) {
		response, err := that.client.Get(ctx, iter.Val()).Result()
		if errors.Is(err, redis.Nil) {
			// erased between scan and get
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("failed to get game %s: %w", iter.Val(), err)
		}

		var game entity.Game
		if err = json.Unmarshal([]byte(response), &game); err != nil {
			return nil, fmt.Errorf("failed to unmarshal game: %w", err)
		}

		if game.Host != host {
			continue
		}

		games = append(games, &game)
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan games of %s: %w", host, err)
	}

	return games, nil
}
