package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type mockGameRepo struct {
	mock.Mock
}

func (that *mockGameRepo) Find(ctx context.Context, key entity.GameKey) (*entity.Game, error) {
	args := that.Called(ctx, key)
	game, _ := args.Get(0).(*entity.Game)

	return game, args.Error(1)
}

func (that *mockGameRepo) Insert(ctx context.Context, game *entity.Game) error {
	return that.Called(ctx, game).Error(0)
}

func (that *mockGameRepo) Update(ctx context.Context, game *entity.Game) error {
	return that.Called(ctx, game).Error(0)
}

func (that *mockGameRepo) Erase(ctx context.Context, key entity.GameKey) error {
	return that.Called(ctx, key).Error(0)
}

func (that *mockGameRepo) ListByHost(ctx context.Context, host string) ([]*entity.Game, error) {
	args := that.Called(ctx, host)
	games, _ := args.Get(0).([]*entity.Game)

	return games, args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (that *mockNotifier) Send(ctx context.Context, recipient, message string) error {
	return that.Called(ctx, recipient, message).Error(0)
}

type mockCounter struct {
	mock.Mock
}

func (that *mockCounter) Increment(ctx context.Context, user, kind string) (int64, error) {
	args := that.Called(ctx, user, kind)

	return int64(args.Int(0)), args.Error(1)
}
