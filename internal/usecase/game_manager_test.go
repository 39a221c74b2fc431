package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/authority"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository/memory"
	"github.com/rocketscienceinc/tictactoe-engine/testing/suite"
)

const (
	host       = "alice"
	challenger = "bob"
	stranger   = "mallory"
)

var errRedisDown = errors.New("redis down")

func newGameManager(t *testing.T) (*GameManager, *memory.GameRepository) {
	t.Helper()

	repo := memory.NewGameRepository()

	return NewGameManager(suite.NewLogger(), repo, authority.NewContextAuthorizer(), metrics.New()), repo
}

func as(identity string) context.Context {
	return authority.WithIdentity(context.Background(), identity)
}

func TestGameManager_Create(t *testing.T) {
	t.Run("Host creates a session", func(t *testing.T) {
		// Given: a game manager
		manager, repo := newGameManager(t)

		// When: the host creates a game against the challenger
		game, err := manager.Create(as(host), challenger, host)

		// Then: an open session is stored with the host to move
		require.NoError(t, err)
		assert.Equal(t, host, game.Turn)
		assert.Equal(t, entity.WinnerNone, game.Winner)

		stored, err := repo.Find(context.Background(), game.Key())
		require.NoError(t, err)
		assert.Equal(t, game, stored)
	})

	t.Run("Caller without the host's authority is rejected", func(t *testing.T) {
		// Given: a game manager
		manager, repo := newGameManager(t)

		// When: the challenger tries to create the game on the host's behalf
		_, err := manager.Create(as(challenger), challenger, host)

		// Then: ErrUnauthorized is returned and nothing is stored
		require.ErrorIs(t, err, apperror.ErrUnauthorized)

		_, err = repo.Find(context.Background(), entity.GameKey{Host: host, Challenger: challenger})
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})

	t.Run("Playing against oneself is rejected", func(t *testing.T) {
		manager, _ := newGameManager(t)

		_, err := manager.Create(as(host), host, host)

		require.ErrorIs(t, err, apperror.ErrInvalidPlayers)
	})

	t.Run("Second session for the same pair is rejected", func(t *testing.T) {
		// Given: an existing session
		manager, _ := newGameManager(t)
		_, err := manager.Create(as(host), challenger, host)
		require.NoError(t, err)

		// When: creating it again
		_, err = manager.Create(as(host), challenger, host)

		// Then: ErrDuplicateSession is returned
		require.ErrorIs(t, err, apperror.ErrDuplicateSession)
	})

	t.Run("Swapped roles form a different session", func(t *testing.T) {
		// Given: alice hosts bob
		manager, _ := newGameManager(t)
		_, err := manager.Create(as(host), challenger, host)
		require.NoError(t, err)

		// When: bob hosts alice
		_, err = manager.Create(as(challenger), host, challenger)

		// Then: it is a separate session
		require.NoError(t, err)
	})
}

func TestGameManager_Move(t *testing.T) {
	t.Run("Host wins after three moves on the top row", func(t *testing.T) {
		// Given: a created session
		manager, _ := newGameManager(t)
		_, err := manager.Create(as(host), challenger, host)
		require.NoError(t, err)

		// When: the players alternate until the host completes the top row
		game, err := manager.Move(as(host), challenger, host, host, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, entity.HostMark, game.Board[0])
		assert.Equal(t, challenger, game.Turn)
		assert.Equal(t, entity.WinnerNone, game.Winner)

		game, err = manager.Move(as(challenger), challenger, host, challenger, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, entity.ChallengerMark, game.Board[4])
		assert.Equal(t, host, game.Turn)

		_, err = manager.Move(as(host), challenger, host, host, 0, 1)
		require.NoError(t, err)
		_, err = manager.Move(as(challenger), challenger, host, challenger, 2, 2)
		require.NoError(t, err)
		game, err = manager.Move(as(host), challenger, host, host, 0, 2)
		require.NoError(t, err)

		// Then: the host has won and the stored session is finished
		assert.Equal(t, entity.WinnerHost, game.Winner)

		stored, err := manager.Get(context.Background(), challenger, host)
		require.NoError(t, err)
		assert.True(t, stored.IsFinished())

		// And: further moves are rejected
		_, err = manager.Move(as(challenger), challenger, host, challenger, 2, 0)
		require.ErrorIs(t, err, apperror.ErrGameFinished)
	})

	t.Run("Move out of turn leaves the stored board unchanged", func(t *testing.T) {
		// Given: a created session
		manager, _ := newGameManager(t)
		_, err := manager.Create(as(host), challenger, host)
		require.NoError(t, err)

		// When: the challenger moves first
		_, err = manager.Move(as(challenger), challenger, host, challenger, 0, 0)

		// Then: ErrNotYourTurn is returned and the board is empty
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)

		stored, err := manager.Get(context.Background(), challenger, host)
		require.NoError(t, err)
		assert.Equal(t, entity.Board{}, stored.Board)
		assert.Equal(t, host, stored.Turn)
	})

	t.Run("Caller cannot move on behalf of another player", func(t *testing.T) {
		manager, _ := newGameManager(t)
		_, err := manager.Create(as(host), challenger, host)
		require.NoError(t, err)

		_, err = manager.Move(as(challenger), challenger, host, host, 0, 0)

		require.ErrorIs(t, err, apperror.ErrUnauthorized)
	})

	t.Run("Stranger is rejected even with their own authority", func(t *testing.T) {
		manager, _ := newGameManager(t)
		_, err := manager.Create(as(host), challenger, host)
		require.NoError(t, err)

		_, err = manager.Move(as(stranger), challenger, host, stranger, 0, 0)

		require.ErrorIs(t, err, apperror.ErrUnauthorized)
	})

	t.Run("Occupied cell is rejected", func(t *testing.T) {
		manager, _ := newGameManager(t)
		_, err := manager.Create(as(host), challenger, host)
		require.NoError(t, err)
		_, err = manager.Move(as(host), challenger, host, host, 1, 1)
		require.NoError(t, err)

		_, err = manager.Move(as(challenger), challenger, host, challenger, 1, 1)

		require.ErrorIs(t, err, apperror.ErrIllegalMove)
	})

	t.Run("Missing session is reported", func(t *testing.T) {
		manager, _ := newGameManager(t)

		_, err := manager.Move(as(host), challenger, host, host, 0, 0)

		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})

	t.Run("Concurrent moves on one session apply exactly once", func(t *testing.T) {
		// Given: a created session
		manager, _ := newGameManager(t)
		_, err := manager.Create(as(host), challenger, host)
		require.NoError(t, err)

		// When: the host submits the same move many times at once
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
		)
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, moveErr := manager.Move(as(host), challenger, host, host, 0, 0); moveErr == nil {
					mu.Lock()
					successes++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		// Then: only one move was applied
		assert.Equal(t, 1, successes)
	})
}

func TestGameManager_Restart(t *testing.T) {
	t.Run("Challenger restarts a finished game", func(t *testing.T) {
		// Given: a game the host has won
		manager, _ := newGameManager(t)
		_, err := manager.Create(as(host), challenger, host)
		require.NoError(t, err)

		moves := []struct {
			by       string
			row, col int
		}{
			{host, 0, 0}, {challenger, 1, 0}, {host, 0, 1}, {challenger, 1, 1}, {host, 0, 2},
		}
		for _, move := range moves {
			_, err = manager.Move(as(move.by), challenger, host, move.by, move.row, move.col)
			require.NoError(t, err)
		}

		// When: the challenger restarts
		game, err := manager.Restart(as(challenger), challenger, host, challenger)

		// Then: the game is open again with an empty board
		require.NoError(t, err)
		assert.Equal(t, entity.WinnerNone, game.Winner)
		assert.Equal(t, entity.Board{}, game.Board)
		assert.Equal(t, host, game.Turn)
	})

	t.Run("Restart without authority is rejected", func(t *testing.T) {
		manager, _ := newGameManager(t)
		_, err := manager.Create(as(host), challenger, host)
		require.NoError(t, err)

		_, err = manager.Restart(as(stranger), challenger, host, challenger)

		require.ErrorIs(t, err, apperror.ErrUnauthorized)
	})

	t.Run("Restart of a missing session is reported", func(t *testing.T) {
		manager, _ := newGameManager(t)

		_, err := manager.Restart(as(host), challenger, host, host)

		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})
}

func TestGameManager_Close(t *testing.T) {
	t.Run("Host closes the session", func(t *testing.T) {
		// Given: a created session
		manager, _ := newGameManager(t)
		_, err := manager.Create(as(host), challenger, host)
		require.NoError(t, err)

		// When: the host closes it
		err = manager.Close(as(host), challenger, host)

		// Then: it is gone and can be created again
		require.NoError(t, err)

		_, err = manager.Get(context.Background(), challenger, host)
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)

		_, err = manager.Create(as(host), challenger, host)
		require.NoError(t, err)
	})

	t.Run("Challenger cannot close", func(t *testing.T) {
		manager, _ := newGameManager(t)
		_, err := manager.Create(as(host), challenger, host)
		require.NoError(t, err)

		err = manager.Close(as(challenger), challenger, host)

		require.ErrorIs(t, err, apperror.ErrUnauthorized)
	})

	t.Run("Closing a missing session is reported", func(t *testing.T) {
		manager, _ := newGameManager(t)

		err := manager.Close(as(host), challenger, host)

		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})
}

func TestGameManager_ListByHost(t *testing.T) {
	// Given: alice hosts two games
	manager, _ := newGameManager(t)
	for _, opponent := range []string{"bob", "carol"} {
		_, err := manager.Create(as(host), opponent, host)
		require.NoError(t, err)
	}

	// When: listing alice's games
	games, err := manager.ListByHost(context.Background(), host)

	// Then: both are returned
	require.NoError(t, err)
	assert.Len(t, games, 2)
}

func TestGameManager_StorageFailures(t *testing.T) {
	ctx := as(host)
	key := entity.GameKey{Host: host, Challenger: challenger}

	t.Run("Find failure aborts the operation", func(t *testing.T) {
		// Given: a repository that cannot be read
		repo := &mockGameRepo{}
		repo.On("Find", mock.Anything, key).Return(nil, errRedisDown).Once()
		manager := NewGameManager(suite.NewLogger(), repo, authority.NewContextAuthorizer(), metrics.New())

		// When: moving
		_, err := manager.Move(ctx, challenger, host, host, 0, 0)

		// Then: the storage error surfaces and nothing is written
		require.ErrorIs(t, err, errRedisDown)
		assert.False(t, IsRejection(err))
		repo.AssertExpectations(t)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Rejected move never writes", func(t *testing.T) {
		// Given: a stored session where it is the challenger's turn
		game := entity.NewGame(challenger, host)
		game.Turn = challenger

		repo := &mockGameRepo{}
		repo.On("Find", mock.Anything, key).Return(game, nil).Once()
		manager := NewGameManager(suite.NewLogger(), repo, authority.NewContextAuthorizer(), metrics.New())

		// When: the host moves out of turn
		_, err := manager.Move(ctx, challenger, host, host, 0, 0)

		// Then: the move is rejected without touching storage
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.True(t, IsRejection(err))
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Write failure is reported", func(t *testing.T) {
		// Given: a repository that fails to update
		repo := &mockGameRepo{}
		repo.On("Find", mock.Anything, key).Return(entity.NewGame(challenger, host), nil).Once()
		repo.On("Update", mock.Anything, mock.AnythingOfType("*entity.Game")).Return(errRedisDown).Once()
		manager := NewGameManager(suite.NewLogger(), repo, authority.NewContextAuthorizer(), metrics.New())

		// When: moving
		_, err := manager.Move(ctx, challenger, host, host, 0, 0)

		// Then: the write error surfaces
		require.ErrorIs(t, err, errRedisDown)
		repo.AssertExpectations(t)
	})

	t.Run("Insert race is reported as a duplicate", func(t *testing.T) {
		// Given: another writer inserted the session between find and insert
		repo := &mockGameRepo{}
		repo.On("Find", mock.Anything, key).Return(nil, apperror.ErrSessionNotFound).Once()
		repo.On("Insert", mock.Anything, mock.AnythingOfType("*entity.Game")).
			Return(fmt.Errorf("setnx: %w", apperror.ErrDuplicateSession)).Once()
		manager := NewGameManager(suite.NewLogger(), repo, authority.NewContextAuthorizer(), metrics.New())

		// When: creating
		_, err := manager.Create(ctx, challenger, host)

		// Then: ErrDuplicateSession is returned
		require.ErrorIs(t, err, apperror.ErrDuplicateSession)
		repo.AssertExpectations(t)
	})
}

func TestGameManager_ColonIdentities(t *testing.T) {
	// Given: the a:b / c session exists
	manager, _ := newGameManager(t)
	_, err := manager.Create(as("a:b"), "c", "a:b")
	require.NoError(t, err)

	// When: a creates and then closes its own a / b:c session
	_, err = manager.Create(as("a"), "b:c", "a")
	require.NoError(t, err)
	require.NoError(t, manager.Close(as("a"), "b:c", "a"))

	// Then: the a:b / c session is untouched
	game, err := manager.Get(context.Background(), "c", "a:b")
	require.NoError(t, err)
	assert.Equal(t, "a:b", game.Host)
}
