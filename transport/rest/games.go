package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type gameManager interface {
	Create(ctx context.Context, challenger, host string) (*entity.Game, error)
	Restart(ctx context.Context, challenger, host, by string) (*entity.Game, error)
	Move(ctx context.Context, challenger, host, by string, row, column int) (*entity.Game, error)
	Close(ctx context.Context, challenger, host string) error
	Get(ctx context.Context, challenger, host string) (*entity.Game, error)
	ListByHost(ctx context.Context, host string) ([]*entity.Game, error)
}

type GameHandler interface {
	Create(ctx echo.Context) error
	List(ctx echo.Context) error
	Get(ctx echo.Context) error
	Restart(ctx echo.Context) error
	Move(ctx echo.Context) error
	Close(ctx echo.Context) error
}

type gameHandler struct {
	logger *slog.Logger

	games gameManager
}

func NewGameHandler(logger *slog.Logger, games gameManager) GameHandler {
	return &gameHandler{
		logger: logger.With("component", "game_handler"),
		games:  games,
	}
}

type createGameRequest struct {
	Challenger string `json:"challenger"`
}

type moveRequest struct {
	Row    *int `json:"row"`
	Column *int `json:"column"`
}

// Create opens a game hosted by the caller.
func (that *gameHandler) Create(ctx echo.Context) error {
	var request createGameRequest
	if err := ctx.Bind(&request); err != nil || request.Challenger == "" {
		return badRequest(ctx, "challenger is required")
	}

	game, err := that.games.Create(ctx.Request().Context(), request.Challenger, identityOf(ctx))
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, game)
}

func (that *gameHandler) List(ctx echo.Context) error {
	games, err := that.games.ListByHost(ctx.Request().Context(), ctx.Param("host"))
	if err != nil {
		return writeError(ctx, err)
	}

	if games == nil {
		games = []*entity.Game{}
	}

	return ctx.JSON(http.StatusOK, games)
}

func (that *gameHandler) Get(ctx echo.Context) error {
	game, err := that.games.Get(ctx.Request().Context(), ctx.Param("challenger"), ctx.Param("host"))
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, game)
}

func (that *gameHandler) Restart(ctx echo.Context) error {
	game, err := that.games.Restart(ctx.Request().Context(), ctx.Param("challenger"), ctx.Param("host"), identityOf(ctx))
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, game)
}

func (that *gameHandler) Move(ctx echo.Context) error {
	var request moveRequest
	if err := ctx.Bind(&request); err != nil || request.Row == nil || request.Column == nil {
		return badRequest(ctx, "row and column are required")
	}

	game, err := that.games.Move(
		ctx.Request().Context(), ctx.Param("challenger"), ctx.Param("host"), identityOf(ctx), *request.Row, *request.Column,
	)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, game)
}

func (that *gameHandler) Close(ctx echo.Context) error {
	if err := that.games.Close(ctx.Request().Context(), ctx.Param("challenger"), ctx.Param("host")); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}
