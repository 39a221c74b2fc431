package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type addressBook interface {
	Upsert(ctx context.Context, person *entity.Person) error
	Erase(ctx context.Context, user string) error
	ListByAge(ctx context.Context) ([]*entity.Person, error)
}

type AddressHandler interface {
	Upsert(ctx echo.Context) error
	Erase(ctx echo.Context) error
	List(ctx echo.Context) error
}

type addressHandler struct {
	logger *slog.Logger

	addresses addressBook
}

func NewAddressHandler(logger *slog.Logger, addresses addressBook) AddressHandler {
	return &addressHandler{
		logger:    logger.With("component", "address_handler"),
		addresses: addresses,
	}
}

// Upsert stores the record of the user named in the path. The key in the body is ignored.
func (that *addressHandler) Upsert(ctx echo.Context) error {
	var person entity.Person
	if err := ctx.Bind(&person); err != nil {
		return badRequest(ctx, "invalid record")
	}

	person.Key = ctx.Param("user")

	if err := that.addresses.Upsert(ctx.Request().Context(), &person); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, &person)
}

func (that *addressHandler) Erase(ctx echo.Context) error {
	if err := that.addresses.Erase(ctx.Request().Context(), ctx.Param("user")); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

func (that *addressHandler) List(ctx echo.Context) error {
	people, err := that.addresses.ListByAge(ctx.Request().Context())
	if err != nil {
		return writeError(ctx, err)
	}

	if people == nil {
		people = []*entity.Person{}
	}

	return ctx.JSON(http.StatusOK, people)
}
