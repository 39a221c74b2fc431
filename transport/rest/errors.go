package rest

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

type errorResponse struct {
	Error string `json:"error"`
}

var errorStatuses = []struct {
	target error
	status int
}{
	{apperror.ErrInvalidPlayers, http.StatusBadRequest},
	{apperror.ErrIllegalMove, http.StatusBadRequest},
	{apperror.ErrUnauthorized, http.StatusForbidden},
	{apperror.ErrSessionNotFound, http.StatusNotFound},
	{apperror.ErrRecordNotFound, http.StatusNotFound},
	{apperror.ErrDuplicateSession, http.StatusConflict},
	{apperror.ErrNotYourTurn, http.StatusConflict},
	{apperror.ErrGameFinished, http.StatusConflict},
}

// statusOf maps a domain error to the HTTP status reported to the client.
func statusOf(err error) int {
	for _, entry := range errorStatuses {
		if errors.Is(err, entry.target) {
			return entry.status
		}
	}

	return http.StatusInternalServerError
}

// writeError hides infrastructure failures behind a generic message.
func writeError(ctx echo.Context, err error) error {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		return ctx.JSON(status, errorResponse{Error: "Internal Server Error"})
	}

	return ctx.JSON(status, errorResponse{Error: err.Error()})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, errorResponse{Error: message})
}
