package rest

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rocketscienceinc/tictactoe-engine/internal/authority"
)

const (
	identityKey  = "identity"
	bearerPrefix = "Bearer "
)

type authService interface {
	GenerateToken(identity string) (string, error)
	ParseToken(token string) (string, error)
}

type AuthHandler interface {
	IssueToken(ctx echo.Context) error
	Authenticate(next echo.HandlerFunc) echo.HandlerFunc
}

type authHandler struct {
	logger *slog.Logger

	auth authService
}

func NewAuth(logger *slog.Logger, auth authService) AuthHandler {
	return &authHandler{
		logger: logger.With("component", "auth_handler"),
		auth:   auth,
	}
}

type tokenRequest struct {
	Identity string `json:"identity"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// IssueToken signs a token for the requested identity without any proof of
// ownership. It is only routed when development tokens are enabled.
func (that *authHandler) IssueToken(ctx echo.Context) error {
	var request tokenRequest
	if err := ctx.Bind(&request); err != nil || request.Identity == "" {
		return badRequest(ctx, "identity is required")
	}

	token, err := that.auth.GenerateToken(request.Identity)
	if err != nil {
		that.logger.Error("failed to generate JWT token", "error", err)
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, tokenResponse{Token: token})
}

// Authenticate resolves the bearer token into the caller identity and grants
// the request context that identity's authority.
func (that *authHandler) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		header := ctx.Request().Header.Get(echo.HeaderAuthorization)
		if !strings.HasPrefix(header, bearerPrefix) {
			return ctx.JSON(http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
		}

		identity, err := that.auth.ParseToken(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			that.logger.Debug("rejected token", "error", err)
			return ctx.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid token"})
		}

		request := ctx.Request()
		ctx.SetRequest(request.WithContext(authority.WithIdentity(request.Context(), identity)))
		ctx.Set(identityKey, identity)

		return next(ctx)
	}
}

func identityOf(ctx echo.Context) string {
	identity, _ := ctx.Get(identityKey).(string)

	return identity
}
