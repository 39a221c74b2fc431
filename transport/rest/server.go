package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	readTimeout  = 10 * time.Second
	writeTimeout = 10 * time.Second
	idleTimeout  = 30 * time.Second
)

type Handlers struct {
	Auth      AuthHandler
	Games     GameHandler
	Addresses AddressHandler
	Limiter   *RateLimiter
	Metrics   http.Handler
	Observer  requestObserver

	// DevTokens routes POST /auth/token.
	DevTokens bool
}

type Server struct {
	logger *slog.Logger
	echo   *echo.Echo
}

func New(logger *slog.Logger, handlers Handlers) *Server {
	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.Server.ReadTimeout = readTimeout
	router.Server.WriteTimeout = writeTimeout
	router.Server.IdleTimeout = idleTimeout

	router.Use(middleware.Recover())
	router.Use(observeRequests(handlers.Observer))

	router.GET("/ping", ping)
	router.GET("/metrics", echo.WrapHandler(handlers.Metrics))

	if handlers.DevTokens {
		router.POST("/auth/token", handlers.Auth.IssueToken)
	}

	api := router.Group("", handlers.Auth.Authenticate, handlers.Limiter.Handler)

	api.POST("/games", handlers.Games.Create)
	api.GET("/games/:host", handlers.Games.List)
	api.GET("/games/:host/:challenger", handlers.Games.Get)
	api.POST("/games/:host/:challenger/restart", handlers.Games.Restart)
	api.POST("/games/:host/:challenger/move", handlers.Games.Move)
	api.DELETE("/games/:host/:challenger", handlers.Games.Close)

	api.GET("/addresses", handlers.Addresses.List)
	api.PUT("/addresses/:user", handlers.Addresses.Upsert)
	api.DELETE("/addresses/:user", handlers.Addresses.Erase)

	return &Server{
		logger: logger.With("component", "http_server"),
		echo:   router,
	}
}

// ServeHTTP lets the server be exercised without a listener.
func (that *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	that.echo.ServeHTTP(w, r)
}

// Start blocks until the server stops. A graceful shutdown is not an error.
func (that *Server) Start(port string) error {
	that.logger.Info("Starting HTTP server", "port", port)

	if err := that.echo.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) Shutdown(ctx context.Context) error {
	if err := that.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
