package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 5 * time.Second

// NewRouter mounts the ping and game endpoints.
func NewRouter(ping PingHandler, games GameHandlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/ping", ping.PingHandler)

	r.Route("/api/games", func(r chi.Router) {
		r.Post("/", games.CreateGame)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", games.GetGame)
			r.Delete("/", games.EndGame)
			r.Post("/moves", games.MakeMove)
			r.Post("/reset", games.ResetGame)
		})
	})

	return r
}

// Start serves handler on port until ctx is done, then shuts down gracefully.
func Start(ctx context.Context, logger *slog.Logger, port string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down HTTP server", "port", port)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
