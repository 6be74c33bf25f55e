package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/futz12/llm-gobang/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const shutdownTimeout = 5 * time.Second

type gameManager interface {
	CreateGame() (*usecase.Session, error)
	GetGame(id string) (*usecase.Session, error)
	EndGame(id string) error
}

type handlerFunc func(ctx context.Context, c *client, msg *Message) error

type Server struct {
	logger   *slog.Logger
	games    gameManager
	upgrader websocket.Upgrader
	interval time.Duration

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, games gameManager) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		games:  games,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		interval: idlePingInterval,

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionNewGame] = server.handleNewGame
	server.handlers[actionState] = server.handleState
	server.handlers[actionTurn] = server.handleTurn
	server.handlers[actionReset] = server.handleReset

	return server
}

// Handler returns the http handler serving /ws.
func (that *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/ws", that.serveWS)

	return r
}

// Start - starts WebSocket server and shuts it down when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Handler(),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
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

	that.logger.Info("shutting down WebSocket server", "port", port)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}

func (that *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveWS")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	c := newClient(that.logger)

	go func() {
		if err := writeWithHeartbeat(conn, c.send, c.done, that.interval); err != nil {
			log.Debug("websocket writer stopped", "error", err)
		}
	}()

	defer that.disconnect(c)

	if id := r.URL.Query().Get("game"); id != "" {
		session, err := that.games.GetGame(id)
		if err != nil {
			c.sendMessage(actionState, ResponsePayload{Error: err.Error()})
		} else {
			c.follow(session)
			that.sendState(r.Context(), c, actionState, session)
		}
	}

	log.Info("WebSocket connection established")

	that.handleMessages(r.Context(), conn, c)
}

// handleMessages - processes messages from the client until the connection fails.
func (that *Server) handleMessages(ctx context.Context, conn *websocket.Conn, c *client) {
	log := that.logger.With("method", "handleMessages")

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(raw, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			c.sendMessage(actionError, ResponsePayload{Error: "invalid message"})
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			c.sendMessage(actionError, ResponsePayload{Error: "unknown action " + message.Action})
			continue
		}

		if err = handler(ctx, c, &message); err != nil {
			log.Debug("error processing message", "action", message.Action, "error", err)
			c.sendMessage(message.Action, ResponsePayload{Error: err.Error()})
		}
	}
}

func (that *Server) disconnect(c *client) {
	for _, id := range c.close() {
		if err := that.games.EndGame(id); err != nil {
			that.logger.Debug("game already ended", "gameID", id, "error", err)
		}
	}

	that.logger.Info("WebSocket connection closed")
}
