package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/futz12/llm-gobang/internal/usecase"
)

var errNoGame = errors.New("no game selected, send game:new first")

func (that *Server) handleNewGame(ctx context.Context, c *client, msg *Message) error {
	session, err := that.games.CreateGame()
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}

	c.own(session.ID())
	c.follow(session)

	return that.sendState(ctx, c, msg.Action, session)
}

func (that *Server) handleState(ctx context.Context, c *client, msg *Message) error {
	session := c.current()
	if session == nil {
		return errNoGame
	}

	return that.sendState(ctx, c, msg.Action, session)
}

func (that *Server) handleTurn(ctx context.Context, c *client, msg *Message) error {
	session := c.current()
	if session == nil {
		return errNoGame
	}

	var payload TurnPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.Row == nil || payload.Col == nil {
		return errors.New("invalid payload, expected {\"row\": int, \"col\": int}")
	}

	if err := session.SubmitHumanMove(ctx, *payload.Row, *payload.Col); err != nil {
		return err
	}

	return that.sendState(ctx, c, msg.Action, session)
}

func (that *Server) handleReset(ctx context.Context, c *client, msg *Message) error {
	session := c.current()
	if session == nil {
		return errNoGame
	}

	if err := session.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset game: %w", err)
	}

	return that.sendState(ctx, c, msg.Action, session)
}

func (that *Server) sendState(ctx context.Context, c *client, action string, session *usecase.Session) error {
	status, err := session.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to read game state: %w", err)
	}

	c.sendMessage(action, ResponsePayload{Game: &status})

	return nil
}
