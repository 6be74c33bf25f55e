package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/futz12/llm-gobang/internal/apperror"
	"github.com/futz12/llm-gobang/internal/entity"
	"github.com/futz12/llm-gobang/internal/llm"
)

type Source string

const (
	SourceModel    Source = "model"
	SourceCache    Source = "cache"
	SourceFallback Source = "fallback"
)

// Decision is the move chosen for the AI. Reason is set when the fallback replaced the model.
type Decision struct {
	Position entity.Position
	Source   Source
	Reason   error
}

type BotService interface {
	NextMove(ctx context.Context, board entity.Board) (Decision, error)
}

type chatClient interface {
	StreamChat(ctx context.Context, req llm.ChatRequest, onEvent func(llm.StreamEvent)) (llm.StreamResult, error)
}

type moveCache interface {
	Get(ctx context.Context, board entity.Board) (llm.ParsedMove, bool, error)
	Set(ctx context.Context, board entity.Board, move llm.ParsedMove) error
}

type BotOptions struct {
	Params llm.Params
	// FallbackOnTransportError plays a random move instead of failing the turn when the
	// endpoint cannot be reached.
	FallbackOnTransportError bool
	// Cache is optional.
	Cache moveCache
	// Intn is the random source of the fallback, math/rand when nil.
	Intn func(n int) int
}

type botService struct {
	logger  *slog.Logger
	client  chatClient
	options BotOptions
}

func NewBotService(logger *slog.Logger, client chatClient, options BotOptions) BotService {
	return &botService{
		logger:  logger.With("component", "bot"),
		client:  client,
		options: options,
	}
}

// NextMove asks the model for a move on the snapshot. Unusable answers are replaced by a random
// empty cell; only transport failures, cancellation and a full board are returned as errors.
func (that *botService) NextMove(ctx context.Context, board entity.Board) (Decision, error) {
	log := that.logger.With("method", "NextMove", "stones", board.Stones())

	if decision, ok := that.fromCache(ctx, log, &board); ok {
		return decision, nil
	}

	req := llm.NewChatRequest(that.options.Params, board)

	result, err := that.client.StreamChat(ctx, req, func(event llm.StreamEvent) {
		if event.Kind == llm.EventMalformed {
			log.Warn("skipping malformed stream chunk", "error", event.Err)
		}
	})
	if err != nil {
		if ctx.Err() != nil {
			return Decision{}, fmt.Errorf("ai move canceled: %w", err)
		}

		if that.options.FallbackOnTransportError && errors.Is(err, apperror.ErrStreamTransport) {
			return that.fallback(log, &board, err)
		}

		return Decision{}, fmt.Errorf("failed to get ai move: %w", err)
	}

	if result.Reasoning != "" {
		log.Debug("model reasoning", "reasoning", result.Reasoning)
	}

	move, err := result.Move()
	if err != nil {
		if result.DecodeErrors > 0 {
			err = fmt.Errorf("%w (%d chunks failed to decode)", err, result.DecodeErrors)
		}

		log.Debug("model answer without a usable move", "content", result.Content)

		return that.fallback(log, &board, err)
	}

	empty, err := board.IsEmpty(move.Row, move.Col)
	if err != nil {
		return that.fallback(log, &board, err)
	}

	if !empty {
		return that.fallback(log, &board, fmt.Errorf("%w: (%s)", apperror.ErrIllegalAIMove, move))
	}

	if that.options.Cache != nil {
		if err = that.options.Cache.Set(ctx, board, move); err != nil {
			log.Warn("failed to cache ai move", "error", err)
		}
	}

	log.Info("model move accepted", "row", move.Row, "col", move.Col, "decode_errors", result.DecodeErrors)

	return Decision{Position: entity.Position{Row: move.Row, Col: move.Col}, Source: SourceModel}, nil
}

func (that *botService) fromCache(ctx context.Context, log *slog.Logger, board *entity.Board) (Decision, bool) {
	if that.options.Cache == nil {
		return Decision{}, false
	}

	move, ok, err := that.options.Cache.Get(ctx, *board)
	if err != nil {
		log.Warn("failed to read move cache", "error", err)
		return Decision{}, false
	}

	if !ok {
		return Decision{}, false
	}

	if empty, _ := board.IsEmpty(move.Row, move.Col); !empty {
		log.Warn("ignoring cached move on an occupied cell", "row", move.Row, "col", move.Col)
		return Decision{}, false
	}

	log.Info("cached move reused", "row", move.Row, "col", move.Col)

	return Decision{Position: entity.Position{Row: move.Row, Col: move.Col}, Source: SourceCache}, true
}

func (that *botService) fallback(log *slog.Logger, board *entity.Board, reason error) (Decision, error) {
	position, err := PickFallback(board, that.options.Intn)
	if err != nil {
		return Decision{}, fmt.Errorf("fallback move impossible: %w", err)
	}

	log.Warn("using fallback move", "reason", reason, "row", position.Row, "col", position.Col)

	return Decision{Position: position, Source: SourceFallback, Reason: reason}, nil
}
