package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/futz12/llm-gobang/internal/entity"
	"github.com/futz12/llm-gobang/internal/llm"
	"github.com/redis/go-redis/v9"
)

const moveKeyPrefix = "move:"

// MoveCache remembers the model's accepted answer per position.
type MoveCache interface {
	Get(ctx context.Context, board entity.Board) (llm.ParsedMove, bool, error)
	Set(ctx context.Context, board entity.Board, move llm.ParsedMove) error
}

type redisMoveCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewMoveCache(client *redis.Client, ttl time.Duration) MoveCache {
	return &redisMoveCache{
		client: client,
		ttl:    ttl,
	}
}

func (that *redisMoveCache) Get(ctx context.Context, board entity.Board) (llm.ParsedMove, bool, error) {
	response, err := that.client.Get(ctx, moveKey(board)).Result()
	if errors.Is(err, redis.Nil) {
		return llm.ParsedMove{}, false, nil
	}

	if err != nil {
		return llm.ParsedMove{}, false, fmt.Errorf("failed to get cached move: %w", err)
	}

	move, err := llm.ParseCoordinates(response)
	if err != nil {
		return llm.ParsedMove{}, false, fmt.Errorf("failed to decode cached move %q: %w", response, err)
	}

	return move, true, nil
}

func (that *redisMoveCache) Set(ctx context.Context, board entity.Board, move llm.ParsedMove) error {
	if err := that.client.Set(ctx, moveKey(board), move.String(), that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cached move: %w", err)
	}

	return nil
}

func moveKey(board entity.Board) string {
	digest := sha256.Sum256([]byte(board.String()))

	return moveKeyPrefix + hex.EncodeToString(digest[:])
}
