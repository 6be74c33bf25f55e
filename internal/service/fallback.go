package service

import (
	"math/rand"

	"github.com/futz12/llm-gobang/internal/apperror"
	"github.com/futz12/llm-gobang/internal/entity"
)

// PickFallback chooses an empty cell uniformly at random. intn defaults to math/rand.Intn.
func PickFallback(board *entity.Board, intn func(n int) int) (entity.Position, error) {
	availableCells := board.EmptyCells()
	if len(availableCells) == 0 {
		return entity.Position{}, apperror.ErrBoardFull
	}

	if intn == nil {
		intn = rand.Intn //nolint: gosec // move choice, not a secret
	}

	return availableCells[intn(len(availableCells))], nil
}
