package gomoku

import (
	"math/rand"
	"testing"

	"github.com/futz12/llm-gobang/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func place(t *testing.T, board *entity.Board, player entity.Player, positions ...entity.Position) {
	t.Helper()

	for _, pos := range positions {
		require.NoError(t, board.Place(pos.Row, pos.Col, player))
	}
}

func TestHasFiveInRow(t *testing.T) {
	t.Run("Horizontal five at the top edge", func(t *testing.T) {
		// Given: black stones on (0,0)..(0,4)
		board := entity.NewBoard()
		place(t, board, entity.PlayerBlack, entity.Position{Row: 0, Col: 0}, entity.Position{Row: 0, Col: 1}, entity.Position{Row: 0, Col: 2}, entity.Position{Row: 0, Col: 3}, entity.Position{Row: 0, Col: 4})

		// Then: every stone of the line reports a win
		for col := 0; col < 5; col++ {
			assert.True(t, HasFiveInRow(board, 0, col), "col %d", col)
		}
	})

	t.Run("Vertical five", func(t *testing.T) {
		board := entity.NewBoard()
		place(t, board, entity.PlayerWhite, entity.Position{Row: 10, Col: 14}, entity.Position{Row: 11, Col: 14}, entity.Position{Row: 12, Col: 14}, entity.Position{Row: 13, Col: 14}, entity.Position{Row: 14, Col: 14})

		assert.True(t, HasFiveInRow(board, 12, 14))
	})

	t.Run("Diagonal down five with the last stone in the middle", func(t *testing.T) {
		board := entity.NewBoard()
		place(t, board, entity.PlayerBlack, entity.Position{Row: 3, Col: 3}, entity.Position{Row: 4, Col: 4}, entity.Position{Row: 6, Col: 6}, entity.Position{Row: 7, Col: 7}, entity.Position{Row: 5, Col: 5})

		assert.True(t, HasFiveInRow(board, 5, 5))
	})

	t.Run("Diagonal up five", func(t *testing.T) {
		board := entity.NewBoard()
		place(t, board, entity.PlayerWhite, entity.Position{Row: 14, Col: 0}, entity.Position{Row: 13, Col: 1}, entity.Position{Row: 12, Col: 2}, entity.Position{Row: 11, Col: 3}, entity.Position{Row: 10, Col: 4})

		assert.True(t, HasFiveInRow(board, 14, 0))
	})

	t.Run("Four in a row is not a win", func(t *testing.T) {
		board := entity.NewBoard()
		place(t, board, entity.PlayerBlack, entity.Position{Row: 7, Col: 3}, entity.Position{Row: 7, Col: 4}, entity.Position{Row: 7, Col: 5}, entity.Position{Row: 7, Col: 6})

		assert.False(t, HasFiveInRow(board, 7, 6))
	})

	t.Run("Opponent stone breaks the line", func(t *testing.T) {
		board := entity.NewBoard()
		place(t, board, entity.PlayerBlack, entity.Position{Row: 2, Col: 0}, entity.Position{Row: 2, Col: 1}, entity.Position{Row: 2, Col: 3}, entity.Position{Row: 2, Col: 4})
		place(t, board, entity.PlayerWhite, entity.Position{Row: 2, Col: 2})

		assert.False(t, HasFiveInRow(board, 2, 4))
		assert.False(t, HasFiveInRow(board, 2, 2))
	})

	t.Run("Overline of six still wins", func(t *testing.T) {
		board := entity.NewBoard()
		place(t, board, entity.PlayerWhite, entity.Position{Row: 9, Col: 1}, entity.Position{Row: 9, Col: 2}, entity.Position{Row: 9, Col: 3}, entity.Position{Row: 9, Col: 4}, entity.Position{Row: 9, Col: 5}, entity.Position{Row: 9, Col: 6})

		assert.True(t, HasFiveInRow(board, 9, 1))
	})

	t.Run("Empty cell never wins", func(t *testing.T) {
		assert.False(t, HasFiveInRow(entity.NewBoard(), 7, 7))
	})
}

// naiveFive scans every full line through (row, col) without the bounded walk.
func naiveFive(board *entity.Board, row, col int) bool {
	cell := board.At(row, col)
	if cell == entity.CellEmpty {
		return false
	}

	for _, dir := range directions {
		r, c := row, col
		for entity.InBounds(r-dir[0], c-dir[1]) && board.At(r-dir[0], c-dir[1]) == cell {
			r, c = r-dir[0], c-dir[1]
		}

		count := 0
		for entity.InBounds(r, c) && board.At(r, c) == cell {
			count++
			r, c = r+dir[0], c+dir[1]
		}

		if count >= WinLength {
			return true
		}
	}

	return false
}

func TestHasFiveInRow_MatchesFullScan(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		board := entity.NewBoard()
		for j := 0; j < 120; j++ {
			row, col := rng.Intn(entity.Size), rng.Intn(entity.Size)
			player := entity.PlayerBlack
			if rng.Intn(2) == 0 {
				player = entity.PlayerWhite
			}
			_ = board.Place(row, col, player)
		}

		for row := 0; row < entity.Size; row++ {
			for col := 0; col < entity.Size; col++ {
				require.Equal(t, naiveFive(board, row, col), HasFiveInRow(board, row, col), "board %d at (%d,%d)\n%s", i, row, col, board)
			}
		}
	}
}

func TestEvaluate(t *testing.T) {
	t.Run("Win", func(t *testing.T) {
		board := entity.NewBoard()
		place(t, board, entity.PlayerBlack, entity.Position{Row: 0, Col: 0}, entity.Position{Row: 0, Col: 1}, entity.Position{Row: 0, Col: 2}, entity.Position{Row: 0, Col: 3}, entity.Position{Row: 0, Col: 4})

		outcome := Evaluate(board, entity.Move{Row: 0, Col: 4, Player: entity.PlayerBlack})

		assert.Equal(t, Outcome{Finished: true, Winner: entity.PlayerBlack}, outcome)
	})

	t.Run("Game continues", func(t *testing.T) {
		board := entity.NewBoard()
		place(t, board, entity.PlayerBlack, entity.Position{Row: 7, Col: 7})

		outcome := Evaluate(board, entity.Move{Row: 7, Col: 7, Player: entity.PlayerBlack})

		assert.False(t, outcome.Finished)
	})

	t.Run("Draw on a full board without five", func(t *testing.T) {
		// Given: a full board colored by (row+2*col) mod 4, which has no line of five
		board := entity.NewBoard()
		for row := 0; row < entity.Size; row++ {
			for col := 0; col < entity.Size; col++ {
				player := entity.PlayerBlack
				if (row+2*col)%4 >= 2 {
					player = entity.PlayerWhite
				}
				require.NoError(t, board.Place(row, col, player))
			}
		}

		last := entity.Move{Row: 14, Col: 14, Player: board.At(14, 14).Player()}

		// When: the last placement is evaluated
		outcome := Evaluate(board, last)

		// Then: the game ends in a draw
		assert.Equal(t, Outcome{Finished: true, Draw: true}, outcome)
	})
}
