package gomoku

import (
	"github.com/futz12/llm-gobang/internal/entity"
)

// WinLength is the number of contiguous stones that wins the game.
const WinLength = 5

// directions are the four axes checked around a placed stone: horizontal, vertical,
// diagonal-down and diagonal-up. The opposite half of each axis is walked with the negated step.
var directions = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

type Outcome struct {
	Finished bool          `json:"finished"`
	Winner   entity.Player `json:"winner"`
	Draw     bool          `json:"draw"`
}

// HasFiveInRow reports whether the stone at (row, col) is part of at least five contiguous
// stones of its color along any axis.
func HasFiveInRow(board *entity.Board, row, col int) bool {
	cell := board.At(row, col)
	if cell == entity.CellEmpty {
		return false
	}

	for _, dir := range directions {
		count := 1 + countFrom(board, row, col, dir[0], dir[1], cell) + countFrom(board, row, col, -dir[0], -dir[1], cell)
		if count >= WinLength {
			return true
		}
	}

	return false
}

// countFrom counts same-colored stones starting next to (row, col) along one step, at most
// WinLength-1 of them.
func countFrom(board *entity.Board, row, col, dRow, dCol int, cell entity.Cell) int {
	count := 0
	for i := 1; i < WinLength; i++ {
		r, c := row+dRow*i, col+dCol*i
		if !entity.InBounds(r, c) || board.At(r, c) != cell {
			break
		}
		count++
	}

	return count
}

// Evaluate checks the board right after move was placed.
func Evaluate(board *entity.Board, move entity.Move) Outcome {
	if HasFiveInRow(board, move.Row, move.Col) {
		return Outcome{Finished: true, Winner: move.Player}
	}

	if board.IsFull() {
		return Outcome{Finished: true, Draw: true}
	}

	return Outcome{}
}
