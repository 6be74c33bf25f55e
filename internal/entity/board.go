package entity

import (
	"fmt"
	"strings"

	"github.com/futz12/llm-gobang/internal/apperror"
)

// Size is the side length of the board.
const Size = 15

type Cell int

const (
	CellEmpty Cell = iota
	CellBlack
	CellWhite
)

func (that Cell) String() string {
	switch that {
	case CellBlack:
		return "black"
	case CellWhite:
		return "white"
	default:
		return "empty"
	}
}

// Player returns the owner of a stone, PlayerNone for an empty cell.
func (that Cell) Player() Player {
	switch that {
	case CellBlack:
		return PlayerBlack
	case CellWhite:
		return PlayerWhite
	default:
		return PlayerNone
	}
}

type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type Move struct {
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Player Player `json:"player"`
}

func (that Move) Position() Position {
	return Position{Row: that.Row, Col: that.Col}
}

// Board is a fixed-size grid. It is a plain value, so assigning or returning it copies every cell.
type Board struct {
	cells [Size][Size]Cell
}

func NewBoard() *Board {
	return &Board{}
}

func InBounds(row, col int) bool {
	return row >= 0 && row < Size && col >= 0 && col < Size
}

func (that *Board) IsEmpty(row, col int) (bool, error) {
	if !InBounds(row, col) {
		return false, fmt.Errorf("%w: (%d,%d)", apperror.ErrOutOfRange, row, col)
	}

	return that.cells[row][col] == CellEmpty, nil
}

// Place puts a stone on an empty cell. It is the only method that mutates the board.
func (that *Board) Place(row, col int, player Player) error {
	empty, err := that.IsEmpty(row, col)
	if err != nil {
		return err
	}

	if !empty {
		return fmt.Errorf("%w: (%d,%d)", apperror.ErrCellOccupied, row, col)
	}

	that.cells[row][col] = player.Cell()

	return nil
}

// At returns the cell value, CellEmpty for coordinates outside the board.
func (that *Board) At(row, col int) Cell {
	if !InBounds(row, col) {
		return CellEmpty
	}

	return that.cells[row][col]
}

// Snapshot returns a detached copy of the board.
func (that *Board) Snapshot() Board {
	return *that
}

// Grid returns a copy of the cells for read-only consumers.
func (that *Board) Grid() [Size][Size]Cell {
	return that.cells
}

func (that *Board) EmptyCells() []Position {
	positions := make([]Position, 0, Size*Size)
	for row := range that.cells {
		for col, cell := range that.cells[row] {
			if cell == CellEmpty {
				positions = append(positions, Position{Row: row, Col: col})
			}
		}
	}

	return positions
}

func (that *Board) IsFull() bool {
	for row := range that.cells {
		for _, cell := range that.cells[row] {
			if cell == CellEmpty {
				return false
			}
		}
	}

	return true
}

// Stones counts the occupied cells.
func (that *Board) Stones() int {
	count := 0
	for row := range that.cells {
		for _, cell := range that.cells[row] {
			if cell != CellEmpty {
				count++
			}
		}
	}

	return count
}

// String renders the board row by row using the digits 0, 1 and 2.
func (that *Board) String() string {
	var sb strings.Builder
	sb.Grow(Size * (Size + 1))

	for row := range that.cells {
		for _, cell := range that.cells[row] {
			sb.WriteByte(byte('0' + cell))
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}
