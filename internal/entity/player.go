package entity

import "fmt"

// Player is the color that owns a stone. Its numeric value matches the Cell it occupies.
type Player int

const (
	PlayerNone Player = iota
	PlayerBlack
	PlayerWhite
)

const (
	Human = PlayerBlack
	AI    = PlayerWhite
)

func (that Player) Cell() Cell {
	switch that {
	case PlayerBlack:
		return CellBlack
	case PlayerWhite:
		return CellWhite
	default:
		return CellEmpty
	}
}

func (that Player) Opponent() Player {
	switch that {
	case PlayerBlack:
		return PlayerWhite
	case PlayerWhite:
		return PlayerBlack
	default:
		return PlayerNone
	}
}

func (that Player) String() string {
	switch that {
	case PlayerBlack:
		return "black"
	case PlayerWhite:
		return "white"
	default:
		return "none"
	}
}

func (that Player) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Player) UnmarshalText(text []byte) error {
	switch string(text) {
	case "black":
		*that = PlayerBlack
	case "white":
		*that = PlayerWhite
	case "none", "":
		*that = PlayerNone
	default:
		return fmt.Errorf("unknown player %q", text)
	}

	return nil
}
