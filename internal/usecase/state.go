package usecase

import (
	"fmt"

	"github.com/futz12/llm-gobang/internal/entity"
	"github.com/futz12/llm-gobang/internal/service"
)

type State int

const (
	StateHumanTurn State = iota
	StateAIPending
	StateGameOver
)

func (that State) String() string {
	switch that {
	case StateHumanTurn:
		return "human_turn"
	case StateAIPending:
		return "ai_pending"
	case StateGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

func (that State) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *State) UnmarshalText(text []byte) error {
	for _, state := range []State{StateHumanTurn, StateAIPending, StateGameOver} {
		if state.String() == string(text) {
			*that = state
			return nil
		}
	}

	return fmt.Errorf("unknown state %q", text)
}

type EventType string

const (
	EventMoveApplied EventType = "move"
	EventGameOver    EventType = "game_over"
	EventAIError     EventType = "ai_error"
	EventReset       EventType = "reset"
)

// Event is delivered to subscribers after every state change they may need to render.
type Event struct {
	Type    EventType      `json:"type"`
	Move    *entity.Move   `json:"move,omitempty"`
	Source  service.Source `json:"source,omitempty"`
	Winner  entity.Player  `json:"winner,omitempty"`
	Draw    bool           `json:"draw,omitempty"`
	Message string         `json:"message,omitempty"`
}

// Status is a consistent view of a session at one instant.
type Status struct {
	ID       string                                `json:"id"`
	State    State                                 `json:"state"`
	Board    [entity.Size][entity.Size]entity.Cell `json:"board"`
	Winner   entity.Player                         `json:"winner"`
	Draw     bool                                  `json:"draw"`
	Moves    int                                   `json:"moves"`
	LastMove *entity.Move                          `json:"last_move,omitempty"`
}
