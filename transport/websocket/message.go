package websocket

import (
	"encoding/json"

	"github.com/futz12/llm-gobang/internal/usecase"
)

const (
	actionNewGame  = "game:new"
	actionState    = "game:state"
	actionTurn     = "game:turn"
	actionReset    = "game:reset"
	actionMove     = "game:move"
	actionOver     = "game:over"
	actionAIError  = "game:ai_error"
	actionPing     = "ping"
	actionError    = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type TurnPayload struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type ResponsePayload struct {
	Game  *usecase.Status `json:"game,omitempty"`
	Event *usecase.Event  `json:"event,omitempty"`
	Error string          `json:"error,omitempty"`
}

// eventAction names the pushed message for a session event.
func eventAction(event usecase.Event) string {
	switch event.Type {
	case usecase.EventMoveApplied:
		return actionMove
	case usecase.EventGameOver:
		return actionOver
	case usecase.EventAIError:
		return actionAIError
	case usecase.EventReset:
		return actionReset
	default:
		return string(event.Type)
	}
}

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}

	return b
}
