package websocket

import (
	"log/slog"
	"sync"

	"github.com/futz12/llm-gobang/internal/usecase"
)

const sendBuffer = 32

// client is one websocket connection. It follows at most one game at a time.
type client struct {
	logger *slog.Logger
	send   chan []byte
	done   chan struct{}
	once   sync.Once

	mu          sync.Mutex
	session     *usecase.Session
	unsubscribe func()
	owned       []string
}

func newClient(logger *slog.Logger) *client {
	return &client{
		logger: logger,
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
	}
}

func (that *client) sendMessage(action string, payload ResponsePayload) {
	msg := mustMarshal(Message{Action: action, Payload: mustMarshal(payload)})

	select {
	case <-that.done:
	case that.send <- msg:
	default:
		that.logger.Warn("client send buffer full, message dropped", "action", action)
	}
}

// follow switches the client to session and forwards its events until the next switch.
func (that *client) follow(session *usecase.Session) {
	events, unsubscribe := session.Subscribe()

	that.mu.Lock()
	previous := that.unsubscribe
	that.session = session
	that.unsubscribe = unsubscribe
	that.mu.Unlock()

	if previous != nil {
		previous()
	}

	go func() {
		for event := range events {
			that.sendMessage(eventAction(event), ResponsePayload{Event: &event})
		}
	}()
}

func (that *client) current() *usecase.Session {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.session
}

func (that *client) own(id string) {
	that.mu.Lock()
	that.owned = append(that.owned, id)
	that.mu.Unlock()
}

// close stops forwarding and returns the ids of games created over this connection.
func (that *client) close() []string {
	that.once.Do(func() { close(that.done) })

	that.mu.Lock()
	unsubscribe := that.unsubscribe
	owned := that.owned
	that.unsubscribe = nil
	that.session = nil
	that.owned = nil
	that.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}

	return owned
}
