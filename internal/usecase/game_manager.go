package usecase

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/futz12/llm-gobang/internal/apperror"
	"github.com/futz12/llm-gobang/internal/pkg"
	"github.com/hashicorp/go-multierror"
)

// GameManager keeps the live sessions by id.
type GameManager struct {
	logger  *slog.Logger
	bot     botService
	options Options

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewGameManager(logger *slog.Logger, bot botService, options Options) *GameManager {
	return &GameManager{
		logger:  logger,
		bot:     bot,
		options: options,

		sessions: make(map[string]*Session),
	}
}

func (that *GameManager) CreateGame() (*Session, error) {
	log := that.logger.With("method", "CreateGame")

	id, err := pkg.GenerateNewSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate game id: %w", err)
	}

	session := NewSession(that.logger, id, that.bot, that.options)

	that.mu.Lock()
	that.sessions[id] = session
	that.mu.Unlock()

	log.Info("game created", "gameID", id)

	return session, nil
}

func (that *GameManager) GetGame(id string) (*Session, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	session, ok := that.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, id)
	}

	return session, nil
}

// EndGame closes the session and forgets it.
func (that *GameManager) EndGame(id string) error {
	that.mu.Lock()
	session, ok := that.sessions[id]
	delete(that.sessions, id)
	that.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, id)
	}

	if err := session.Close(); err != nil {
		return fmt.Errorf("failed to close game %s: %w", id, err)
	}

	that.logger.Info("game ended", "gameID", id)

	return nil
}

func (that *GameManager) Count() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.sessions)
}

// CloseAll closes every session, used on shutdown.
func (that *GameManager) CloseAll() error {
	that.mu.Lock()
	sessions := that.sessions
	that.sessions = make(map[string]*Session)
	that.mu.Unlock()

	var result *multierror.Error

	for id, session := range sessions {
		if err := session.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("failed to close game %s: %w", id, err))
		}
	}

	return result.ErrorOrNil()
}
