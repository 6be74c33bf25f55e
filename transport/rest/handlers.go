package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/futz12/llm-gobang/internal/apperror"
	"github.com/futz12/llm-gobang/internal/usecase"
	"github.com/go-chi/chi/v5"
)

type GameHandlers interface {
	CreateGame(w http.ResponseWriter, r *http.Request)
	GetGame(w http.ResponseWriter, r *http.Request)
	MakeMove(w http.ResponseWriter, r *http.Request)
	ResetGame(w http.ResponseWriter, r *http.Request)
	EndGame(w http.ResponseWriter, r *http.Request)
}

type gameManager interface {
	CreateGame() (*usecase.Session, error)
	GetGame(id string) (*usecase.Session, error)
	EndGame(id string) error
}

type moveRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type gameHandlers struct {
	logger *slog.Logger
	games  gameManager
}

func NewGameHandlers(logger *slog.Logger, games gameManager) GameHandlers {
	return &gameHandlers{
		logger: logger.With("component", "rest"),
		games:  games,
	}
}

func (that *gameHandlers) CreateGame(w http.ResponseWriter, r *http.Request) {
	session, err := that.games.CreateGame()
	if err != nil {
		that.writeError(w, "CreateGame", err)
		return
	}

	that.writeStatus(r.Context(), w, http.StatusCreated, "CreateGame", session)
}

func (that *gameHandlers) GetGame(w http.ResponseWriter, r *http.Request) {
	session, err := that.games.GetGame(chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, "GetGame", err)
		return
	}

	that.writeStatus(r.Context(), w, http.StatusOK, "GetGame", session)
}

// MakeMove applies the human move. The AI answers asynchronously, so the returned state is
// usually ai_pending; clients poll GetGame or listen on the websocket.
func (that *gameHandlers) MakeMove(w http.ResponseWriter, r *http.Request) {
	session, err := that.games.GetGame(chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, "MakeMove", err)
		return
	}

	var req moveRequest
	if err = json.NewDecoder(r.Body).Decode(&req); err != nil || req.Row == nil || req.Col == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload, expected {\"row\": int, \"col\": int}"})
		return
	}

	if err = session.SubmitHumanMove(r.Context(), *req.Row, *req.Col); err != nil {
		that.writeError(w, "MakeMove", err)
		return
	}

	that.writeStatus(r.Context(), w, http.StatusOK, "MakeMove", session)
}

func (that *gameHandlers) ResetGame(w http.ResponseWriter, r *http.Request) {
	session, err := that.games.GetGame(chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, "ResetGame", err)
		return
	}

	if err = session.Reset(r.Context()); err != nil {
		that.writeError(w, "ResetGame", err)
		return
	}

	that.writeStatus(r.Context(), w, http.StatusOK, "ResetGame", session)
}

func (that *gameHandlers) EndGame(w http.ResponseWriter, r *http.Request) {
	if err := that.games.EndGame(chi.URLParam(r, "id")); err != nil {
		that.writeError(w, "EndGame", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *gameHandlers) writeStatus(ctx context.Context, w http.ResponseWriter, code int, method string, session *usecase.Session) {
	status, err := session.Status(ctx)
	if err != nil {
		that.writeError(w, method, err)
		return
	}

	writeJSON(w, code, status)
}

func (that *gameHandlers) writeError(w http.ResponseWriter, method string, err error) {
	code := StatusCode(err)
	if code >= http.StatusInternalServerError {
		that.logger.Error("request failed", "method", method, "error", err)
	} else {
		that.logger.Debug("request rejected", "method", method, "error", err)
	}

	writeJSON(w, code, errorResponse{Error: err.Error()})
}

// StatusCode maps domain errors to HTTP status codes.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, apperror.ErrOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrCellOccupied),
		errors.Is(err, apperror.ErrNotYourTurn),
		errors.Is(err, apperror.ErrAIPending),
		errors.Is(err, apperror.ErrGameFinished):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrSessionClosed):
		return http.StatusGone
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
