package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/futz12/llm-gobang/internal/apperror"
	"github.com/futz12/llm-gobang/internal/entity"
	"github.com/futz12/llm-gobang/internal/service"
	"github.com/futz12/llm-gobang/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// firstEmptyBot answers with the first empty cell in row-major order.
type firstEmptyBot struct{}

func (firstEmptyBot) NextMove(_ context.Context, board entity.Board) (service.Decision, error) {
	empty := board.EmptyCells()
	if len(empty) == 0 {
		return service.Decision{}, apperror.ErrBoardFull
	}

	return service.Decision{Position: empty[0], Source: service.SourceModel}, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *usecase.GameManager) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := usecase.NewGameManager(logger, firstEmptyBot{}, usecase.Options{CancelGrace: 50 * time.Millisecond})
	server := httptest.NewServer(NewRouter(NewPingHandler(), NewGameHandlers(logger, manager)))

	t.Cleanup(func() {
		server.Close()
		_ = manager.CloseAll()
	})

	return server, manager
}

func do(t *testing.T, method, url, body string) (int, map[string]any) {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), method, url, strings.NewReader(body))
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), string(raw))
	}

	return resp.StatusCode, decoded
}

func createGame(t *testing.T, server *httptest.Server) string {
	t.Helper()

	code, body := do(t, http.MethodPost, server.URL+"/api/games", "")
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "human_turn", body["state"])

	id, ok := body["id"].(string)
	require.True(t, ok)

	return id
}

func TestPing(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pong", string(raw))
}

func TestGameHandlers_Flow(t *testing.T) {
	// Given: a new game
	server, _ := newTestServer(t)
	id := createGame(t, server)
	gameURL := server.URL + "/api/games/" + id

	// When: the human plays the centre
	code, body := do(t, http.MethodPost, gameURL+"/moves", `{"row": 7, "col": 7}`)
	require.Equal(t, http.StatusOK, code, body)

	// Then: the ai answers and the turn returns to the human
	require.Eventually(t, func() bool {
		_, body = do(t, http.MethodGet, gameURL, "")
		return body["state"] == "human_turn" && body["moves"] == float64(2)
	}, 2*time.Second, 10*time.Millisecond)

	board, ok := body["board"].([]any)
	require.True(t, ok)
	assert.Equal(t, float64(entity.CellBlack), board[7].([]any)[7])
	assert.Equal(t, float64(entity.CellWhite), board[0].([]any)[0])

	// When: the game is reset
	code, body = do(t, http.MethodPost, gameURL+"/reset", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), body["moves"])

	// When: the game is ended
	code, _ = do(t, http.MethodDelete, gameURL, "")
	require.Equal(t, http.StatusNoContent, code)

	code, _ = do(t, http.MethodGet, gameURL, "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestGameHandlers_Errors(t *testing.T) {
	server, _ := newTestServer(t)
	id := createGame(t, server)
	gameURL := server.URL + "/api/games/" + id

	tests := []struct {
		name string
		body string
		code int
	}{
		{name: "Invalid json", body: `{"row":`, code: http.StatusBadRequest},
		{name: "Missing column", body: `{"row": 1}`, code: http.StatusBadRequest},
		{name: "Out of range", body: `{"row": 15, "col": 0}`, code: http.StatusBadRequest},
		{name: "Negative", body: `{"row": -1, "col": 3}`, code: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := do(t, http.MethodPost, gameURL+"/moves", tt.body)

			assert.Equal(t, tt.code, code)
			assert.NotEmpty(t, body["error"])
		})
	}

	t.Run("Occupied cell", func(t *testing.T) {
		code, _ := do(t, http.MethodPost, gameURL+"/moves", `{"row": 3, "col": 3}`)
		require.Equal(t, http.StatusOK, code)
		require.Eventually(t, func() bool {
			_, body := do(t, http.MethodGet, gameURL, "")
			return body["state"] == "human_turn"
		}, 2*time.Second, 10*time.Millisecond)

		code, body := do(t, http.MethodPost, gameURL+"/moves", `{"row": 3, "col": 3}`)
		assert.Equal(t, http.StatusConflict, code)
		assert.Contains(t, body["error"], apperror.ErrCellOccupied.Error())
	})

	t.Run("Unknown game", func(t *testing.T) {
		code, _ := do(t, http.MethodPost, server.URL+"/api/games/nope/moves", `{"row": 1, "col": 1}`)
		assert.Equal(t, http.StatusNotFound, code)

		code, _ = do(t, http.MethodDelete, server.URL+"/api/games/nope", "")
		assert.Equal(t, http.StatusNotFound, code)
	})
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{err: apperror.ErrOutOfRange, code: http.StatusBadRequest},
		{err: fmt.Errorf("wrapped: %w", apperror.ErrCellOccupied), code: http.StatusConflict},
		{err: apperror.ErrNotYourTurn, code: http.StatusConflict},
		{err: apperror.ErrAIPending, code: http.StatusConflict},
		{err: apperror.ErrGameFinished, code: http.StatusConflict},
		{err: apperror.ErrSessionNotFound, code: http.StatusNotFound},
		{err: apperror.ErrSessionClosed, code: http.StatusGone},
		{err: context.Canceled, code: http.StatusServiceUnavailable},
		{err: io.ErrUnexpectedEOF, code: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.code, StatusCode(tt.err), tt.err.Error())
	}
}
