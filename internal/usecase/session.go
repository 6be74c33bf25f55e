package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/futz12/llm-gobang/internal/apperror"
	"github.com/futz12/llm-gobang/internal/entity"
	"github.com/futz12/llm-gobang/internal/gomoku"
	"github.com/futz12/llm-gobang/internal/service"
)

const (
	defaultCancelGrace = 500 * time.Millisecond
	defaultEventBuffer = 16
)

type botService interface {
	NextMove(ctx context.Context, board entity.Board) (service.Decision, error)
}

type Options struct {
	// CancelGrace bounds how long Reset and Close wait for a canceled AI worker.
	CancelGrace time.Duration
	EventBuffer int
}

// aiRequest identifies the AI worker currently allowed to deliver a move.
type aiRequest struct {
	seq    uint64
	cancel context.CancelFunc
	done   chan struct{}
}

type aiResult struct {
	seq      uint64
	decision service.Decision
	err      error
}

// Session is one game between the human and the AI. All game state is owned by a single
// goroutine; exported methods hand it commands and wait for the answer, AI workers hand it
// results. Nothing else touches the board.
type Session struct {
	id      string
	logger  *slog.Logger
	bot     botService
	options Options

	commands  chan func()
	results   chan aiResult
	closing   chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once

	// owned by the loop goroutine
	board       *entity.Board
	state       State
	outcome     gomoku.Outcome
	lastMove    *entity.Move
	moves       int
	seq         uint64
	pending     *aiRequest
	subscribers map[int]chan Event
	nextSub     int
}

func NewSession(logger *slog.Logger, id string, bot botService, options Options) *Session {
	if options.CancelGrace <= 0 {
		options.CancelGrace = defaultCancelGrace
	}

	if options.EventBuffer <= 0 {
		options.EventBuffer = defaultEventBuffer
	}

	session := &Session{
		id:      id,
		logger:  logger.With("component", "session", "gameID", id),
		bot:     bot,
		options: options,

		commands: make(chan func()),
		results:  make(chan aiResult, 1),
		closing:  make(chan struct{}),
		stopped:  make(chan struct{}),

		board:       entity.NewBoard(),
		state:       StateHumanTurn,
		subscribers: make(map[int]chan Event),
	}

	go session.loop()

	return session
}

func (that *Session) ID() string {
	return that.id
}

// SubmitHumanMove places a black stone and, unless the game ended, starts the AI turn.
func (that *Session) SubmitHumanMove(ctx context.Context, row, col int) error {
	var err error
	if doErr := that.do(ctx, func() { err = that.humanMove(row, col) }); doErr != nil {
		return doErr
	}

	return err
}

// Reset cancels any AI request in flight and starts a new game.
func (that *Session) Reset(ctx context.Context) error {
	return that.do(ctx, that.reset)
}

func (that *Session) Status(ctx context.Context) (Status, error) {
	var status Status
	err := that.do(ctx, func() { status = that.status() })

	return status, err
}

// Board returns a copy of the live board.
func (that *Session) Board(ctx context.Context) (entity.Board, error) {
	var board entity.Board
	err := that.do(ctx, func() { board = that.board.Snapshot() })

	return board, err
}

func (that *Session) State(ctx context.Context) (State, error) {
	var state State
	err := that.do(ctx, func() { state = that.state })

	return state, err
}

// Subscribe registers an event listener. Events are dropped for a listener whose buffer is full.
// The channel is closed by the returned cancel func or when the session closes.
func (that *Session) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, that.options.EventBuffer)

	var id int
	err := that.do(context.Background(), func() {
		id = that.nextSub
		that.nextSub++
		that.subscribers[id] = ch
	})
	if err != nil {
		close(ch)
		return ch, func() {}
	}

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			_ = that.do(context.Background(), func() {
				if sub, ok := that.subscribers[id]; ok {
					delete(that.subscribers, id)
					close(sub)
				}
			})
		})
	}

	return ch, unsubscribe
}

// Close stops the session. A pending AI request is canceled and awaited for the grace period.
func (that *Session) Close() error {
	that.closeOnce.Do(func() {
		close(that.closing)
	})
	<-that.stopped

	return nil
}

// do runs fn on the loop goroutine and waits for it to finish.
func (that *Session) do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	cmd := func() {
		defer close(done)
		fn()
	}

	select {
	case that.commands <- cmd:
	case <-that.stopped:
		return apperror.ErrSessionClosed
	case <-ctx.Done():
		return fmt.Errorf("session command canceled: %w", ctx.Err())
	}

	<-done

	return nil
}

func (that *Session) loop() {
	defer close(that.stopped)

	for {
		select {
		case cmd := <-that.commands:
			cmd()
		case result := <-that.results:
			that.applyAIResult(result)
		case <-that.closing:
			that.cancelPending("close")
			for id, sub := range that.subscribers {
				delete(that.subscribers, id)
				close(sub)
			}
			that.logger.Info("session closed")
			return
		}
	}
}

func (that *Session) humanMove(row, col int) error {
	switch that.state {
	case StateGameOver:
		return apperror.ErrGameFinished
	case StateAIPending:
		return fmt.Errorf("%w: ai is thinking", apperror.ErrNotYourTurn)
	case StateHumanTurn:
	}

	move := entity.Move{Row: row, Col: col, Player: entity.Human}
	if err := that.board.Place(row, col, move.Player); err != nil {
		return fmt.Errorf("failed to place human stone: %w", err)
	}

	if that.applied(move, "") {
		return nil
	}

	return that.startAI()
}

// applied records a placed move, emits its events and reports whether the game ended.
func (that *Session) applied(move entity.Move, source service.Source) bool {
	that.moves++
	that.lastMove = &move
	that.emit(Event{Type: EventMoveApplied, Move: &move, Source: source})

	outcome := gomoku.Evaluate(that.board, move)
	if !outcome.Finished {
		return false
	}

	that.finish(outcome)

	return true
}

func (that *Session) finish(outcome gomoku.Outcome) {
	that.state = StateGameOver
	that.outcome = outcome
	that.emit(Event{Type: EventGameOver, Winner: outcome.Winner, Draw: outcome.Draw})
	that.logger.Info("game over", "winner", outcome.Winner, "draw", outcome.Draw, "moves", that.moves)
}

func (that *Session) startAI() error {
	if that.pending != nil {
		return apperror.ErrAIPending
	}

	that.seq++
	ctx, cancel := context.WithCancel(context.Background())
	req := &aiRequest{seq: that.seq, cancel: cancel, done: make(chan struct{})}

	that.pending = req
	that.state = StateAIPending

	go that.runWorker(ctx, req, that.board.Snapshot())

	return nil
}

func (that *Session) runWorker(ctx context.Context, req *aiRequest, board entity.Board) {
	defer close(req.done)

	decision, err := that.bot.NextMove(ctx, board)

	select {
	case that.results <- aiResult{seq: req.seq, decision: decision, err: err}:
	case <-that.closing:
	}
}

func (that *Session) applyAIResult(result aiResult) {
	log := that.logger.With("method", "applyAIResult", "seq", result.seq)

	if that.pending == nil || that.pending.seq != result.seq || that.state != StateAIPending {
		log.Debug("discarding stale ai result")
		return
	}

	that.pending.cancel()
	that.pending = nil

	if result.err != nil {
		that.aiFailed(log, result.err)
		return
	}

	position := result.decision.Position
	move := entity.Move{Row: position.Row, Col: position.Col, Player: entity.AI}
	if err := that.board.Place(move.Row, move.Col, move.Player); err != nil {
		that.aiFailed(log, fmt.Errorf("failed to place ai stone: %w", err))
		return
	}

	if that.applied(move, result.decision.Source) {
		return
	}

	that.state = StateHumanTurn
}

func (that *Session) aiFailed(log *slog.Logger, err error) {
	that.emit(Event{Type: EventAIError, Message: err.Error()})

	if errors.Is(err, apperror.ErrBoardFull) {
		log.Error("no move left for the ai", "error", err)
		that.finish(gomoku.Outcome{Finished: true, Draw: true})
		return
	}

	log.Error("ai move failed, turn returns to the human", "error", err)
	that.state = StateHumanTurn
}

func (that *Session) reset() {
	that.cancelPending("reset")

	that.board = entity.NewBoard()
	that.state = StateHumanTurn
	that.outcome = gomoku.Outcome{}
	that.lastMove = nil
	that.moves = 0

	that.emit(Event{Type: EventReset})
	that.logger.Info("game reset")
}

// cancelPending cancels the AI worker and waits for it at most CancelGrace. Results arriving in
// the meantime are stale and get discarded.
func (that *Session) cancelPending(reason string) {
	req := that.pending
	if req == nil {
		return
	}

	that.pending = nil
	req.cancel()

	timer := time.NewTimer(that.options.CancelGrace)
	defer timer.Stop()

	for {
		select {
		case <-req.done:
			return
		case result := <-that.results:
			that.applyAIResult(result)
		case <-timer.C:
			that.logger.Warn("ai worker did not stop in time", "reason", reason, "grace", that.options.CancelGrace)
			return
		}
	}
}

func (that *Session) emit(event Event) {
	for id, sub := range that.subscribers {
		select {
		case sub <- event:
		default:
			that.logger.Warn("subscriber is not keeping up, event dropped", "subscriber", id, "event", event.Type)
		}
	}
}

func (that *Session) status() Status {
	status := Status{
		ID:     that.id,
		State:  that.state,
		Board:  that.board.Grid(),
		Winner: that.outcome.Winner,
		Draw:   that.outcome.Draw,
		Moves:  that.moves,
	}

	if that.lastMove != nil {
		last := *that.lastMove
		status.LastMove = &last
	}

	return status
}
