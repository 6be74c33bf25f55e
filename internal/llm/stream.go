package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/futz12/llm-gobang/internal/apperror"
)

const (
	doneSentinel = "[DONE]"

	maxLineSize = 1 << 20
)

type EventKind int

const (
	// EventSkip is a line that carries nothing: blank lines, comments, non-data fields.
	EventSkip EventKind = iota
	EventContent
	EventDone
	EventMalformed
)

func (that EventKind) String() string {
	switch that {
	case EventContent:
		return "content"
	case EventDone:
		return "done"
	case EventMalformed:
		return "malformed"
	default:
		return "skip"
	}
}

// StreamEvent is one decoded line of a server-sent event stream.
type StreamEvent struct {
	Kind      EventKind
	Content   string
	Reasoning string
	Err       error
}

// DecodeLine turns one line of the response body into a StreamEvent.
func DecodeLine(line []byte) StreamEvent {
	line = bytes.TrimRight(line, "\r\n")

	if len(bytes.TrimSpace(line)) == 0 || line[0] == ':' {
		return StreamEvent{Kind: EventSkip}
	}

	field, value, found := bytes.Cut(line, []byte(":"))
	if !found {
		return malformed(line, errors.New("missing field separator"))
	}

	switch string(field) {
	case "data":
	case "event", "id", "retry":
		return StreamEvent{Kind: EventSkip}
	default:
		return malformed(line, fmt.Errorf("unknown field %q", field))
	}

	value = bytes.TrimSpace(value)
	if string(value) == doneSentinel {
		return StreamEvent{Kind: EventDone}
	}

	var chunk streamChunk
	if err := json.Unmarshal(value, &chunk); err != nil {
		return malformed(line, err)
	}

	event := StreamEvent{Kind: EventContent}
	if len(chunk.Choices) > 0 {
		event.Content = chunk.Choices[0].Delta.Content
		event.Reasoning = chunk.Choices[0].Delta.ReasoningContent
	}

	return event
}

func malformed(line []byte, err error) StreamEvent {
	const maxQuoted = 64

	if len(line) > maxQuoted {
		line = line[:maxQuoted]
	}

	return StreamEvent{
		Kind: EventMalformed,
		Err:  fmt.Errorf("%w: %q: %w", apperror.ErrStreamDecode, line, err),
	}
}

// StreamParser accumulates the answer text of a stream until the terminal sentinel.
type StreamParser struct {
	content      strings.Builder
	reasoning    strings.Builder
	decodeErrors int
	done         bool
}

// Feed consumes one line and reports whether the stream has reached its terminal sentinel.
// Lines fed after the sentinel are ignored.
func (that *StreamParser) Feed(line []byte) (StreamEvent, bool) {
	if that.done {
		return StreamEvent{Kind: EventSkip}, true
	}

	event := DecodeLine(line)

	switch event.Kind {
	case EventContent:
		that.content.WriteString(event.Content)
		that.reasoning.WriteString(event.Reasoning)
	case EventMalformed:
		that.decodeErrors++
	case EventDone:
		that.done = true
	case EventSkip:
	}

	return event, that.done
}

func (that *StreamParser) Result() StreamResult {
	return StreamResult{
		Content:      that.content.String(),
		Reasoning:    that.reasoning.String(),
		DecodeErrors: that.decodeErrors,
		Completed:    that.done,
	}
}

type StreamResult struct {
	Content      string
	Reasoning    string
	DecodeErrors int
	// Completed is false when the body ended without the terminal sentinel.
	Completed bool
}

// Move extracts the tagged move from the accumulated answer.
func (that StreamResult) Move() (ParsedMove, error) {
	return ParseMove(that.Content)
}

// ReadStream parses a whole response body. onEvent, if set, sees every decoded line.
// A read failure is reported as ErrStreamTransport, cancellation as the context error.
func ReadStream(ctx context.Context, body io.Reader, onEvent func(StreamEvent)) (StreamResult, error) {
	parser := &StreamParser{}

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return parser.Result(), fmt.Errorf("stream canceled: %w", err)
		}

		event, done := parser.Feed(scanner.Bytes())
		if onEvent != nil && event.Kind != EventSkip {
			onEvent(event)
		}

		if done {
			return parser.Result(), nil
		}
	}

	if err := scanner.Err(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return parser.Result(), fmt.Errorf("stream canceled: %w", ctxErr)
		}

		return parser.Result(), fmt.Errorf("%w: failed to read stream: %w", apperror.ErrStreamTransport, err)
	}

	return parser.Result(), nil
}
