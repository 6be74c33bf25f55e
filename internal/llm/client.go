package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/futz12/llm-gobang/internal/apperror"
)

const maxErrorBody = 512

// Client posts streaming chat-completion requests.
type Client struct {
	logger     *slog.Logger
	httpClient *http.Client

	url    string
	apiKey string
}

func NewClient(logger *slog.Logger, httpClient *http.Client, url, apiKey string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		logger:     logger.With("component", "llm"),
		httpClient: httpClient,
		url:        url,
		apiKey:     apiKey,
	}
}

// StreamChat sends the request and parses the event stream. Decode errors of single chunks are
// counted in the result; connection and HTTP status failures wrap ErrStreamTransport.
func (that *Client) StreamChat(ctx context.Context, req ChatRequest, onEvent func(StreamEvent)) (StreamResult, error) {
	log := that.logger.With("method", "StreamChat", "model", req.Model)

	req.Stream = true

	body, err := json.Marshal(req)
	if err != nil {
		return StreamResult{}, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, that.url, bytes.NewReader(body))
	if err != nil {
		return StreamResult{}, fmt.Errorf("failed to build chat request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	if auth := that.authorization(); auth != "" {
		httpReq.Header.Set("Authorization", auth)
	}

	resp, err := that.httpClient.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return StreamResult{}, fmt.Errorf("chat request canceled: %w", ctxErr)
		}

		return StreamResult{}, fmt.Errorf("%w: %w", apperror.ErrStreamTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Error("chat endpoint returned an error status", "status", resp.StatusCode, "body", string(snippet))

		return StreamResult{}, fmt.Errorf("%w: status %d: %s", apperror.ErrStreamTransport, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	result, err := ReadStream(ctx, resp.Body, onEvent)
	if err != nil {
		return result, err
	}

	log.Debug("stream finished", "content_len", len(result.Content), "decode_errors", result.DecodeErrors, "completed", result.Completed)

	return result, nil
}

// authorization accepts both a bare key and a full "Bearer ..." header value.
func (that *Client) authorization() string {
	key := strings.TrimSpace(that.apiKey)
	if key == "" {
		return ""
	}

	if strings.HasPrefix(strings.ToLower(key), "bearer ") {
		return key
	}

	return "Bearer " + key
}
