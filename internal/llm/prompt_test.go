package llm

import (
	"strings"
	"testing"

	"github.com/futz12/llm-gobang/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessages(t *testing.T) {
	// Given: a board with one stone of each color
	board := entity.NewBoard()
	require.NoError(t, board.Place(7, 7, entity.PlayerBlack))
	require.NoError(t, board.Place(7, 8, entity.PlayerWhite))

	// When: the move request messages are built
	messages := BuildMessages(board.Snapshot())

	// Then: a system message carries the output contract and the user message carries the board
	require.Len(t, messages, 2)
	assert.Equal(t, RoleSystem, messages[0].Role)
	assert.Contains(t, messages[0].Content, OpenTag+"row,col"+CloseTag)
	assert.Contains(t, messages[0].Content, "white")

	assert.Equal(t, RoleUser, messages[1].Role)
	user := messages[1].Content
	lines := strings.Split(user, "\n")
	assert.Equal(t, "000000000000000", lines[0])
	assert.Equal(t, "000000012000000", lines[7])
	assert.Contains(t, user, "Occupied cells:\n(7,7) black\n(7,8) white\n")
	assert.True(t, strings.HasSuffix(user, movePrompt))
}

func TestBuildMessages_IsPure(t *testing.T) {
	board := entity.NewBoard()
	require.NoError(t, board.Place(0, 0, entity.PlayerBlack))

	first := BuildMessages(board.Snapshot())
	second := BuildMessages(board.Snapshot())

	assert.Equal(t, first, second)
	assert.Equal(t, 1, board.Stones())
}

func TestNewChatRequest(t *testing.T) {
	params := Params{
		Model:            "Qwen/Qwen3-8B",
		MaxTokens:        8192,
		EnableThinking:   true,
		ThinkingBudget:   2048,
		MinP:             0.05,
		Temperature:      0.9,
		TopP:             0.9,
		TopK:             50,
		FrequencyPenalty: 0.5,
	}

	req := NewChatRequest(params, entity.NewBoard().Snapshot())

	assert.True(t, req.Stream)
	assert.Equal(t, params.Model, req.Model)
	assert.Equal(t, 8192, req.MaxTokens)
	assert.Equal(t, 50, req.TopK)
	assert.Equal(t, 1, req.N)
	assert.NotNil(t, req.Stop)
	assert.Len(t, req.Messages, 2)
}
