package llm

import (
	"fmt"
	"strings"

	"github.com/futz12/llm-gobang/internal/entity"
)

const systemPrompt = "You are a Gomoku (five-in-a-row) engine. You will receive a 15x15 board where " +
	"0 is an empty cell, 1 is a black stone and 2 is a white stone. Rows and columns are numbered from 0. " +
	"You play white. Answer with exactly one move written as " + OpenTag + "row,col" + CloseTag + " so it can be parsed, " +
	"and use the same tag if you mention the move while reasoning. " +
	"Never choose a cell that already holds a stone."

const movePrompt = "Using this board, choose a good move. You play white. Put the final move in " +
	OpenTag + "row,col" + CloseTag + ". The cell must be empty."

// BuildMessages serializes a board snapshot into the system and user messages of a move request.
func BuildMessages(board entity.Board) []Message {
	return []Message{
		{Role: RoleSystem, Content: systemPrompt},
		{Role: RoleUser, Content: BoardPrompt(board)},
	}
}

// BoardPrompt renders the grid, the list of occupied cells and the output instruction.
func BoardPrompt(board entity.Board) string {
	var sb strings.Builder

	sb.WriteString(board.String())

	sb.WriteString("Occupied cells:\n")
	for row := 0; row < entity.Size; row++ {
		for col := 0; col < entity.Size; col++ {
			cell := board.At(row, col)
			if cell == entity.CellEmpty {
				continue
			}
			fmt.Fprintf(&sb, "(%d,%d) %s\n", row, col, cell)
		}
	}

	sb.WriteString(movePrompt)

	return sb.String()
}

func NewChatRequest(params Params, board entity.Board) ChatRequest {
	return ChatRequest{
		Model:            params.Model,
		Stream:           true,
		MaxTokens:        params.MaxTokens,
		EnableThinking:   params.EnableThinking,
		ThinkingBudget:   params.ThinkingBudget,
		MinP:             params.MinP,
		Temperature:      params.Temperature,
		TopP:             params.TopP,
		TopK:             params.TopK,
		FrequencyPenalty: params.FrequencyPenalty,
		N:                1,
		Stop:             []string{},
		Messages:         BuildMessages(board),
	}
}
