package llm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/futz12/llm-gobang/internal/apperror"
	"github.com/futz12/llm-gobang/internal/entity"
)

const (
	OpenTag  = "<move>"
	CloseTag = "</move>"
)

type ParsedMove struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (that ParsedMove) String() string {
	return fmt.Sprintf("%d,%d", that.Row, that.Col)
}

// ParseMove extracts the first tagged move from model output. The interior must be exactly two
// integers in board range separated by one comma.
func ParseMove(content string) (ParsedMove, error) {
	start := strings.Index(content, OpenTag)
	if start < 0 {
		return ParsedMove{}, fmt.Errorf("%w: opening tag not found", apperror.ErrMoveParse)
	}

	rest := content[start+len(OpenTag):]

	end := strings.Index(rest, CloseTag)
	if end < 0 {
		return ParsedMove{}, fmt.Errorf("%w: closing tag not found", apperror.ErrMoveParse)
	}

	return ParseCoordinates(rest[:end])
}

// ParseCoordinates parses a bare "row,col" pair.
func ParseCoordinates(text string) (ParsedMove, error) {
	parts := strings.Split(text, ",")
	if len(parts) != 2 {
		return ParsedMove{}, fmt.Errorf("%w: expected row,col, got %q", apperror.ErrMoveParse, text)
	}

	row, err := parseCoordinate(parts[0])
	if err != nil {
		return ParsedMove{}, err
	}

	col, err := parseCoordinate(parts[1])
	if err != nil {
		return ParsedMove{}, err
	}

	return ParsedMove{Row: row, Col: col}, nil
}

func parseCoordinate(text string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", apperror.ErrMoveParse, text)
	}

	if value < 0 || value >= entity.Size {
		return 0, fmt.Errorf("%w: %d is outside the board", apperror.ErrMoveParse, value)
	}

	return value, nil
}
