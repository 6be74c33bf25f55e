package llm

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Params are the generation knobs sent with every move request.
type Params struct {
	Model            string
	MaxTokens        int
	EnableThinking   bool
	ThinkingBudget   int
	MinP             float64
	Temperature      float64
	TopP             float64
	TopK             int
	FrequencyPenalty float64
}

// ChatRequest is the body of a streaming chat-completion call.
type ChatRequest struct {
	Model            string    `json:"model"`
	Stream           bool      `json:"stream"`
	MaxTokens        int       `json:"max_tokens"`
	EnableThinking   bool      `json:"enable_thinking"`
	ThinkingBudget   int       `json:"thinking_budget,omitempty"`
	MinP             float64   `json:"min_p"`
	Temperature      float64   `json:"temperature"`
	TopP             float64   `json:"top_p"`
	TopK             int       `json:"top_k"`
	FrequencyPenalty float64   `json:"frequency_penalty"`
	N                int       `json:"n"`
	Stop             []string  `json:"stop"`
	Messages         []Message `json:"messages"`
}

// streamChunk is one decoded `data:` event. JSON null fields decode to empty strings.
type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content          string `json:"content"`
			ReasoningContent string `json:"reasoning_content"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}
