package anthropic

import (
	"helios-labs/prism/pkg/adapters"
)

// DefaultMaxTokens is the completion budget when neither the request nor
// the adapter config sets one. The messages API rejects requests without
// max_tokens.
const DefaultMaxTokens = 4096

// leadingTurn is the minimal user turn injected when the transformed
// context would otherwise be empty or open with the assistant; the API
// refuses both.
const leadingTurn = "."

// Messages API wire format.

// MessagesRequest is a messages API request body.
type MessagesRequest struct {
	Model       string         `json:"model"`
	Messages    []MessageParam `json:"messages"`
	System      string         `json:"system,omitempty"`
	MaxTokens   int            `json:"max_tokens"`
	Temperature float64        `json:"temperature,omitempty"`
}

// MessageParam is one conversation turn in the wire format.
type MessageParam struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MessagesResponse is a messages API response body.
type MessagesResponse struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Role       string         `json:"role"`
	Content    []ContentBlock `json:"content"`
	Model      string         `json:"model"`
	StopReason string         `json:"stop_reason"`
	Usage      Usage          `json:"usage"`
}

// ContentBlock is one typed block of response content. Only text blocks
// contribute to the normalized response.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Usage is the messages API token usage block.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// buildRequest maps a generate request onto the messages API format.
//
// The API requires strictly alternating user/assistant turns starting with
// the user, while the incoming context is a raw conversation transcript.
// Consecutive same-author messages therefore coalesce into single turns,
// and a synthetic user turn leads when needed.
func buildRequest(cfg adapters.Config, req *adapters.GenerateRequest) *MessagesRequest {
	var turns []MessageParam
	for _, m := range req.Messages {
		role := m.AuthorType.Role()
		if n := len(turns); n > 0 && turns[n-1].Role == role {
			turns[n-1].Content += "\n\n" + m.Content
			continue
		}
		turns = append(turns, MessageParam{Role: role, Content: m.Content})
	}

	if len(turns) == 0 || turns[0].Role != adapters.RoleUser {
		turns = append([]MessageParam{{Role: adapters.RoleUser, Content: leadingTurn}}, turns...)
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = cfg.MaxTokens
	}
	if maxTokens == 0 {
		maxTokens = DefaultMaxTokens
	}
	temperature := req.Temperature
	if temperature == 0 {
		temperature = cfg.Temperature
	}

	return &MessagesRequest{
		Model:       cfg.Model,
		Messages:    turns,
		System:      req.SystemPrompt,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
}

// contentText concatenates the text blocks of a response.
func contentText(blocks []ContentBlock) string {
	var text string
	for _, b := range blocks {
		if b.Type == "text" {
			text += b.Text
		}
	}
	return text
}

// normalizeStopReason maps messages API stop reasons onto the chat
// completions vocabulary the rest of the stack logs.
func normalizeStopReason(reason string) string {
	switch reason {
	case "end_turn", "stop_sequence":
		return "stop"
	case "max_tokens":
		return "length"
	default:
		return reason
	}
}
