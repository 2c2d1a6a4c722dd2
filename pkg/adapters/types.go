package adapters

import (
	"time"

	"helios-labs/prism/pkg/resilience"
)

// AuthorType identifies who produced a message.
type AuthorType string

const (
	AuthorUser      AuthorType = "user"
	AuthorAssistant AuthorType = "assistant"
)

// Message is one turn of conversation context. Produced by the caller;
// adapters treat it as read-only.
type Message struct {
	// ID is the caller's identifier for this message.
	ID string `json:"id"`

	// AuthorType is who wrote the message (user or assistant).
	AuthorType AuthorType `json:"author_type"`

	// Content is the message text.
	Content string `json:"content"`

	// Tokens is the known token count for Content. Zero means unknown;
	// CheckContextWindow falls back to the estimator.
	Tokens int `json:"tokens,omitempty"`
}

// GenerateRequest carries one completion call.
type GenerateRequest struct {
	// Messages is the conversation context, oldest first. May be empty.
	Messages []Message `json:"messages"`

	// SystemPrompt is prepended as the highest-priority instruction.
	SystemPrompt string `json:"system_prompt,omitempty"`

	// ReplyTo lists the message IDs this response answers. Echoed back
	// on the AIResponse unchanged.
	ReplyTo []string `json:"reply_to,omitempty"`

	// MaxTokens caps the completion length. Zero uses the adapter's
	// configured default.
	MaxTokens int `json:"max_tokens,omitempty"`

	// Temperature overrides the adapter default when > 0.
	Temperature float64 `json:"temperature,omitempty"`
}

// AIResponse is the normalized result of one completion call. Created
// fresh per call; owned by the caller once returned.
type AIResponse struct {
	// ID uniquely identifies this response.
	ID string `json:"id"`

	// Content is the generated text.
	Content string `json:"content"`

	// Model is the model identifier that produced the response.
	Model string `json:"model"`

	// Provider is the adapter type that served the call.
	Provider string `json:"provider"`

	// Tokens is the completion-side token count: provider-reported when
	// available, otherwise estimated.
	Tokens int `json:"tokens"`

	// ReplyTo echoes the request's ReplyTo ids, possibly empty. Copied,
	// never aliased.
	ReplyTo []string `json:"reply_to"`

	// ContextUsed is the prompt-side token count: provider-reported when
	// available, otherwise the context window sum of what was sent.
	ContextUsed int `json:"context_used"`

	// FinishReason is the normalized stop reason (stop, length, ...).
	FinishReason string `json:"finish_reason,omitempty"`

	// Usage is the full token accounting for the call.
	Usage TokenUsage `json:"usage"`

	// Created is when the response was assembled.
	Created time.Time `json:"created"`

	// Latency is the wall-clock duration of the call, retries included.
	Latency time.Duration `json:"latency"`
}

// TokenUsage is provider-reported token consumption.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Health tracks observed adapter health.
type Health struct {
	// Healthy is the verdict of the most recent probe or request.
	Healthy bool

	// LastCheck is when health was last updated.
	LastCheck time.Time

	// LastError is the most recent failure, nil while healthy.
	LastError error

	// ConsecutiveFailures counts sequential failures.
	ConsecutiveFailures int

	// LastSuccessfulRequest is when a request last succeeded.
	LastSuccessfulRequest time.Time

	// TotalRequests counts every completed call.
	TotalRequests int64

	// FailedRequests counts calls that ended in error.
	FailedRequests int64
}

// Config configures one adapter instance. Credentials arrive already
// validated; sourcing them is the caller's concern.
type Config struct {
	// Name is the adapter identity, usually the composite id
	// ("anthropic/claude-3.5-sonnet") or an alias ("claude").
	Name string

	// Type selects the wire protocol (openai, anthropic, openrouter, gemini).
	Type string

	// Model is the provider-side model identifier.
	Model string

	// BaseURL overrides the provider's default endpoint.
	BaseURL string

	// APIKey authenticates requests.
	APIKey string

	// Timeout bounds each HTTP attempt.
	Timeout time.Duration

	// MaxTokens is the default completion budget per request.
	MaxTokens int

	// Temperature is the default sampling temperature.
	Temperature float64

	// Headers are extra headers sent on every request.
	Headers map[string]string

	// MaxRetries is the retry budget per call (attempts = MaxRetries+1).
	MaxRetries int

	// InitialDelay seeds the exponential backoff schedule.
	InitialDelay time.Duration

	// RetryableErrors lists the error tags worth retrying. Nil uses
	// the full transient set.
	RetryableErrors []resilience.Tag

	// FailureThreshold trips the breaker after this many consecutive
	// failed call sequences.
	FailureThreshold int

	// ResetTimeout is how long the breaker stays open before probing.
	ResetTimeout time.Duration

	// HealthCheckInterval is how often the background checker probes.
	HealthCheckInterval time.Duration

	// Connection pool tuning.
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
}

// Provider type constants.
const (
	TypeOpenAI     = "openai"
	TypeAnthropic  = "anthropic"
	TypeOpenRouter = "openrouter"
	TypeGemini     = "gemini"
)

// Wire-level role constants shared by the OpenAI-compatible protocols.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Role maps an author type to the wire-level role name.
func (t AuthorType) Role() string {
	if t == AuthorAssistant {
		return RoleAssistant
	}
	return RoleUser
}
