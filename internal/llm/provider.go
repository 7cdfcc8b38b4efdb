package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/ppiankov/verdict/internal/model"
)

var (
	// ErrNoResponse is returned when a provider answers without any text
	ErrNoResponse = errors.New("no response from provider")

	// ErrDegenerateOutput is returned when the cleaned reasoning is too short to use
	ErrDegenerateOutput = errors.New("degenerate model output")
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate produces free text for the given prompt
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// GenerateRequest contains the input for one completion
type GenerateRequest struct {
	// Prompt is the full user prompt
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// GenerateResponse contains the raw model output
type GenerateResponse struct {
	// Text is the generated text, untrimmed of any echoed prompt
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Temperature for sampling
	Temperature float32

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:    "", // Disabled by default
		Model:       "",
		Timeout:     30,
		MaxTokens:   250,
		Temperature: 0.7,
	}
}

const systemPrompt = "You are an AI Judge. You explain verdicts in small civil disputes in plain, neutral legal language."

// PromptMarker ends every reasoning prompt; the extractor splits on it
const PromptMarker = "Provide a concise legal reasoning (2-3 paragraphs):"

// BuildPrompt constructs the reasoning prompt for a dispute and its verdict.
// Statements are truncated so the prompt stays small.
func BuildPrompt(d model.Dispute, v model.Verdict) string {
	evidence := truncateRunes(d.Evidence, 200)
	if evidence == "" {
		evidence = "None"
	}

	return fmt.Sprintf(`You are an AI Judge. Analyze this case and explain the verdict.

Case Details:
- Plaintiff claims: %s...
- Defendant argues: %s...
- Evidence: %s
- Verdict: %s

%s`, truncateRunes(d.Plaintiff, 300), truncateRunes(d.Defendant, 300), evidence, v, PromptMarker)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
