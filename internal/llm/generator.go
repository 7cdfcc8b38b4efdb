package llm

import (
	"context"
	"fmt"

	"github.com/ppiankov/verdict/internal/model"
)

// Generator turns a dispute and verdict into reasoning text through an LLM
// provider. A Generator without a provider is disabled.
type Generator struct {
	provider Provider
	config   Config
}

// NewGenerator creates a generator for the configured provider
func NewGenerator(config Config) (*Generator, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}

	return &Generator{
		provider: provider,
		config:   config,
	}, nil
}

// NewGeneratorWithProvider wraps an existing provider
func NewGeneratorWithProvider(provider Provider, config Config) *Generator {
	return &Generator{provider: provider, config: config}
}

// IsEnabled reports whether a provider is configured
func (g *Generator) IsEnabled() bool {
	return g != nil && g.provider != nil
}

// Name labels the generator as provider/model for provenance
func (g *Generator) Name() string {
	if !g.IsEnabled() {
		return ""
	}
	if g.config.Model == "" {
		return g.provider.Name()
	}
	return g.provider.Name() + "/" + g.config.Model
}

// IsAvailable asks the provider whether it can serve requests
func (g *Generator) IsAvailable(ctx context.Context) bool {
	return g.IsEnabled() && g.provider.IsAvailable(ctx)
}

// Generate produces cleaned reasoning for the dispute. It makes exactly
// one provider call.
func (g *Generator) Generate(ctx context.Context, d model.Dispute, v model.Verdict) (string, error) {
	if !g.IsEnabled() {
		return "", fmt.Errorf("LLM provider not configured")
	}

	prompt := BuildPrompt(d, v)
	resp, err := g.provider.Generate(ctx, GenerateRequest{
		Prompt:    prompt,
		Model:     g.config.Model,
		MaxTokens: g.config.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", g.provider.Name(), err)
	}
	if resp == nil {
		return "", fmt.Errorf("%s: %w", g.provider.Name(), ErrNoResponse)
	}

	return ExtractReasoning(prompt, resp.Text)
}
