package summarize

import (
	"context"
	"fmt"

	"wikibrief/internal/config"
)

// NewFromConfig builds the configured summarizer provider.
func NewFromConfig(ctx context.Context, cfg config.AI) (Summarizer, error) {
	switch cfg.Provider {
	case "", "gemini":
		return NewGeminiSummarizer(ctx, GeminiOptions{
			APIKey:      cfg.Gemini.APIKey,
			Model:       cfg.Gemini.Model,
			MaxTokens:   cfg.Gemini.MaxTokens,
			Temperature: cfg.Gemini.Temperature,
		})
	case "openai":
		return NewOpenAISummarizer(OpenAIOptions{
			APIKey:  cfg.OpenAI.APIKey,
			Model:   cfg.OpenAI.Model,
			BaseURL: cfg.OpenAI.BaseURL,
		})
	default:
		return nil, fmt.Errorf("unknown ai provider: %q", cfg.Provider)
	}
}
