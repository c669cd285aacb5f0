package summarize

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"wikibrief/internal/core"
	"wikibrief/internal/logger"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash-preview-05-20"

// GeminiSummarizer generates summary pairs through the Gemini API with a
// response schema that forces the two-tier JSON shape.
type GeminiSummarizer struct {
	client      *genai.Client
	model       string
	maxTokens   int32
	temperature float32
}

// GeminiOptions configures the Gemini summarizer.
type GeminiOptions struct {
	APIKey      string
	Model       string
	MaxTokens   int32
	Temperature float32
}

// NewGeminiSummarizer creates a Gemini-backed summarizer.
func NewGeminiSummarizer(ctx context.Context, opts GeminiOptions) (*GeminiSummarizer, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required; set GEMINI_API_KEY or ai.gemini.api_key")
	}
	if opts.Model == "" {
		opts.Model = DefaultGeminiModel
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 8192
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiSummarizer{
		client:      client,
		model:       opts.Model,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
	}, nil
}

// Model returns the configured model name.
func (g *GeminiSummarizer) Model() string { return g.model }

// summaryPairSchema enforces structured JSON output with both tiers.
func summaryPairSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"advanced": {
				Type:        genai.TypeString,
				Description: "Thorough summary for a knowledgeable reader",
			},
			"basic": {
				Type:        genai.TypeString,
				Description: "Simplified summary in plain language",
			},
		},
		Required: []string{"advanced", "basic"},
	}
}

// Summarize generates the advanced/basic pair for one article.
func (g *GeminiSummarizer) Summarize(ctx context.Context, title, text string) (core.SummaryPair, error) {
	if text == "" {
		return core.SummaryPair{}, &core.SummarizerError{Title: title, Err: fmt.Errorf("no article text to summarize")}
	}

	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: buildSummaryPrompt(title, text)}},
		Role:  "user",
	}}
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   summaryPairSchema(),
		Temperature:      genai.Ptr(g.temperature),
		MaxOutputTokens:  g.maxTokens,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return core.SummaryPair{}, &core.SummarizerError{Title: title, Err: err}
	}

	raw := resp.Text()
	if raw == "" {
		return core.SummaryPair{}, &core.SummarizerError{Title: title, Err: fmt.Errorf("empty response from model")}
	}

	pair, err := parsePair(raw)
	if err != nil {
		return core.SummaryPair{}, &core.SummarizerError{Title: title, Err: err}
	}

	logger.Debug("gemini summary generated", "title", title, "model", g.model)
	return pair, nil
}
