package summarize

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"wikibrief/internal/core"
	"wikibrief/internal/logger"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAISummarizer generates summary pairs through the OpenAI chat
// completion API with JSON-object response format.
type OpenAISummarizer struct {
	client *openai.Client
	model  string
}

// OpenAIOptions configures the OpenAI summarizer.
type OpenAIOptions struct {
	APIKey  string
	Model   string
	BaseURL string
}

// NewOpenAISummarizer creates an OpenAI-backed summarizer.
func NewOpenAISummarizer(opts OpenAIOptions) (*OpenAISummarizer, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required; set OPENAI_API_KEY or ai.openai.api_key")
	}
	if opts.Model == "" {
		opts.Model = DefaultOpenAIModel
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}

	return &OpenAISummarizer{
		client: openai.NewClientWithConfig(cfg),
		model:  opts.Model,
	}, nil
}

// Model returns the configured model name.
func (o *OpenAISummarizer) Model() string { return o.model }

// Summarize generates the advanced/basic pair for one article.
func (o *OpenAISummarizer) Summarize(ctx context.Context, title, text string) (core.SummaryPair, error) {
	if text == "" {
		return core.SummaryPair{}, &core.SummarizerError{Title: title, Err: fmt.Errorf("no article text to summarize")}
	}

	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You summarize encyclopedia articles. Respond with a JSON object containing the fields \"advanced\" and \"basic\".",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildSummaryPrompt(title, text),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return core.SummaryPair{}, &core.SummarizerError{Title: title, Err: err}
	}
	if len(resp.Choices) == 0 {
		return core.SummaryPair{}, &core.SummarizerError{Title: title, Err: fmt.Errorf("model returned no choices")}
	}

	pair, err := parsePair(resp.Choices[0].Message.Content)
	if err != nil {
		return core.SummaryPair{}, &core.SummarizerError{Title: title, Err: err}
	}

	logger.Debug("openai summary generated", "title", title, "model", o.model)
	return pair, nil
}
