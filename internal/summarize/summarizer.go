// Package summarize generates the two-tier article summary pair through
// an AI provider.
package summarize

import (
	"context"
	"encoding/json"
	"fmt"

	"wikibrief/internal/core"
)

// Summarizer generates an advanced/basic summary pair for an article.
// A returned error always means nothing usable was produced; callers
// must not cache anything in that case.
type Summarizer interface {
	Summarize(ctx context.Context, title, text string) (core.SummaryPair, error)
	Model() string
}

// parsePair decodes and validates a provider's JSON output. Both tiers
// must be present and non-empty; anything else is a malformed generation.
func parsePair(raw string) (core.SummaryPair, error) {
	var pair core.SummaryPair
	if err := json.Unmarshal([]byte(raw), &pair); err != nil {
		return core.SummaryPair{}, fmt.Errorf("failed to parse summary JSON: %w", err)
	}
	if pair.Advanced == "" {
		return core.SummaryPair{}, fmt.Errorf("summary output missing advanced tier")
	}
	if pair.Basic == "" {
		return core.SummaryPair{}, fmt.Errorf("summary output missing basic tier")
	}
	return pair, nil
}
