// Package resolver turns a raw free-text query into a canonical article
// title plus its full text, settling disambiguation along the way.
package resolver

import (
	"context"
	"errors"
	"fmt"

	"wikibrief/internal/core"
	"wikibrief/internal/logger"
	"wikibrief/internal/wiki"
)

// Source is the slice of the knowledge source the resolver needs.
// *wiki.Client satisfies it.
type Source interface {
	Search(ctx context.Context, query string, limit int) ([]string, error)
	Fetch(ctx context.Context, title string) (*wiki.Page, error)
}

// Resolution is a settled query: the canonical title actually fetched,
// its full text, and the normalized form of the query that produced it.
type Resolution struct {
	CanonicalTitle  string
	FullText        string
	NormalizedQuery string
}

// Resolver resolves raw queries against a knowledge source.
type Resolver struct {
	source Source
}

// New creates a Resolver over the given source.
func New(source Source) *Resolver {
	return &Resolver{source: source}
}

// Resolve normalizes the query, searches, and fetches the top-ranked
// candidate. A disambiguation answer falls back to the first listed
// option exactly once; if that option is itself ambiguous or missing the
// resolution fails with core.ErrAmbiguous. No candidates or a missing
// page yield core.ErrNoResults.
func (r *Resolver) Resolve(ctx context.Context, rawQuery string) (*Resolution, error) {
	normalized := core.NormalizeQuery(rawQuery)
	if normalized == "" {
		return nil, core.ErrNoResults
	}

	candidates, err := r.source.Search(ctx, normalized, 1)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, core.ErrNoResults
	}

	page, err := r.source.Fetch(ctx, candidates[0])
	if err == nil {
		return &Resolution{
			CanonicalTitle:  page.Title,
			FullText:        page.Extract,
			NormalizedQuery: normalized,
		}, nil
	}

	var disambig *core.DisambiguationError
	if !errors.As(err, &disambig) {
		return nil, err
	}
	if len(disambig.Options) == 0 {
		return nil, fmt.Errorf("%w: %q lists no options", core.ErrAmbiguous, disambig.Title)
	}

	// Single-level fallback: take the first option, and only once.
	fallback := disambig.Options[0]
	logger.Debug("disambiguation fallback", "query", normalized, "ambiguous_title", disambig.Title, "fallback", fallback)

	page, err = r.source.Fetch(ctx, fallback)
	if err != nil {
		if errors.As(err, &disambig) || errors.Is(err, core.ErrNoResults) {
			return nil, fmt.Errorf("%w: fallback %q unresolvable", core.ErrAmbiguous, fallback)
		}
		return nil, err
	}

	return &Resolution{
		CanonicalTitle:  page.Title,
		FullText:        page.Extract,
		NormalizedQuery: normalized,
	}, nil
}
