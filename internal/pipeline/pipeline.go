// Package pipeline composes the resolver, cache store, knowledge source,
// and summarizer into the enrichment flow behind every lookup.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"wikibrief/internal/core"
	"wikibrief/internal/logger"
	"wikibrief/internal/resolver"
	"wikibrief/internal/wiki"
)

// ArticleStore is the cache persistence the pipeline needs. *store.Store
// satisfies it; tests use an in-memory substitute.
type ArticleStore interface {
	Get(title string) (*core.ArticleRecord, error)
	PutNew(record core.ArticleRecord) error
	AppendQuery(title, normalizedQuery string) error
}

// KnowledgeSource is the external article provider. *wiki.Client
// satisfies it.
type KnowledgeSource interface {
	Search(ctx context.Context, query string, limit int) ([]string, error)
	Fetch(ctx context.Context, title string) (*wiki.Page, error)
	Thumbnail(ctx context.Context, title string) string
	Related(ctx context.Context, title string, max int) ([]string, error)
}

// Summarizer generates the advanced/basic summary pair.
type Summarizer interface {
	Summarize(ctx context.Context, title, text string) (core.SummaryPair, error)
	Model() string
}

// Pipeline enriches resolved queries, serving from the cache whenever a
// record for the canonical title already exists.
type Pipeline struct {
	store      ArticleStore
	source     KnowledgeSource
	summarizer Summarizer
	resolver   *resolver.Resolver
	maxRelated int
}

// New wires a pipeline from its injected collaborators.
func New(store ArticleStore, source KnowledgeSource, summarizer Summarizer, maxRelated int) *Pipeline {
	if maxRelated <= 0 {
		maxRelated = 5
	}
	return &Pipeline{
		store:      store,
		source:     source,
		summarizer: summarizer,
		resolver:   resolver.New(source),
		maxRelated: maxRelated,
	}
}

// ResolveAndEnrich resolves a raw query to its canonical article and
// returns the enriched record, creating and caching it on first sight.
//
// Error contract: core.ErrNoResults when nothing matches,
// core.ErrAmbiguous when disambiguation cannot be settled,
// *core.SourceError on fatal knowledge-source failures, and
// *core.SummarizerError when generation fails (in which case nothing is
// persisted).
func (p *Pipeline) ResolveAndEnrich(ctx context.Context, rawQuery string) (*core.EnrichedResult, error) {
	res, err := p.resolver.Resolve(ctx, rawQuery)
	if err != nil {
		return nil, err
	}

	record, err := p.store.Get(res.CanonicalTitle)
	if err != nil {
		return nil, fmt.Errorf("cache lookup failed: %w", err)
	}
	if record != nil {
		return p.serveHit(ctx, record, res.NormalizedQuery), nil
	}

	return p.createRecord(ctx, res)
}

// serveHit appends the query to the record's history and returns the
// cached enrichment. The history append is best-effort: it exists for
// auditability, not correctness, so a failure never blocks the response.
func (p *Pipeline) serveHit(ctx context.Context, record *core.ArticleRecord, normalizedQuery string) *core.EnrichedResult {
	if err := p.store.AppendQuery(record.Title, normalizedQuery); err != nil {
		logger.Warn("query history append failed", "title", record.Title, "error", err.Error())
	}

	related := record.RelatedTitles
	if len(related) == 0 {
		// Records written before related titles were collected serve a
		// freshly computed set, without mutating the stored record.
		recomputed, err := p.source.Related(ctx, record.Title, p.maxRelated)
		if err != nil {
			logger.Warn("related recompute failed", "title", record.Title, "error", err.Error())
		} else {
			related = recomputed
		}
	}

	logger.Debug("cache hit", "title", record.Title, "query", normalizedQuery)
	return &core.EnrichedResult{
		CanonicalTitle: record.Title,
		SummaryRaw:     record.SummaryRaw,
		Summaries:      record.Summaries,
		ImageURL:       record.ImageURL,
		RelatedTitles:  related,
		CacheHit:       true,
	}
}

// createRecord runs the miss path: related titles, thumbnail, summary
// generation, then a single atomic insert. A lost creation race degrades
// to serving the winner's record.
func (p *Pipeline) createRecord(ctx context.Context, res *resolver.Resolution) (*core.EnrichedResult, error) {
	related, err := p.source.Related(ctx, res.CanonicalTitle, p.maxRelated)
	if err != nil {
		return nil, err
	}

	imageURL := p.source.Thumbnail(ctx, res.CanonicalTitle)
	if imageURL == "" {
		imageURL = core.PlaceholderImageURL
	}

	summaries, err := p.summarizer.Summarize(ctx, res.CanonicalTitle, res.FullText)
	if err != nil {
		return nil, err
	}

	record := core.ArticleRecord{
		Title:         res.CanonicalTitle,
		SummaryRaw:    res.FullText,
		Summaries:     summaries,
		ImageURL:      imageURL,
		RelatedTitles: related,
		QueryHistory:  []string{res.NormalizedQuery},
		SummaryID:     uuid.NewString(),
		ModelUsed:     p.summarizer.Model(),
		DateCreated:   time.Now().UTC(),
	}

	err = p.store.PutNew(record)
	if errors.Is(err, core.ErrDuplicateRecord) {
		// A concurrent request created the record first; its content is
		// equivalent, so serve the winner and fold our query in.
		winner, getErr := p.store.Get(res.CanonicalTitle)
		if getErr != nil || winner == nil {
			return nil, fmt.Errorf("lost creation race for %q and could not read winner: %v", res.CanonicalTitle, getErr)
		}
		return p.serveHit(ctx, winner, res.NormalizedQuery), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to persist record for %q: %w", res.CanonicalTitle, err)
	}

	logger.Info("article enriched", "title", record.Title, "query", res.NormalizedQuery, "model", record.ModelUsed)
	return &core.EnrichedResult{
		CanonicalTitle: record.Title,
		SummaryRaw:     record.SummaryRaw,
		Summaries:      record.Summaries,
		ImageURL:       record.ImageURL,
		RelatedTitles:  record.RelatedTitles,
		CacheHit:       false,
	}, nil
}

// Suggest returns up to five candidate titles for a partial query. It
// talks straight to the knowledge source; the cache is not consulted.
func (p *Pipeline) Suggest(ctx context.Context, partialQuery string) ([]string, error) {
	normalized := core.NormalizeQuery(partialQuery)
	if normalized == "" {
		return nil, nil
	}
	return p.source.Search(ctx, normalized, 5)
}
