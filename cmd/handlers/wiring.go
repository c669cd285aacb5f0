package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"wikibrief/internal/config"
	"wikibrief/internal/pipeline"
	"wikibrief/internal/store"
	"wikibrief/internal/summarize"
	"wikibrief/internal/wiki"
)

// buildSource creates the knowledge-source client from configuration.
func buildSource() *wiki.Client {
	cfg := config.Get()
	return wiki.NewClient(cfg.Wiki.APIURL,
		wiki.WithUserAgent(cfg.Wiki.UserAgent),
		wiki.WithRateLimit(config.Duration(cfg.Wiki.RateLimit, 500*time.Millisecond)),
		wiki.WithHTTPClient(&http.Client{
			Timeout: config.Duration(cfg.Wiki.Timeout, 15*time.Second),
		}),
	)
}

// buildPipeline assembles the enrichment pipeline from configuration.
// The returned store must be closed by the caller.
func buildPipeline(ctx context.Context) (*pipeline.Pipeline, *store.Store, error) {
	cfg := config.Get()

	cacheStore, err := store.NewStore(cfg.Cache.Directory)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize cache store: %w", err)
	}

	summarizer, err := summarize.NewFromConfig(ctx, cfg.AI)
	if err != nil {
		cacheStore.Close()
		return nil, nil, err
	}

	return pipeline.New(cacheStore, buildSource(), summarizer, cfg.Wiki.MaxRelated), cacheStore, nil
}
