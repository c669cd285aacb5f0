package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// PlaceholderImageURL is substituted whenever the knowledge source has no
// thumbnail for an article or the thumbnail fetch fails.
const PlaceholderImageURL = "https://via.placeholder.com/150"

// SummaryPair holds the two reading levels generated for an article.
type SummaryPair struct {
	Advanced string `json:"advanced"` // Full-depth summary for readers who want detail
	Basic    string `json:"basic"`    // Simplified summary in plain language
}

// ArticleRecord is the cached enrichment of one canonical article.
// Title is the only key; a record is written whole on creation and is
// immutable afterwards except for QueryHistory appends.
type ArticleRecord struct {
	Title         string      `json:"title"`          // Canonical article title (cache key)
	SummaryRaw    string      `json:"summary_raw"`    // Full-text excerpt from the knowledge source
	Summaries     SummaryPair `json:"summaries"`      // Generated advanced/basic pair
	ImageURL      string      `json:"image_url"`      // Thumbnail URL or PlaceholderImageURL
	RelatedTitles []string    `json:"related_titles"` // Related article titles, relevance order, no duplicates
	QueryHistory  []string    `json:"query_history"`  // Normalized queries that resolved here, insertion order
	SummaryID     string      `json:"summary_id"`     // Unique identifier of the generated summary pair
	ModelUsed     string      `json:"model_used"`     // Model that generated the summaries
	DateCreated   time.Time   `json:"date_created"`   // Timestamp when the record was created
}

// EnrichedResult is the output shape shared by the cache hit and miss
// paths of the enrichment pipeline.
type EnrichedResult struct {
	CanonicalTitle string      `json:"canonical_title"`
	SummaryRaw     string      `json:"summary_raw"`
	Summaries      SummaryPair `json:"summaries"`
	ImageURL       string      `json:"image_url"`
	RelatedTitles  []string    `json:"related_titles"`
	CacheHit       bool        `json:"cache_hit"`
}

// NormalizeQuery produces the canonical form of a raw user query. The
// normalized form is what gets searched and what QueryHistory stores.
func NormalizeQuery(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

var (
	// ErrNoResults indicates the query matched no article. User-visible,
	// retryable with a different query.
	ErrNoResults = errors.New("no results found for query")

	// ErrAmbiguous indicates the disambiguation fallback itself landed on
	// an ambiguous or missing page. Fatal; not retried recursively.
	ErrAmbiguous = errors.New("query is ambiguous and could not be resolved")

	// ErrDuplicateRecord is returned by the store when a record for the
	// title already exists. Benign race outcome, resolved inside the
	// pipeline and never surfaced to callers.
	ErrDuplicateRecord = errors.New("article record already exists")
)

// DisambiguationError is returned by the knowledge source when a title
// refers to multiple distinct concepts. Options are the candidate titles
// in the order the source lists them.
type DisambiguationError struct {
	Title   string
	Options []string
}

func (e *DisambiguationError) Error() string {
	return fmt.Sprintf("title %q is ambiguous (%d options)", e.Title, len(e.Options))
}

// SourceError wraps a knowledge-source failure (network, non-2xx,
// malformed response) on a path where it is fatal to the request.
type SourceError struct {
	Op  string // which source operation failed ("search", "fetch", "related")
	Err error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("knowledge source %s failed: %v", e.Op, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// SummarizerError wraps a failed or malformed AI generation. Always fatal
// to record creation; nothing is cached when it occurs.
type SummarizerError struct {
	Title string
	Err   error
}

func (e *SummarizerError) Error() string {
	return fmt.Sprintf("summarization of %q failed: %v", e.Title, e.Err)
}

func (e *SummarizerError) Unwrap() error { return e.Err }
