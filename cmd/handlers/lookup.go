package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"wikibrief/internal/core"
	"wikibrief/internal/logger"
)

// NewLookupCmd creates the lookup command
func NewLookupCmd() *cobra.Command {
	var basicOnly bool

	cmd := &cobra.Command{
		Use:   "lookup [query]",
		Short: "Resolve a query to a summarized article",
		Long: `Resolve a free-text query to its canonical encyclopedia article and
print the generated summaries, thumbnail, and related topics.

The result is cached by canonical title; repeating the query (or any
synonymous phrasing that resolves to the same article) is served from
the cache.

Examples:
  # Look up an article
  wikibrief lookup "go programming language"

  # Print only the simplified summary
  wikibrief lookup --basic "quantum entanglement"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, strings.Join(args, " "), basicOnly)
		},
	}

	cmd.Flags().BoolVar(&basicOnly, "basic", false, "Print only the basic (simplified) summary")

	return cmd
}

func runLookup(cmd *cobra.Command, query string, basicOnly bool) error {
	ctx := cmd.Context()

	p, cacheStore, err := buildPipeline(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := cacheStore.Close(); err != nil {
			logger.Error("Failed to close cache store", err)
		}
	}()

	result, err := p.ResolveAndEnrich(ctx, query)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNoResults):
			fmt.Println("No results found for your query.")
			return nil
		case errors.Is(err, core.ErrAmbiguous):
			return fmt.Errorf("the query is ambiguous and could not be resolved to a single article")
		default:
			return err
		}
	}

	fmt.Printf("📖 %s\n", result.CanonicalTitle)
	if result.CacheHit {
		fmt.Println("   (served from cache)")
	}
	fmt.Println()

	if basicOnly {
		fmt.Println(result.Summaries.Basic)
	} else {
		fmt.Println("── Advanced ──")
		fmt.Println(result.Summaries.Advanced)
		fmt.Println()
		fmt.Println("── Basic ──")
		fmt.Println(result.Summaries.Basic)
	}

	fmt.Println()
	fmt.Printf("🖼  %s\n", result.ImageURL)
	if len(result.RelatedTitles) > 0 {
		fmt.Printf("🔗 Related: %s\n", strings.Join(result.RelatedTitles, ", "))
	}

	return nil
}
