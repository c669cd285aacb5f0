package handlers

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"wikibrief/internal/core"
)

// NewSuggestCmd creates the suggest command
func NewSuggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest [partial query]",
		Short: "List candidate article titles for a partial query",
		Long: `Print up to five article titles matching a partial query, in the
knowledge source's ranking order. Talks directly to the source; neither
the cache nor the summarizer is touched.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuggest(cmd, strings.Join(args, " "))
		},
	}
}

func runSuggest(cmd *cobra.Command, query string) error {
	source := buildSource()

	titles, err := source.Search(cmd.Context(), core.NormalizeQuery(query), 5)
	if err != nil {
		return err
	}
	if len(titles) == 0 {
		fmt.Println("No suggestions.")
		return nil
	}

	for i, title := range titles {
		fmt.Printf("%d. %s\n", i+1, title)
	}
	return nil
}
