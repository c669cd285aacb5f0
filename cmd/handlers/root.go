package handlers

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wikibrief/internal/config"
	"wikibrief/internal/logger"
)

var cfgFile string

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wikibrief",
		Short: "wikibrief resolves free-text queries to summarized encyclopedia articles.",
		Long: `wikibrief turns a free-text query into a canonical encyclopedia article
with an AI-generated two-tier summary, a thumbnail, and related topics.
Results are cached by canonical title, so repeated and synonymous
queries are served without re-invoking external services.`,
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.wikibrief.yaml)")

	rootCmd.AddCommand(NewLookupCmd())
	rootCmd.AddCommand(NewSuggestCmd())
	rootCmd.AddCommand(NewServeCmd())
	rootCmd.AddCommand(NewCacheCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	logger.SetLevel(cfg.Logging.Level)
	if cfg.App.ConfigFile != "" {
		logger.Debug("using config file", "path", cfg.App.ConfigFile)
	}
}
