// Package main provides the gitbib CLI entry point.
package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// verbose enables debug-level logging on stderr
var verbose bool

func main() {
	// A .env in the working directory may carry GITBIB_MAILTO etc.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gitbib",
	Short: "Git-friendly bibliography with cached metadata resolution",
	Long: `gitbib builds a bibliography from plain YAML files kept in git.

Entries carry a DOI or arXiv identifier; gitbib fetches title, authors,
venue, and dates from Crossref and arXiv, caching results in SQLite so
the bibliography still builds offline. Descriptions may cite other
entries with [identifier] markup, and gitbib resolves those citations
in both directions. All commands output JSON by default.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Version = Version
}

// getRepoRoot returns the bibliography root, or exits with an error.
func getRepoRoot() (string, int) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", outputError(ExitError, "getting current directory: %v", err)
	}

	// Check GITBIB_ROOT environment variable first
	if root := os.Getenv("GITBIB_ROOT"); root != "" {
		cwd = root
	}

	return cwd, 0
}
