package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matsen/gitbib/internal/cache"
	"github.com/matsen/gitbib/internal/config"
	"github.com/matsen/gitbib/internal/engine"
	"github.com/matsen/gitbib/internal/entry"
	"github.com/matsen/gitbib/internal/fetch"
	"github.com/matsen/gitbib/internal/pdf"
	"github.com/matsen/gitbib/internal/resolve"
	"github.com/matsen/gitbib/internal/source"
)

func init() {
	buildCmd.Flags().BoolVar(&buildOffline, "offline", false, "Skip remote fetches, use cached metadata only")
	rootCmd.AddCommand(buildCmd)
}

var buildOffline bool

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the bibliography from source files",
	Long: `Build the full bibliography: load entries from the configured YAML
files, fetch metadata for DOI and arXiv identifiers (refreshing the
SQLite cache), parse descriptions, and resolve cross-references.

Fetch failures degrade to cached metadata and are reported as notices;
they never fail the build. Dangling cross-references are reported as
warnings.`,
	RunE: runBuild,
}

// BuildResult is the response for the build command.
type BuildResult struct {
	Entries  []*entry.Entry    `json:"entries"`
	Notices  []*cache.Notice   `json:"notices,omitempty"`
	Warnings []resolve.Warning `json:"warnings,omitempty"`
}

func runBuild(cmd *cobra.Command, args []string) error {
	root, exitCode := getRepoRoot()
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	cfg, err := config.LoadRepo(root)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	recs, err := source.Load(root, cfg)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	cachePath := cfg.CacheFilePath(root)
	if err := os.MkdirAll(filepath.Dir(cachePath), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}
	c, err := cache.Open(cachePath, slog.Default())
	if err != nil {
		exitWithError(ExitError, "opening cache: %v", err)
	}
	defer c.Close()

	eng := &engine.Engine{
		Cache: c,
		Log:   slog.Default(),
	}
	if buildOffline {
		// Serve straight from the cache so fetched_at timestamps keep
		// reflecting the last real fetch.
		eng.Cache = nil
		eng.Fetch = cachedOnly(c)
	} else {
		eng.Fetch = newFetchService().Fetch
	}
	// PDF paths in source files are relative to the bibliography root.
	eng.SniffDOI = func(path string) (string, error) {
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		return pdf.SniffDOI(path)
	}

	res, err := eng.Build(cmd.Context(), recs)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	if humanOutput {
		printBuildHuman(res)
	} else {
		outputJSON(BuildResult{
			Entries:  res.Entries,
			Notices:  res.Notices,
			Warnings: res.Warnings,
		})
	}

	return nil
}

// cachedOnly serves metadata from the cache without touching the
// network. A cache miss reads as a failed fetch, which the engine turns
// into a notice.
func cachedOnly(c *cache.Cache) fetch.Func {
	return func(ctx context.Context, ext entry.ExternalID) (*entry.Metadata, error) {
		rec, err := c.Get(ext)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return nil, fmt.Errorf("offline, no cached metadata for %s", ext)
		}
		return rec.Meta, nil
	}
}

func printBuildHuman(res *engine.Result) {
	for _, e := range res.Entries {
		title := e.Meta.Title
		if title == "" {
			title = "(no metadata)"
		}
		fmt.Printf("%s\n  %s\n", e.ID, truncateString(title, ListTitleMaxLen))
		if authors := formatAuthorsShort(e.Meta.Authors, 3); authors != "" {
			if year := entryYear(e); year != 0 {
				fmt.Printf("  %s (%d)\n", authors, year)
			} else {
				fmt.Printf("  %s\n", authors)
			}
		}
		for _, in := range e.Inbound {
			fmt.Printf("  cited by %s\n", in.SourceID)
		}
		fmt.Println()
	}

	for _, n := range res.Notices {
		fmt.Fprintf(os.Stderr, "notice: %s\n", n)
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
}
