package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/gitbib/internal/cache"
	"github.com/matsen/gitbib/internal/config"
)

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheInfoCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the metadata cache",
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show metadata cache location and size",
	RunE:  runCacheInfo,
}

// CacheInfoResult is the response for the cache info command.
type CacheInfoResult struct {
	Path    string `json:"path"`
	Records int    `json:"records"`
}

func runCacheInfo(cmd *cobra.Command, args []string) error {
	root, exitCode := getRepoRoot()
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	cfg, err := config.LoadRepo(root)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	path := cfg.CacheFilePath(root)
	c, err := cache.Open(path, slog.Default())
	if err != nil {
		exitWithError(ExitError, "opening cache: %v", err)
	}
	defer c.Close()

	n, err := c.Len()
	if err != nil {
		exitWithError(ExitError, "reading cache: %v", err)
	}

	if humanOutput {
		fmt.Printf("%s: %d cached records\n", path, n)
		return nil
	}
	return outputJSON(CacheInfoResult{Path: path, Records: n})
}
