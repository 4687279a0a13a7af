package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/gitbib/internal/config"
	"github.com/matsen/gitbib/internal/engine"
	"github.com/matsen/gitbib/internal/resolve"
	"github.com/matsen/gitbib/internal/source"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate source files and cross-references",
	Long: `Validate the bibliography without touching the network or the cache:
parse all source files, check identifier uniqueness and shape, parse
descriptions, and resolve cross-references.

Exits non-zero if source files are malformed or any reference dangles.`,
	RunE: runCheck,
}

// CheckResult is the response for the check command.
type CheckResult struct {
	Status   string            `json:"status"`
	Entries  int               `json:"entries"`
	Warnings []resolve.Warning `json:"warnings,omitempty"`
}

func runCheck(cmd *cobra.Command, args []string) error {
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

	// No fetcher and no sniffer: identifiers and references only.
	eng := &engine.Engine{
		SniffDOI: func(string) (string, error) { return "", nil },
		Log:      slog.Default(),
	}
	res, err := eng.Build(cmd.Context(), recs)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	status := "ok"
	if len(res.Warnings) > 0 {
		status = "dangling-references"
	}

	if humanOutput {
		fmt.Printf("%d entries\n", len(res.Entries))
		for _, w := range res.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
	} else {
		outputJSON(CheckResult{
			Status:   status,
			Entries:  len(res.Entries),
			Warnings: res.Warnings,
		})
	}

	if len(res.Warnings) > 0 {
		os.Exit(ExitDataError)
	}
	return nil
}
