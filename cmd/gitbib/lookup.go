package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/gitbib/internal/entry"
	"github.com/matsen/gitbib/internal/fetch"
)

func init() {
	rootCmd.AddCommand(lookupCmd)
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <doi:...|arxiv:...>",
	Short: "Fetch metadata for a single identifier",
	Long: `Fetch metadata for one identifier directly from the remote service,
bypassing the repository and its cache.

Examples:
  gitbib lookup doi:10.1002/jcc.21255
  gitbib lookup arxiv:1411.4028`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func runLookup(cmd *cobra.Command, args []string) error {
	ext, err := parseExternalID(args[0])
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	meta, err := newFetchService().Fetch(cmd.Context(), *ext)
	if err != nil {
		code := ExitError
		if fetch.IsNotFound(err) {
			code = ExitDataError
		}
		exitWithError(code, "%s: %v", ext, err)
	}

	if humanOutput {
		fmt.Println(meta.Title)
		if authors := formatAuthorsShort(meta.Authors, 10); authors != "" {
			fmt.Println(authors)
		}
		if meta.ContainerTitle != nil {
			fmt.Println(meta.ContainerTitle.FullName)
		}
		if meta.PublishedPrint != nil {
			fmt.Println(meta.PublishedPrint)
		} else if meta.PublishedOnline != nil {
			fmt.Println(meta.PublishedOnline)
		}
		return nil
	}
	return outputJSON(meta)
}

// parseExternalID parses "doi:10.x/y" or "arxiv:1411.4028" syntax.
func parseExternalID(s string) (*entry.ExternalID, error) {
	kind, value, ok := strings.Cut(s, ":")
	if !ok || value == "" {
		return nil, fmt.Errorf("malformed identifier %q (want doi:... or arxiv:...)", s)
	}
	switch entry.IDKind(kind) {
	case entry.KindDOI:
		return &entry.ExternalID{Kind: entry.KindDOI, Value: value}, nil
	case entry.KindArxiv:
		return &entry.ExternalID{Kind: entry.KindArxiv, Value: value}, nil
	default:
		return nil, fmt.Errorf("unknown identifier kind %q (want doi or arxiv)", kind)
	}
}
