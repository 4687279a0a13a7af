package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/gitbib/internal/pdf"
)

func init() {
	rootCmd.AddCommand(sniffCmd)
}

var sniffCmd = &cobra.Command{
	Use:   "sniff <file.pdf>",
	Short: "Extract a DOI from a PDF file",
	Long: `Scan the opening pages of a PDF for a DOI.

Useful for filling in the doi field of an entry that only has a local
PDF. The build command runs the same scan automatically for entries
with a pdf path and no identifier.`,
	Args: cobra.ExactArgs(1),
	RunE: runSniff,
}

// SniffResult is the response for the sniff command.
type SniffResult struct {
	Path string `json:"path"`
	DOI  string `json:"doi,omitempty"`
}

func runSniff(cmd *cobra.Command, args []string) error {
	path := args[0]

	doi, err := pdf.SniffDOI(path)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if doi == "" {
		exitWithError(ExitDataError, "no doi found in %s", path)
	}

	if humanOutput {
		fmt.Println(doi)
		return nil
	}
	return outputJSON(SniffResult{Path: path, DOI: doi})
}
