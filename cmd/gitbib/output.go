package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/matsen/gitbib/internal/entry"
)

const (
	// Title truncation length in human-readable listings
	ListTitleMaxLen = 70
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError writes an error message to stderr and returns the exit code.
func outputError(code int, format string, args ...interface{}) int {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	return code
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// formatAuthorsShort formats authors with "et al." for more than maxCount.
func formatAuthorsShort(authors []entry.Author, maxCount int) string {
	if len(authors) == 0 {
		return ""
	}

	var names []string
	for i, a := range authors {
		if i >= maxCount {
			names = append(names, "et al.")
			break
		}
		if a.Given != "" {
			names = append(names, a.Family+" "+string(a.Given[0]))
		} else {
			names = append(names, a.Family)
		}
	}
	return strings.Join(names, ", ")
}

// entryYear returns the best publication year for display, preferring
// print over online, 0 if neither is known.
func entryYear(e *entry.Entry) int {
	if e.Meta.PublishedPrint != nil {
		return e.Meta.PublishedPrint.Year
	}
	if e.Meta.PublishedOnline != nil {
		return e.Meta.PublishedOnline.Year
	}
	return 0
}
