// Package pdf recovers external identifiers from PDF files on disk.
// It is used for entries that name a local PDF but carry no doi or
// arxiv id in their source file.
package pdf

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// doiPattern matches registrant prefixes (10. plus 4-9 digits) followed
// by a suffix free of whitespace and bracketing characters.
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// sniffPages bounds how deep into a document we look. Publishers put
// the DOI on the first page, sometimes the second for scanned covers.
const sniffPages = 3

// SniffDOI scans the opening pages of a PDF for a DOI and returns the
// first plausible match. A missing DOI is not an error: the result is
// simply empty.
func SniffDOI(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	pages := r.NumPage()
	if pages > sniffPages {
		pages = sniffPages
	}

	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Malformed content streams are common in scanned PDFs.
			continue
		}
		if doi := findDOI(text); doi != "" {
			return doi, nil
		}
	}

	return "", nil
}

// findDOI returns the first plausible DOI in text, stripped of the
// trailing punctuation that running prose attaches to it.
func findDOI(text string) string {
	for _, m := range doiPattern.FindAllString(text, -1) {
		m = strings.TrimRight(m, ".,;:)")
		if plausibleDOI(m) {
			return m
		}
	}
	return ""
}

// plausibleDOI rejects matches too short or malformed to be real.
func plausibleDOI(doi string) bool {
	if len(doi) < 10 || !strings.HasPrefix(doi, "10.") {
		return false
	}
	slash := strings.Index(doi, "/")
	return slash > 0 && slash < len(doi)-1
}
