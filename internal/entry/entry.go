// Package entry defines the core domain types for bibliography entries.
package entry

import (
	"fmt"
	"regexp"

	"github.com/matsen/gitbib/internal/describe"
)

// IDKind identifies the external resolution service an identifier belongs to.
type IDKind string

const (
	KindDOI   IDKind = "doi"
	KindArxiv IDKind = "arxiv"
)

// ExternalID is a DOI or arXiv identifier used to fetch metadata.
type ExternalID struct {
	Kind  IDKind `json:"kind"`
	Value string `json:"value"`
}

func (e ExternalID) String() string {
	return string(e.Kind) + ":" + e.Value
}

// idPattern is the identifier grammar: lowercase letters, digits, hyphens.
var idPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// ValidID reports whether s is a well-formed entry identifier.
func ValidID(s string) bool {
	return idPattern.MatchString(s)
}

// Entry is one bibliographic record.
//
// ID is assigned once at load time and never changes. Description and
// Inbound are derived: recomputing them from RawDescription and the full
// entry set yields the same result.
type Entry struct {
	ID       string      `json:"id"`
	External *ExternalID `json:"external_id,omitempty"`
	Tags     []string    `json:"tags,omitempty"`
	PDFPath  string      `json:"pdf,omitempty"`

	// RawDescription is the original markup text, immutable input.
	RawDescription string `json:"-"`

	// Description is built once by the description parser.
	Description describe.Description `json:"description,omitempty"`

	// Meta is populated by the metadata fetcher. Fields absent from the
	// remote response stay absent here.
	Meta Metadata `json:"metadata"`

	// Inbound records who cites this entry, populated by the resolver.
	Inbound []InboundCitation `json:"inbound_citations,omitempty"`
}

// InboundCitation records that a source entry's description cites this
// entry, optionally with the citation number the source paper uses.
type InboundCitation struct {
	SourceID string `json:"source"`
	Num      *int   `json:"num,omitempty"`
}

// Metadata is the fetched attribute bag for an entry.
type Metadata struct {
	Title           string          `json:"title,omitempty"`
	Authors         []Author        `json:"authors,omitempty"`
	Abstract        string          `json:"abstract,omitempty"`
	ContainerTitle  *ContainerTitle `json:"container_title,omitempty"`
	Volume          string          `json:"volume,omitempty"`
	Issue           string          `json:"issue,omitempty"`
	Page            string          `json:"page,omitempty"`
	PublishedOnline *Date           `json:"published_online,omitempty"`
	PublishedPrint  *Date           `json:"published_print,omitempty"`
}

// IsZero reports whether no metadata field has been populated.
func (m Metadata) IsZero() bool {
	return m.Title == "" && len(m.Authors) == 0 && m.Abstract == "" &&
		m.ContainerTitle == nil && m.Volume == "" && m.Issue == "" &&
		m.Page == "" && m.PublishedOnline == nil && m.PublishedPrint == nil
}

// ContainerTitle is the venue a work appeared in, with full and short forms.
type ContainerTitle struct {
	FullName  string `json:"full_name,omitempty"`
	ShortName string `json:"short_name,omitempty"`
}

// Date is a publication date with optional month and day.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month,omitempty"` // 1-12, 0 if unknown
	Day   int `json:"day,omitempty"`   // 1-31, 0 if unknown
}

func (d Date) String() string {
	switch {
	case d.Month == 0:
		return fmt.Sprintf("%04d", d.Year)
	case d.Day == 0:
		return fmt.Sprintf("%04d-%02d", d.Year, d.Month)
	default:
		return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
	}
}
