// Package describe parses entry description markup into a structured
// document of paragraphs and typed parts.
//
// The markup is hand-authored prose with two kinds of bracketed tokens:
// cross-references to other entries ("[2009-theobald-rmsd]" or
// "[2009-theobald-rmsd=23]") and external links ("[text](href)").
// Anything that fails to match either grammar degrades to literal text.
package describe

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Part is one piece of a paragraph: Text, CrossRef, or Link.
// The variant set is closed; renderers can match exhaustively.
type Part interface {
	// Markdown renders the part back to source markup.
	Markdown() string

	isPart()
}

// Text is literal prose with internal whitespace collapsed to single spaces.
type Text struct {
	Content string `json:"content"`
}

func (t Text) isPart()          {}
func (t Text) Markdown() string { return t.Content }

func (t Text) MarshalJSON() ([]byte, error) {
	type alias Text
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{Type: "text", alias: alias(t)})
}

// CrossRef is a reference to another entry by identifier. Num, when
// present, is the citation number the source paper uses for the target
// in its own reference list; it is stored as opaque provenance and
// never validated against the target.
type CrossRef struct {
	TargetID string `json:"target"`
	Num      *int   `json:"num,omitempty"`
}

func (c CrossRef) isPart() {}

func (c CrossRef) Markdown() string {
	if c.Num != nil {
		return "[" + c.TargetID + "=" + strconv.Itoa(*c.Num) + "]"
	}
	return "[" + c.TargetID + "]"
}

func (c CrossRef) MarshalJSON() ([]byte, error) {
	type alias CrossRef
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{Type: "crossref", alias: alias(c)})
}

// Link is a generic external hyperlink.
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

func (l Link) isPart()          {}
func (l Link) Markdown() string { return "[" + l.Text + "](" + l.Href + ")" }

func (l Link) MarshalJSON() ([]byte, error) {
	type alias Link
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{Type: "link", alias: alias(l)})
}

// Paragraph is an ordered sequence of parts. Paragraph boundaries
// correspond to blank lines in the raw text.
type Paragraph struct {
	Parts []Part `json:"parts"`
}

// Markdown renders the paragraph back to source markup.
func (p Paragraph) Markdown() string {
	var b strings.Builder
	for _, part := range p.Parts {
		b.WriteString(part.Markdown())
	}
	return b.String()
}

// Description is a parsed description document.
type Description []Paragraph

// Markdown renders the whole description back to source markup with
// blank-line paragraph separators.
func (d Description) Markdown() string {
	paras := make([]string, len(d))
	for i, p := range d {
		paras[i] = p.Markdown()
	}
	return strings.Join(paras, "\n\n")
}
