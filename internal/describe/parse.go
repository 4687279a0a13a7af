package describe

import (
	"regexp"
	"strconv"
	"strings"
)

// blankLine separates paragraphs. Paragraph breaks are the only
// significant whitespace in the markup.
var blankLine = regexp.MustCompile(`\n[ \t]*\n`)

// crossRefToken is the cross-reference grammar: an entry identifier
// optionally followed by "=" and a decimal citation number.
var crossRefToken = regexp.MustCompile(`^([a-z0-9-]+)(?:=([0-9]+))?$`)

// Parse parses raw description markup into paragraphs of typed parts.
//
// Parsing is a pure function of the input: it consults no external state
// and performs no identifier validation (that is the resolver's job).
// Malformed tokens degrade to literal text; Parse never fails.
func Parse(raw string) Description {
	var desc Description
	for _, chunk := range blankLine.Split(raw, -1) {
		// Collapse all runs of whitespace, including newlines, to
		// single spaces.
		collapsed := strings.Join(strings.Fields(chunk), " ")
		if collapsed == "" {
			continue
		}
		desc = append(desc, parseParagraph(collapsed))
	}
	return desc
}

// parseParagraph scans one whitespace-collapsed chunk left to right,
// accumulating literal text and flushing it at token boundaries.
func parseParagraph(s string) Paragraph {
	var parts []Part
	var text strings.Builder

	flush := func() {
		if text.Len() > 0 {
			parts = append(parts, Text{Content: text.String()})
			text.Reset()
		}
	}

	i := 0
	for i < len(s) {
		if s[i] != '[' {
			text.WriteByte(s[i])
			i++
			continue
		}
		part, width := scanToken(s[i:])
		if width == 0 {
			// Not a recognized token: the bracket stays literal and
			// scanning resumes one byte later, so the rest of the
			// would-be token accumulates as text.
			text.WriteByte(s[i])
			i++
			continue
		}
		flush()
		parts = append(parts, part)
		i += width
	}
	flush()

	return Paragraph{Parts: parts}
}

// scanToken attempts to read one bracketed token at the start of s
// (s[0] is '['). It returns the parsed part and the number of bytes
// consumed, or width 0 when s does not begin with a valid token.
func scanToken(s string) (Part, int) {
	end := strings.IndexByte(s, ']')
	if end < 0 {
		return nil, 0
	}
	inner := s[1:end]

	// "[text](href)" is a link; a '(' straight after ']' rules out the
	// cross-reference reading.
	if end+1 < len(s) && s[end+1] == '(' {
		return scanLink(s, inner, end)
	}

	m := crossRefToken.FindStringSubmatch(inner)
	if m == nil {
		return nil, 0
	}
	ref := CrossRef{TargetID: m[1]}
	if m[2] != "" {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, 0
		}
		ref.Num = &n
	}
	return ref, end + 1
}

// scanLink parses "[text](href)" given the bracket content and the
// index of ']' in s.
func scanLink(s, inner string, end int) (Part, int) {
	close := strings.IndexByte(s[end+2:], ')')
	if close < 0 {
		return nil, 0
	}
	href := s[end+2 : end+2+close]
	if inner == "" || href == "" || strings.ContainsRune(href, ' ') {
		return nil, 0
	}
	return Link{Text: inner, Href: href}, end + 2 + close + 1
}
