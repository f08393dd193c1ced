package feed

import (
	"strings"
)

const (
	eventBegin = "BEGIN:VEVENT"
	eventEnd   = "END:VEVENT"
)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Run unfolds the raw calendar and splits it into the document header and
// its event blocks. Structural anomalies never fail the parse: a second
// BEGIN before the matching END discards the open block, a block left
// unterminated at the end of input is dropped, and a stray END outside
// any block is kept as a header line.
func (p *Parser) Run(data []byte) *Document {
	lines := Unfold(data)

	doc := &Document{}
	var current []string
	inEvent := false

	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, eventBegin):
			current = []string{line}
			inEvent = true
		case inEvent:
			current = append(current, line)
			if strings.HasPrefix(line, eventEnd) {
				doc.Events = append(doc.Events, p.newEvent(current))
				current = nil
				inEvent = false
			}
		default:
			doc.HeaderLines = append(doc.HeaderLines, line)
		}
	}

	return doc
}

func (p *Parser) newEvent(lines []string) Event {
	return Event{
		Lines:   lines,
		Status:  readProp(lines, "STATUS"),
		Summary: unescapeText(readProp(lines, "SUMMARY")),
	}
}

// readProp returns the value of the first property named key in the
// block. The name match is case-insensitive and allows property
// parameters (NAME;LANGUAGE=de:value); the value is everything after the
// first ':' on the line. Missing properties yield "".
func readProp(lines []string, key string) string {
	keyUp := strings.ToUpper(key)
	for _, line := range lines {
		up := strings.ToUpper(line)
		if strings.HasPrefix(up, keyUp+":") || strings.HasPrefix(up, keyUp+";") {
			if _, value, ok := strings.Cut(line, ":"); ok {
				return value
			}
		}
	}
	return ""
}

// unescapeText resolves the RFC 5545 TEXT escapes \\ \; \, \n and \N.
// Unknown escapes and a trailing lone backslash pass through unchanged.
func unescapeText(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n', 'N':
			b.WriteByte('\n')
		case '\\', ';', ',':
			b.WriteByte(s[i])
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
