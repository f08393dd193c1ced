package feed

import (
	"bytes"
	"strings"

	"github.com/feedwerk/ics-split/app/config"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Run assembles one output calendar: a fixed header, the timezone
// definitions carried over from the source, the selected event blocks
// verbatim, and the closing line. Lines are joined with CRLF and the
// document ends with a trailing CRLF. The output contains nothing
// run-dependent, so identical input yields identical bytes.
func (g *Generator) Run(name string, events []Event, headerLines []string, profile *config.Profile) []byte {
	var buf bytes.Buffer

	g.writeLine(&buf, "BEGIN:VCALENDAR")
	g.writeLine(&buf, "PRODID:"+profile.ProductID)
	g.writeLine(&buf, "VERSION:2.0")
	g.writeLine(&buf, "CALSCALE:GREGORIAN")
	g.writeLine(&buf, "X-WR-CALNAME:"+name)

	if profile.TimezonesKept() {
		for _, line := range timezoneLines(headerLines) {
			g.writeLine(&buf, line)
		}
	}

	for _, event := range events {
		for _, line := range event.Lines {
			g.writeLine(&buf, line)
		}
	}

	g.writeLine(&buf, "END:VCALENDAR")

	return buf.Bytes()
}

func (g *Generator) writeLine(buf *bytes.Buffer, line string) {
	buf.WriteString(line)
	buf.WriteString("\r\n")
}

// timezoneLines returns the VTIMEZONE blocks of the source header, so
// TZID references inside copied event blocks keep resolving.
func timezoneLines(headerLines []string) []string {
	var out []string
	inBlock := false
	for _, line := range headerLines {
		if strings.HasPrefix(line, "BEGIN:VTIMEZONE") {
			inBlock = true
		}
		if inBlock {
			out = append(out, line)
		}
		if strings.HasPrefix(line, "END:VTIMEZONE") {
			inBlock = false
		}
	}
	return out
}
