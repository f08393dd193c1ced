package feed

import (
	"strings"
)

// Unfold rejoins RFC 5545 folded lines. A line starting with a single
// space or tab continues the previous logical line: exactly one leading
// character is stripped and the rest is appended without a separator.
// Both LF and CRLF line endings are accepted. A continuation at the very
// start of the document has nothing to continue and becomes a logical
// line of its own, with the prefix stripped.
func Unfold(data []byte) []string {
	if len(data) == 0 {
		return nil
	}

	raw := strings.Split(string(data), "\n")
	if raw[len(raw)-1] == "" {
		raw = raw[:len(raw)-1]
	}

	out := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSuffix(line, "\r")

		continuation := strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
		if continuation && len(out) > 0 {
			out[len(out)-1] += line[1:]
			continue
		}
		if continuation {
			line = line[1:]
		}
		out = append(out, line)
	}

	return out
}
