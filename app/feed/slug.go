package feed

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// slugFallback is used when a name has no usable characters at all.
const slugFallback = "kalender"

// asciiFold decomposes to NFKD and strips combining marks, so umlauts
// and accents collapse to their base letters (ä -> a).
var asciiFold = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// Slugify turns a committee name into a filename base: transliterate to
// ASCII, replace runs of anything else with a single dash, trim dashes,
// lowercase. The result is stable across runs for a given name.
func Slugify(name string) string {
	folded, _, err := transform.String(asciiFold, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingDash := false
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r + ('a' - 'A'))
		default:
			pendingDash = true
		}
	}

	if b.Len() == 0 {
		return slugFallback
	}
	return b.String()
}
