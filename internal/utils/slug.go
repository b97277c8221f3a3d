package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Slugify converts a title to a URL-safe slug: accented characters are
// NFKD-decomposed and everything non-ASCII is dropped, letters are lowered,
// and runs of whitespace, underscores and hyphens collapse to a single
// hyphen. The result carries no leading or trailing hyphen, so Slugify is
// idempotent on its own output. An empty result is possible for titles with
// no ASCII alphanumerics; callers decide the fallback.
func Slugify(title string) string {
	decomposed := norm.NFKD.String(title)

	var b strings.Builder
	pendingSep := false
	for _, r := range decomposed {
		if r > unicode.MaxASCII {
			// Combining marks and other non-ASCII runes vanish entirely.
			continue
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(unicode.ToLower(r))
		case r == ' ', r == '\t', r == '\n', r == '\r', r == '-', r == '_':
			pendingSep = true
		default:
			// Other punctuation is stripped without acting as a separator.
		}
	}
	return b.String()
}
