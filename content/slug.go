package content

import (
	"strings"
	"unicode"
)

// Slugify converts a title to a URL-safe slug: lowercase, every run of
// characters that are not letters or digits becomes a single hyphen, and
// leading/trailing hyphens are dropped. Slugify(Slugify(s)) == Slugify(s).
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pending := false
	for _, r := range s {
		r = unicode.ToLower(r)
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			pending = false
			continue
		}
		pending = true
	}
	return b.String()
}
