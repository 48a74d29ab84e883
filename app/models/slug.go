package models

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Slugify derives a URL-safe identifier from a display name: diacritics are
// folded (including đ→d, so Vietnamese names come out readable), anything
// outside [a-z0-9] collapses to single hyphens.
//
//	Slugify("Túi xách thêu tay") == "tui-xach-theu-tay"
func Slugify(name string) string {
	lower := strings.ToLower(name)

	// Decompose and drop combining marks (NFD pass).
	decomposed := norm.NFD.String(lower)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if r == 'đ' {
			b.WriteRune('d')
			continue
		}
		b.WriteRune(r)
	}

	// Collapse every non-alphanumeric run into a single hyphen.
	var out strings.Builder
	out.Grow(b.Len())
	lastHyphen := true // swallow leading separators
	for _, r := range b.String() {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			out.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			out.WriteRune('-')
			lastHyphen = true
		}
	}

	return strings.TrimSuffix(out.String(), "-")
}
