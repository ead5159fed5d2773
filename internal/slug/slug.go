// Package slug derives URL-safe identifiers from display strings.
//
// A slug is lowercase ASCII letters and digits joined by single hyphens, with no leading or
// trailing hyphen. Accented letters are folded to their base letter first ("Café" -> "cafe");
// anything else that is not a letter or digit separates tokens.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength is the id length used by the catalog.
const MaxLength = 64

// Make returns the slug of source truncated to maxLength bytes. A non-positive maxLength
// disables truncation. Empty or all-punctuation input yields "".
//
// Make is idempotent: Make(Make(s, n), n) == Make(s, n).
func Make(source string, maxLength int) string {
	var b strings.Builder
	b.Grow(len(source))

	pending := false
	for _, r := range fold(source) {
		r = unicode.ToLower(r)
		if isWord(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}

	out := b.String()
	if maxLength > 0 && len(out) > maxLength {
		// Truncation may cut a token in half; only a dangling separator is trimmed.
		out = strings.TrimRight(out[:maxLength], "-")
	}
	return out
}

// Valid reports whether s is already a well-formed slug of at most maxLength bytes.
func Valid(s string, maxLength int) bool {
	if s == "" || (maxLength > 0 && len(s) > maxLength) {
		return false
	}
	return Make(s, maxLength) == s
}

func isWord(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

// fold decomposes source and drops combining marks so accented Latin letters reduce to ASCII.
func fold(source string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, source)
	if err != nil {
		return source
	}
	return out
}
