package dmsoundex

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// diacriticFold strips combining marks after canonical decomposition,
// turning "ï" into "i" and "ü" into "u" without a per-character table.
var diacriticFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// letterFolds maps the letters that survive decomposition with no plain
// ASCII form.
var letterFolds = map[rune]string{
	'ß': "s",
	'æ': "a",
	'ð': "d",
	'đ': "d",
	'ł': "l",
	'ø': "o",
	'œ': "o",
	'þ': "t",
}

// normalize folds the input to plain lowercase a–z plus one space for
// each separator. Space, comma and slash all separate parts; every other
// non-letter is dropped silently.
func normalize(s string) string {
	folded, _, err := transform.String(diacriticFold, s)
	if err == nil {
		s = folded
	}
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r == ' ' || r == ',' || r == '/':
			b.WriteByte(' ')
		default:
			if f, ok := letterFolds[r]; ok {
				b.WriteString(f)
			}
		}
	}
	return b.String()
}
