// Package conversion prepares raw personal-name input for phonetic
// encoding. It detects and converts legacy encodings to UTF-8, decodes
// HTML/XML entities, lowercases, bounds the input length, and applies
// the delimiter and leading-phrase canonicalizations that the encoders
// rely on.
package conversion

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	xlang "golang.org/x/text/language"
)

var (
	// ErrEmptyInput reports an input that is empty or whitespace only.
	ErrEmptyInput = errors.New("empty input")

	// ErrInvalidEncoding reports bytes that none of the candidate
	// encodings could decode.
	ErrInvalidEncoding = errors.New("input is not valid in any supported encoding")

	// ErrInputTooLong reports an input longer than Options.MaxRunes
	// after conversion to UTF-8.
	ErrInputTooLong = errors.New("input too long")
)

// Options control a single Normalize run.
type Options struct {
	// MaxRunes caps the length of the converted input in codepoints.
	// Zero means DefaultOptions.MaxRunes.
	MaxRunes int
}

// DefaultOptions are the defaults used by Normalize.
//
// Personal names are short; the cap only exists to bound the cost of a
// single encode call.
var DefaultOptions = Options{MaxRunes: 1000}

// Normalize trims, entity-decodes, converts to UTF-8 and lowercases the
// given input using DefaultOptions.
func Normalize(input string) (string, error) {
	return NormalizeWithOptions(input, DefaultOptions)
}

// NormalizeWithOptions trims, entity-decodes, converts to UTF-8 and
// lowercases the given input.
//
// The steps run in a fixed order:
//
//  1. outer whitespace is trimmed; ErrEmptyInput if nothing remains;
//  2. HTML/XML entities (named and numeric) are decoded when the input
//     contains '&';
//  3. the bytes are converted to UTF-8, trying UTF-8, ISO-8859-1 and
//     Windows-1252 in that order; ErrInvalidEncoding if none applies;
//  4. the codepoint count is checked against opts.MaxRunes;
//  5. the result is Unicode-lowercased.
func NormalizeWithOptions(input string, opts Options) (string, error) {
	max := opts.MaxRunes
	if max <= 0 {
		max = DefaultOptions.MaxRunes
	}

	s := strings.TrimSpace(input)
	if s == "" {
		return "", ErrEmptyInput
	}

	if strings.ContainsRune(s, '&') {
		s = html.UnescapeString(s)
	}

	converted, _, err := DetectAndConvert([]byte(s))
	if err != nil {
		return "", err
	}
	s = converted

	if utf8.RuneCountInString(s) > max {
		return "", ErrInputTooLong
	}

	// Casers are stateful transformers, so one is built per call
	// rather than shared.
	return cases.Lower(xlang.Und).String(s), nil
}

// leadingPhrases are multi-word name openers that are folded into a
// single token so that the space they contain is not mistaken for a
// compound-name boundary. The input must already be lowercased.
var leadingPhrases = []string{"de la", "van der", "van den"}

// FoldLeadingPhrases replaces a recognized leading phrase followed by a
// space with the same phrase minus its internal spaces ("de la rosa"
// becomes "dela rosa").
func FoldLeadingPhrases(s string) string {
	for _, phrase := range leadingPhrases {
		if strings.HasPrefix(s, phrase+" ") {
			folded := strings.ReplaceAll(phrase, " ", "")
			return folded + s[len(phrase):]
		}
	}
	return s
}

// delimiters, in canonicalization order. The apostrophe round runs
// first so that a surviving apostrophe becomes the token boundary when
// the name carries no other separator.
var delimiters = []byte{'\'', '-', ' '}

// CanonicalizeDelimiters reduces apostrophes, dashes and spaces to a
// single token boundary.
//
// For each delimiter kind in order, every occurrence is removed and one
// space is reinserted at the position of the first occurrence. Because
// the space round runs last, at most one space survives overall.
//
// When stripApostrophe is true (Generic and Ashkenazic name types),
// apostrophes are deleted outright before the delimiter rounds, so
// "o'brien" collapses to "obrien". Sephardic keeps them, treating the
// apostrophe as a separator in its own right.
func CanonicalizeDelimiters(s string, stripApostrophe bool) string {
	if stripApostrophe {
		s = strings.ReplaceAll(s, "'", "")
	}
	for _, d := range delimiters {
		p := strings.IndexByte(s, d)
		if p < 0 {
			continue
		}
		s = s[:p] + " " + strings.ReplaceAll(s[p:], string(d), "")
	}
	return s
}
