// Package bmpm implements the Beider–Morse Phonetic Matching encoder:
// a rule-driven rewrite of a normalized name into one or more
// language-annotated phonetic alternatives.
package bmpm

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/onomastics/bmpm/pkg/language"
	"github.com/onomastics/bmpm/pkg/phonetic"
	"github.com/onomastics/bmpm/pkg/rules"
)

// rewrite runs the main rewrite pass: scan the input left to right,
// fire the first rule whose pattern, contexts and language predicates
// hold, and append its phonetic under the compatibility rules. Input
// positions no rule consumes are skipped silently; a residual space is
// the usual case.
func rewrite(s string, t *rules.Table, mask language.Mask) string {
	var p string
	for i := 0; i < len(s); {
		fired := false
		for _, r := range t.Rules {
			if !r.MatchesAt(s, i) || !r.AppliesTo(mask) ||
				!r.MatchesLeft(s, i) || !r.MatchesRight(s, i) {
				continue
			}
			cand, ok := concatCompatible(p, r.Phonetic, mask)
			if !ok {
				// Every branch died; treat as a non-match and keep
				// scanning the table.
				continue
			}
			p = cand
			i += len(r.Pattern)
			fired = true
			break
		}
		if !fired {
			_, n := utf8.DecodeRuneInString(s[i:])
			i += n
		}
	}
	return p
}

// concatCompatible appends the phonetic fragment q to the running
// output p, keeping only the branches compatible with the context mask.
//
// The cheap path applies when no attribute is involved: plain string
// concatenation. Otherwise the combined string is expanded, each
// alternative is stamped with the context mask (unless the context is
// pure Any) and canonicalized, and dead alternatives are dropped. The
// second return value is false when nothing survives.
func concatCompatible(p, q string, mask language.Mask) (string, bool) {
	joined := p + q
	if !strings.ContainsRune(joined, '[') {
		return joined, true
	}

	stamp := ""
	if mask != 1 {
		stamp = "[" + strconv.FormatUint(uint64(mask), 10) + "]"
	}

	var kept []string
	for _, alt := range phonetic.Expand(joined) {
		alt = phonetic.NormalizeAttrs(alt+stamp, false)
		if alt == "" || alt == "[0]" || strings.HasSuffix(alt, "[0]") {
			continue
		}
		kept = append(kept, alt)
	}
	if len(kept) == 0 {
		return "", false
	}
	return phonetic.Collapse(kept), true
}
