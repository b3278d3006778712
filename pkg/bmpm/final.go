package bmpm

import (
	"strings"
	"unicode/utf8"

	"github.com/onomastics/bmpm/pkg/language"
	"github.com/onomastics/bmpm/pkg/phonetic"
	"github.com/onomastics/bmpm/pkg/rules"
)

// applyFinalPass rewrites an intermediate phonetic with a final-rule
// table. The phonetic is first attribute-normalized and split into its
// alternatives; each alternative is rewritten independently and the
// survivors are recombined. An empty table is a no-op pass.
//
// With strip set (the language-specific pass, which runs last) the
// language attributes are removed from the joined result; the common
// pass keeps them so the last pass can still prune on them.
func applyFinalPass(p string, t *rules.Table, mask language.Mask, strip bool) string {
	if t.Empty() || p == "" {
		return p
	}

	p = phonetic.NormalizeAttrs(p, false)

	var alts []string
	if strings.ContainsRune(p, '(') {
		alts = phonetic.Expand(p)
	} else {
		alts = strings.Split(p, "|")
	}

	var out []string
	seen := make(map[string]struct{}, len(alts))
	for _, a := range alts {
		r, ok := rewriteAlternative(a, t, mask)
		if !ok || r == "" {
			continue
		}
		// A rule may have emitted a group of its own; re-expand so the
		// accumulated alternatives stay flat.
		for _, ex := range phonetic.Expand(r) {
			if _, dup := seen[ex]; dup {
				continue
			}
			seen[ex] = struct{}{}
			out = append(out, ex)
		}
	}

	joined := strings.Join(out, "|")
	if strip {
		joined = phonetic.NormalizeAttrs(joined, true)
	}
	if len(out) > 1 {
		return "(" + joined + ")"
	}
	return joined
}

// rewriteAlternative runs the final-rule scan over a single
// alternative. The alternative's trailing attribute (if any) is held
// aside during the scan so that end-of-word contexts see the real end
// of the phonetic, then ANDed back in at the close. Unlike the main
// pass, characters no rule consumes are copied through: the final
// tables only adjust phonemes, they do not re-derive them.
//
// The second return value is false when the attribute merge kills every
// branch of the rewritten alternative.
func rewriteAlternative(a string, t *rules.Table, mask language.Mask) (string, bool) {
	core, attr := splitTrailingAttr(a)

	var p string
	for i := 0; i < len(core); {
		fired := false
		for _, r := range t.Rules {
			if !r.MatchesAt(core, i) || !r.AppliesTo(mask) ||
				!r.MatchesLeft(core, i) || !r.MatchesRight(core, i) {
				continue
			}
			cand, ok := concatCompatible(p, r.Phonetic, mask)
			if !ok {
				continue
			}
			p = cand
			i += len(r.Pattern)
			fired = true
			break
		}
		if !fired {
			_, n := utf8.DecodeRuneInString(core[i:])
			p += core[i : i+n]
			i += n
		}
	}

	if attr == "" {
		return p, true
	}
	return concatCompatible(p, attr, mask)
}

// splitTrailingAttr separates "smit[128]" into "smit" and "[128]". The
// attribute, when present, is always last: NormalizeAttrs has already
// run on the enclosing phonetic.
func splitTrailingAttr(a string) (core, attr string) {
	if !strings.HasSuffix(a, "]") {
		return a, ""
	}
	open := strings.LastIndexByte(a, '[')
	if open < 0 {
		return a, ""
	}
	return a[:open], a[open:]
}
