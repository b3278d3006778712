package bmpm

import (
	"sort"

	"github.com/onomastics/bmpm/pkg/language"
	"github.com/onomastics/bmpm/pkg/phonetic"
	"github.com/onomastics/bmpm/pkg/rules"
)

// prefixSets lists, per name type, the first words of compound names
// that are particles rather than names in their own right ("van Berg",
// "ben David"). For a particle first word only the bare second word and
// the fused compound are encoded; encoding the particle alone would
// just add noise.
var prefixSets = map[language.NameType]map[string]struct{}{
	language.Generic: set(
		"abu", "bar", "ben", "da", "de", "del", "dela", "della", "des",
		"di", "do", "dos", "du", "van", "vanden", "vander", "von",
	),
	language.Ashkenazic: set(
		"bar", "ben", "da", "de", "van", "von",
	),
	language.Sephardic: set(
		"al", "da", "dal", "de", "del", "dela", "della", "des", "di",
		"do", "dos", "du", "el", "van", "von",
	),
}

func set(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// Prefixes returns the particle words recognized for a name type, in
// sorted order.
func Prefixes(t language.NameType) []string {
	out := make([]string, 0, len(prefixSets[t]))
	for w := range prefixSets[t] {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

func isPrefix(t language.NameType, word string) bool {
	_, ok := prefixSets[t][word]
	return ok
}

// encodeWords encodes a two-token compound name.
//
// Under Exact accuracy the tokens are fused and encoded as one word.
// Under Approximate the result preserves both corpus conventions: the
// second word alone (Y) and the fused compound (XY), plus the first
// word alone (X) when it is not a recognized particle. Each piece is
// encoded under its own re-detected language mask and the pieces are
// dash-merged in X, Y, XY order.
func (e *Encoder) encodeWords(w1, w2 string, detect func(string) language.Mask) (string, error) {
	combined := w1 + w2

	if e.accuracy == rules.Exact {
		return e.encodeWord(combined, detect(combined))
	}

	y, err := e.encodeWord(w2, detect(w2))
	if err != nil {
		return "", err
	}
	xy, err := e.encodeWord(combined, detect(combined))
	if err != nil {
		return "", err
	}
	if isPrefix(e.nameType, w1) {
		return phonetic.Merge(y, xy), nil
	}

	x, err := e.encodeWord(w1, detect(w1))
	if err != nil {
		return "", err
	}
	return phonetic.Merge(phonetic.Merge(x, y), xy), nil
}
