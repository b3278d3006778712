package bmpm

import (
	"errors"

	"github.com/onomastics/bmpm/pkg/conversion"
	"github.com/onomastics/bmpm/pkg/language"
	"github.com/onomastics/bmpm/pkg/phonetic"
	"github.com/onomastics/bmpm/pkg/rules"
)

// defaultStore serves encoders over the embedded rule data. Tables are
// memoized inside the store, so sharing one across all encoders is the
// cheap and intended setup.
var defaultStore = rules.NewStore()

// Encoder encodes names for one (name type, accuracy) pair. Encoders
// are immutable and safe for concurrent use; all mutable state lives in
// the store's memoizing cache.
type Encoder struct {
	nameType language.NameType
	accuracy rules.Accuracy
	store    *rules.Store
	normOpts conversion.Options
}

// New returns an Encoder over the embedded default rule data.
func New(t language.NameType, a rules.Accuracy) *Encoder {
	return NewWithStore(t, a, defaultStore)
}

// NewWithStore returns an Encoder bound to an explicit rule store,
// typically one opened over an external rule-data tree.
func NewWithStore(t language.NameType, a rules.Accuracy, store *rules.Store) *Encoder {
	return &Encoder{nameType: t, accuracy: a, store: store, normOpts: conversion.DefaultOptions}
}

// NameType returns the encoder's name type.
func (e *Encoder) NameType() language.NameType { return e.nameType }

// Accuracy returns the encoder's accuracy.
func (e *Encoder) Accuracy() rules.Accuracy { return e.accuracy }

// Encode returns the phonetic encoding of a name. The result may carry
// "(a|b)" alternatives and "[N]" language attributes; it is "" both for
// empty/whitespace input and when every alternative of the name is
// pruned as language-incompatible. Normalization failures other than
// emptiness (bad encoding, over-long input) are returned as errors.
func (e *Encoder) Encode(input string) (string, error) {
	norm, err := e.prepare(input)
	if err != nil {
		if errors.Is(err, conversion.ErrEmptyInput) {
			return "", nil
		}
		return "", err
	}
	return e.encodePrepared(norm, nil)
}

// EncodeWithLanguage is Encode with the language detection bypassed:
// every word is encoded under the supplied mask.
func (e *Encoder) EncodeWithLanguage(input string, mask language.Mask) (string, error) {
	norm, err := e.prepare(input)
	if err != nil {
		if errors.Is(err, conversion.ErrEmptyInput) {
			return "", nil
		}
		return "", err
	}
	return e.encodePrepared(norm, func(string) language.Mask { return mask })
}

// EncodeToArray returns the expanded, attribute-free alternatives of
// Encode's result.
func (e *Encoder) EncodeToArray(input string) ([]string, error) {
	p, err := e.Encode(input)
	if err != nil || p == "" {
		return nil, err
	}
	var out []string
	seen := make(map[string]struct{})
	for _, alt := range phonetic.Expand(p) {
		alt = phonetic.NormalizeAttrs(alt, true)
		if alt == "" {
			continue
		}
		if _, dup := seen[alt]; dup {
			continue
		}
		seen[alt] = struct{}{}
		out = append(out, alt)
	}
	return out, nil
}

// Detect returns the language mask of a name under the encoder's name
// type.
func (e *Encoder) Detect(input string) (language.Mask, error) {
	norm, err := e.prepare(input)
	if err != nil {
		return 0, err
	}
	det, err := e.store.Detector(e.nameType)
	if err != nil {
		return 0, err
	}
	return det.Detect(norm), nil
}

// prepare runs the input through normalization, leading-phrase folding
// and delimiter canonicalization. Generic and Ashkenazic drop
// apostrophes outright; Sephardic keeps them as separators.
func (e *Encoder) prepare(input string) (string, error) {
	norm, err := conversion.NormalizeWithOptions(input, e.normOpts)
	if err != nil {
		return "", err
	}
	norm = conversion.FoldLeadingPhrases(norm)
	return conversion.CanonicalizeDelimiters(norm, e.nameType != language.Sephardic), nil
}

// encodePrepared encodes a fully canonicalized name. detect overrides
// language detection when non-nil (the EncodeWithLanguage path).
func (e *Encoder) encodePrepared(s string, detect func(string) language.Mask) (string, error) {
	if detect == nil {
		det, err := e.store.Detector(e.nameType)
		if err != nil {
			return "", err
		}
		detect = det.Detect
	}
	if w1, w2, compound := splitFirstSpace(s); compound {
		return e.encodeWords(w1, w2, detect)
	}
	return e.encodeWord(s, detect(s))
}

// encodeWord runs the three rewrite passes over a single word.
func (e *Encoder) encodeWord(s string, mask language.Mask) (string, error) {
	lang := language.ForMask(e.nameType, mask)

	main, err := e.store.Main(e.nameType, lang)
	if err != nil {
		return "", err
	}
	p := rewrite(s, main, mask)

	common, err := e.store.FinalCommon(e.nameType, e.accuracy)
	if err != nil {
		return "", err
	}
	p = applyFinalPass(p, common, mask, false)

	final, err := e.store.FinalLanguage(e.nameType, e.accuracy, lang)
	if err != nil {
		return "", err
	}
	p = applyFinalPass(p, final, mask, true)

	return p, nil
}

func splitFirstSpace(s string) (w1, w2 string, ok bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' {
			return s[:i], s[i+1:], true
		}
	}
	return "", "", false
}

// Encode encodes a name with the embedded default rule data.
func Encode(input string, t language.NameType, a rules.Accuracy) (string, error) {
	return New(t, a).Encode(input)
}

// EncodeToArray returns the expanded alternatives of Encode's result.
func EncodeToArray(input string, t language.NameType, a rules.Accuracy) ([]string, error) {
	return New(t, a).EncodeToArray(input)
}

// Detect returns the language mask of a name under a name type, using
// the embedded default rule data.
func Detect(input string, t language.NameType) (language.Mask, error) {
	return New(t, rules.Approx).Detect(input)
}
