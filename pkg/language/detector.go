package language

import "regexp"

// DetectRule narrows the set of candidate languages. When its pattern
// matches the input, an accepting rule intersects the running mask with
// Languages; a rejecting rule clears those bits instead.
type DetectRule struct {
	Pattern   *regexp.Regexp
	Languages Mask
	Accept    bool
}

// Detector narrows a language mask for one name type by running its
// rules in order. A Detector is immutable and safe for concurrent use.
type Detector struct {
	nameType NameType
	rules    []DetectRule
}

// NewDetector builds a Detector for the given name type.
func NewDetector(t NameType, rules []DetectRule) *Detector {
	return &Detector{nameType: t, rules: rules}
}

// NameType returns the name type the detector was built for.
func (d *Detector) NameType() NameType {
	return d.nameType
}

// Detect returns the mask of languages compatible with s.
//
// Starting from the universe of the detector's name type, each matching
// accept rule intersects the mask with the rule's languages and each
// matching reject rule removes them. Intersection makes accepts
// cumulative: two accepts on the same input leave only the languages
// both allow. If every bit is cleared the result is Any's value, so a
// contradictory input degrades to "no specific language" rather than
// to an unusable empty mask.
func (d *Detector) Detect(s string) Mask {
	universe := Universe(d.nameType)
	remaining := universe
	for _, r := range d.rules {
		if !r.Pattern.MatchString(s) {
			continue
		}
		if r.Accept {
			remaining &= r.Languages
		} else {
			remaining &= ^r.Languages & universe
		}
	}
	if remaining == 0 {
		return Value(d.nameType, Any)
	}
	return remaining
}

// DetectLanguages decodes Detect's mask into the language set.
func (d *Detector) DetectLanguages(s string) []Language {
	return DecodeMask(d.nameType, d.Detect(s))
}

// DetectPrimary returns the first concrete language in the detected
// mask, or Any when no concrete language remains.
func (d *Detector) DetectPrimary(s string) Language {
	m := d.Detect(s)
	for _, l := range Languages(d.nameType) {
		if l == Any {
			continue
		}
		if m&Value(d.nameType, l) != 0 {
			return l
		}
	}
	return Any
}
