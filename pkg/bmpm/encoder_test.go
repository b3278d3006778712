package bmpm

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/onomastics/bmpm/pkg/conversion"
	"github.com/onomastics/bmpm/pkg/language"
	"github.com/onomastics/bmpm/pkg/phonetic"
	"github.com/onomastics/bmpm/pkg/rules"
)

func encodeOrFail(t *testing.T, e *Encoder, name string) string {
	t.Helper()
	got, err := e.Encode(name)
	if err != nil {
		t.Fatalf("Encode(%q) returned error: %v", name, err)
	}
	return got
}

func TestEncodeSmith(t *testing.T) {
	e := New(language.Generic, rules.Approx)
	got := encodeOrFail(t, e, "Smith")
	if got != "(smit|zmit)" {
		t.Errorf("got %q, want (smit|zmit)", got)
	}
	if !strings.Contains(got, "smit") {
		t.Errorf("encoding %q does not contain smit", got)
	}
}

func TestEncodeSchwarzenegger(t *testing.T) {
	e := New(language.Generic, rules.Approx)
	alts, err := e.EncodeToArray("Schwarzenegger")
	if err != nil {
		t.Fatalf("EncodeToArray returned error: %v", err)
	}
	found := false
	for _, a := range alts {
		if a == "svarceneger" {
			found = true
		}
	}
	if !found {
		t.Errorf("alternatives %v do not contain svarceneger", alts)
	}
}

func TestEncodeDiacriticsAndEntities(t *testing.T) {
	e := New(language.Generic, rules.Approx)
	plain := encodeOrFail(t, e, "Muller")
	for _, variant := range []string{"Müller", "M&uuml;ller", "M&#252;ller"} {
		if got := encodeOrFail(t, e, variant); got != plain {
			t.Errorf("Encode(%q) = %q, want %q", variant, got, plain)
		}
	}
}

func TestEncodeEmptyInput(t *testing.T) {
	e := New(language.Generic, rules.Approx)
	for _, in := range []string{"", "   "} {
		got, err := e.Encode(in)
		if err != nil {
			t.Fatalf("Encode(%q) returned error: %v", in, err)
		}
		if got != "" {
			t.Errorf("Encode(%q) = %q, want empty", in, got)
		}
	}
}

func TestEncodePropagatesTooLong(t *testing.T) {
	e := New(language.Generic, rules.Approx)
	_, err := e.Encode(strings.Repeat("a", 2000))
	if !errors.Is(err, conversion.ErrInputTooLong) {
		t.Errorf("got %v, want ErrInputTooLong", err)
	}
}

func TestEncodePrefixLaw(t *testing.T) {
	// "ben" is a recognized particle: the compound encodes as
	// merge(second word, fused compound).
	e := New(language.Generic, rules.Approx)
	got := encodeOrFail(t, e, "Ben David")
	want := phonetic.Merge(encodeOrFail(t, e, "David"), encodeOrFail(t, e, "BenDavid"))
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEncodeNonPrefixLaw(t *testing.T) {
	e := New(language.Generic, rules.Approx)
	got := encodeOrFail(t, e, "Mark Smith")
	want := phonetic.Merge(
		phonetic.Merge(encodeOrFail(t, e, "Mark"), encodeOrFail(t, e, "Smith")),
		encodeOrFail(t, e, "MarkSmith"),
	)
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEncodePrefixMatchingIsCaseInsensitive(t *testing.T) {
	e := New(language.Generic, rules.Approx)
	if got, want := encodeOrFail(t, e, "VAN Berg"), encodeOrFail(t, e, "van Berg"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEncodeExactFusesCompounds(t *testing.T) {
	e := New(language.Generic, rules.Exact)
	if got, want := encodeOrFail(t, e, "van Berg"), encodeOrFail(t, e, "vanBerg"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	// Internal spaces are invisible under the Exact path.
	if got, want := encodeOrFail(t, e, "Mark Smith"), encodeOrFail(t, e, "MarkSmith"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEncodeApostrophePolicy(t *testing.T) {
	generic := New(language.Generic, rules.Approx)
	if got, want := encodeOrFail(t, generic, "O'Brien"), encodeOrFail(t, generic, "OBrien"); got != want {
		t.Errorf("Generic: got %q, want %q", got, want)
	}

	ashkenazic := New(language.Ashkenazic, rules.Approx)
	if got, want := encodeOrFail(t, ashkenazic, "O'Brien"), encodeOrFail(t, ashkenazic, "OBrien"); got != want {
		t.Errorf("Ashkenazic: got %q, want %q", got, want)
	}
}

func TestSephardicKeepsApostropheAsBoundary(t *testing.T) {
	// Sephardic does not fold the apostrophe away, so "D'Costa" splits
	// into two tokens and is not required to equal "DCosta".
	e := New(language.Sephardic, rules.Approx)
	split := encodeOrFail(t, e, "D'Costa")
	fused := encodeOrFail(t, e, "DCosta")
	if split == "" || fused == "" {
		t.Fatalf("expected non-empty encodings, got %q and %q", split, fused)
	}
	if !strings.Contains(split, "-") {
		t.Errorf("expected a merged compound encoding, got %q", split)
	}
}

func TestEncodeToArrayExpands(t *testing.T) {
	e := New(language.Generic, rules.Approx)
	alts, err := e.EncodeToArray("Smith")
	if err != nil {
		t.Fatalf("EncodeToArray returned error: %v", err)
	}
	if len(alts) != 2 || alts[0] != "smit" || alts[1] != "zmit" {
		t.Errorf("got %v, want [smit zmit]", alts)
	}
}

func TestEncodeWithLanguage(t *testing.T) {
	e := New(language.Generic, rules.Approx)
	got, err := e.EncodeWithLanguage("Smith", language.Value(language.Generic, language.English))
	if err != nil {
		t.Fatalf("EncodeWithLanguage returned error: %v", err)
	}
	if got != "(smit|zmit)" {
		t.Errorf("got %q, want (smit|zmit)", got)
	}
}

func TestDetectSchwarzeneggerIsGerman(t *testing.T) {
	mask, err := Detect("Schwarzenegger", language.Generic)
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}
	if mask != language.Value(language.Generic, language.German) {
		t.Errorf("got %d, want german (%d)", mask, language.Value(language.Generic, language.German))
	}
}

func TestDetectUnmarkedNameKeepsUniverse(t *testing.T) {
	mask, err := Detect("Muller", language.Generic)
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}
	if mask != language.Universe(language.Generic) {
		t.Errorf("got %d, want universe %d", mask, language.Universe(language.Generic))
	}
}

func TestDetectEmptyInputFails(t *testing.T) {
	if _, err := Detect("   ", language.Generic); !errors.Is(err, conversion.ErrEmptyInput) {
		t.Errorf("got %v, want ErrEmptyInput", err)
	}
}

// TestEncodeIncompatibleAttributesYieldEmpty builds a minimal rule set
// where the only phonetic branch carries an attribute disjoint with the
// detected language, and verifies the encoder reports "" rather than a
// mis-encoding.
func TestEncodeIncompatibleAttributesYieldEmpty(t *testing.T) {
	fsys := fstest.MapFS{
		"Generic/rules_any.json": {Data: []byte(
			`{"rules":[{"pattern":"a","phonetic":"x[2]"}]}`)},
		"Generic/approx_common.json": {Data: []byte(`{"rules":[]}`)},
		"Generic/exact_common.json":  {Data: []byte(`{"rules":[]}`)},
		"Generic/language_rules.json": {Data: []byte(
			`{"rules":[{"pattern":"/a/","languages":4,"accept":true}]}`)},
	}
	e := NewWithStore(language.Generic, rules.Approx, rules.NewStoreFS(fsys))
	got, err := e.Encode("a")
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestPrefixesAreSorted(t *testing.T) {
	for _, nt := range []language.NameType{language.Generic, language.Ashkenazic, language.Sephardic} {
		ps := Prefixes(nt)
		if len(ps) == 0 {
			t.Fatalf("%v: no prefixes", nt)
		}
		for i := 1; i < len(ps); i++ {
			if ps[i-1] >= ps[i] {
				t.Errorf("%v: prefixes not sorted at %d: %v", nt, i, ps)
			}
		}
	}
}

func TestPackageLevelHelpers(t *testing.T) {
	got, err := Encode("Smith", language.Generic, rules.Approx)
	if err != nil || got != "(smit|zmit)" {
		t.Errorf("Encode helper: got %q, %v", got, err)
	}
	alts, err := EncodeToArray("Smith", language.Generic, rules.Approx)
	if err != nil || len(alts) != 2 {
		t.Errorf("EncodeToArray helper: got %v, %v", alts, err)
	}
}
