// Package rules models the rewrite rules driving the phonetic engines:
// immutable rule records with precompiled context patterns, ordered
// rule tables, and a memoizing store that loads tables from JSON data
// (embedded by default, or any fs.FS with the same layout).
package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/onomastics/bmpm/pkg/language"
)

// Spec is the JSON-facing form of a single rewrite rule.
type Spec struct {
	// Pattern is the literal input sequence the rule consumes.
	Pattern string `json:"pattern"`

	// Phonetic is the phonetic-algebra string emitted when the rule
	// fires. It may contain "(a|b)" alternatives and "[N]" language
	// attributes.
	Phonetic string `json:"phonetic"`

	// LeftContext and RightContext are regular expressions constraining
	// the neighborhood of the match. Empty means unconstrained.
	LeftContext  string `json:"leftContext"`
	RightContext string `json:"rightContext"`

	// LanguageMask restricts the rule to contexts whose detected mask
	// overlaps (ANY) or covers (ALL) it. Zero means unrestricted.
	LanguageMask uint64 `json:"languageMask"`

	// LogicalOp is "ANY" (default) or "ALL".
	LogicalOp string `json:"logicalOp"`
}

// Rule is a compiled, immutable rewrite rule. Rules are shared across
// concurrent encodes; all fields are read-only after Compile.
type Rule struct {
	Pattern      string
	Phonetic     string
	LanguageMask language.Mask
	MatchAll     bool

	left  *regexp.Regexp
	right *regexp.Regexp
}

// Compile validates a Spec and precompiles its context patterns. The
// left context is anchored at its end, the right context at its start,
// so they constrain the characters adjacent to the pattern.
func Compile(s Spec) (*Rule, error) {
	if s.Pattern == "" {
		return nil, fmt.Errorf("rule with empty pattern")
	}
	r := &Rule{
		Pattern:      s.Pattern,
		Phonetic:     s.Phonetic,
		LanguageMask: language.Mask(s.LanguageMask),
	}
	switch strings.ToUpper(s.LogicalOp) {
	case "", "ANY":
	case "ALL":
		r.MatchAll = true
	default:
		return nil, fmt.Errorf("rule %q: unknown logicalOp %q", s.Pattern, s.LogicalOp)
	}
	var err error
	if s.LeftContext != "" {
		r.left, err = regexp.Compile("(?:" + s.LeftContext + ")$")
		if err != nil {
			return nil, fmt.Errorf("rule %q: left context: %w", s.Pattern, err)
		}
	}
	if s.RightContext != "" {
		r.right, err = regexp.Compile("^(?:" + s.RightContext + ")")
		if err != nil {
			return nil, fmt.Errorf("rule %q: right context: %w", s.Pattern, err)
		}
	}
	return r, nil
}

// MatchesAt reports whether the rule's pattern occurs byte-exactly in s
// at position i.
func (r *Rule) MatchesAt(s string, i int) bool {
	return len(s)-i >= len(r.Pattern) && s[i:i+len(r.Pattern)] == r.Pattern
}

// MatchesLeft reports whether the left context accepts the prefix
// ending at i.
func (r *Rule) MatchesLeft(s string, i int) bool {
	return r.left == nil || r.left.MatchString(s[:i])
}

// MatchesRight reports whether the right context accepts the suffix
// starting after the pattern matched at i.
func (r *Rule) MatchesRight(s string, i int) bool {
	return r.right == nil || r.right.MatchString(s[i+len(r.Pattern):])
}

// AppliesTo reports whether the rule may fire under the given context
// mask.
func (r *Rule) AppliesTo(mask language.Mask) bool {
	if r.LanguageMask == 0 {
		return true
	}
	if r.MatchAll {
		return mask&r.LanguageMask == r.LanguageMask
	}
	return mask&r.LanguageMask != 0
}

// Table is an ordered rule sequence. Order is significant: the engine
// fires the first rule whose predicates hold, so tables are authored
// with longer or more specific patterns ahead of their subsumers.
type Table struct {
	Name  string
	Rules []*Rule
}

// Empty reports whether the table holds no rules. An empty table makes
// a rewrite pass a no-op.
func (t *Table) Empty() bool {
	return t == nil || len(t.Rules) == 0
}

// CompileTable compiles all specs into a named table, failing on the
// first bad rule so data errors surface at load time rather than during
// an encode.
func CompileTable(name string, specs []Spec) (*Table, error) {
	t := &Table{Name: name, Rules: make([]*Rule, 0, len(specs))}
	for i, s := range specs {
		r, err := Compile(s)
		if err != nil {
			return nil, fmt.Errorf("table %s, rule %d: %w", name, i, err)
		}
		t.Rules = append(t.Rules, r)
	}
	return t, nil
}
