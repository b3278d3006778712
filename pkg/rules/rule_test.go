package rules

import "testing"

func TestCompileRejectsEmptyPattern(t *testing.T) {
	if _, err := Compile(Spec{Phonetic: "x"}); err == nil {
		t.Fatal("expected error for empty pattern")
	}
}

func TestCompileRejectsBadContext(t *testing.T) {
	if _, err := Compile(Spec{Pattern: "a", LeftContext: "("}); err == nil {
		t.Fatal("expected error for unparseable left context")
	}
	if _, err := Compile(Spec{Pattern: "a", RightContext: "["}); err == nil {
		t.Fatal("expected error for unparseable right context")
	}
}

func TestMatchesAt(t *testing.T) {
	r, err := Compile(Spec{Pattern: "sch", Phonetic: "S"})
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	if !r.MatchesAt("schmidt", 0) {
		t.Error("pattern should match at 0")
	}
	if r.MatchesAt("schmidt", 1) {
		t.Error("pattern should not match at 1")
	}
	if r.MatchesAt("sc", 0) {
		t.Error("pattern longer than remaining input should not match")
	}
}

func TestContextAnchoring(t *testing.T) {
	r, err := Compile(Spec{Pattern: "c", Phonetic: "s", LeftContext: "s", RightContext: "[eiy]"})
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}

	// "sce": left context "s" must end the prefix, right context "[eiy]"
	// must start the suffix.
	if !r.MatchesLeft("sce", 1) || !r.MatchesRight("sce", 1) {
		t.Error("contexts should hold in 'sce' at 1")
	}
	// "ace": wrong left neighbor.
	if r.MatchesLeft("ace", 1) {
		t.Error("left context should fail in 'ace' at 1")
	}
	// "sco": wrong right neighbor.
	if r.MatchesRight("sco", 1) {
		t.Error("right context should fail in 'sco' at 1")
	}
}

func TestEmptyContextsAlwaysMatch(t *testing.T) {
	r, err := Compile(Spec{Pattern: "a", Phonetic: "a"})
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	if !r.MatchesLeft("xa", 1) || !r.MatchesRight("ax", 0) {
		t.Error("empty contexts must always match")
	}
}

func TestAppliesTo(t *testing.T) {
	unrestricted, _ := Compile(Spec{Pattern: "a", Phonetic: "a"})
	if !unrestricted.AppliesTo(0) || !unrestricted.AppliesTo(12) {
		t.Error("rule without mask must apply to every context")
	}

	anyOf, _ := Compile(Spec{Pattern: "a", Phonetic: "a", LanguageMask: 6})
	if !anyOf.AppliesTo(2) || !anyOf.AppliesTo(4) || anyOf.AppliesTo(8) {
		t.Error("ANY semantics broken")
	}

	allOf, _ := Compile(Spec{Pattern: "a", Phonetic: "a", LanguageMask: 6, LogicalOp: "ALL"})
	if allOf.AppliesTo(2) || !allOf.AppliesTo(6) || !allOf.AppliesTo(7) {
		t.Error("ALL semantics broken")
	}
}

func TestCompileTableReportsRuleIndex(t *testing.T) {
	_, err := CompileTable("broken", []Spec{
		{Pattern: "a", Phonetic: "a"},
		{Pattern: "b", Phonetic: "b", LeftContext: "("},
	})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestTableEmpty(t *testing.T) {
	var nilTable *Table
	if !nilTable.Empty() {
		t.Error("nil table should be empty")
	}
	if (&Table{Name: "x"}).Empty() != true {
		t.Error("rule-less table should be empty")
	}
	tbl, _ := CompileTable("x", []Spec{{Pattern: "a", Phonetic: "a"}})
	if tbl.Empty() {
		t.Error("populated table should not be empty")
	}
}
