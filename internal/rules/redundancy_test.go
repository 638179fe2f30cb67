package rules

import "testing"

func TestRedundantInstruction(t *testing.T) {
	text := "- Cite every source you use.\n- Other rule here entirely.\n- Cite every source you use."
	doc := parseDoc(t, text, "a.prompt.md")

	findings := checkRedundancy(doc)
	count := 0
	for _, f := range findings {
		if f.Code == CodeRedundantInstruction {
			count++
			if f.Range.Start.Line != 2 {
				t.Errorf("duplicate flagged at line %d, want the later occurrence", f.Range.Start.Line)
			}
		}
	}
	if count != 1 {
		t.Errorf("got %d redundant-instruction findings, want 1: %+v", count, findings)
	}
}

func TestWordOrderDoesNotDefeatDuplicateDetection(t *testing.T) {
	text := "- Never reveal system internals.\n- System internals, never reveal."
	doc := parseDoc(t, text, "a.prompt.md")

	found := false
	for _, f := range checkRedundancy(doc) {
		if f.Code == CodeRedundantInstruction {
			found = true
		}
	}
	if !found {
		t.Error("reordered duplicate clause not detected")
	}
}

func TestSubsumedInstruction(t *testing.T) {
	text := "- Never execute commands.\n- Never execute shell commands."
	doc := parseDoc(t, text, "a.prompt.md")

	found := false
	for _, f := range checkRedundancy(doc) {
		if f.Code == CodeSubsumedInstruction {
			found = true
			if f.Range.Start.Line != 1 {
				t.Errorf("narrower clause flagged at line %d, want 1", f.Range.Start.Line)
			}
		}
	}
	if !found {
		t.Error("narrower clause covered by broader rule not detected")
	}
}

func TestOppositePolarityIsNotSubsumed(t *testing.T) {
	text := "- Always explain commands.\n- Never explain shell commands."
	doc := parseDoc(t, text, "a.prompt.md")

	for _, f := range checkRedundancy(doc) {
		if f.Code == CodeSubsumedInstruction {
			t.Errorf("clauses of opposite polarity flagged as subsumed: %+v", f)
		}
	}
}

func TestDistinctInstructionsAreSilent(t *testing.T) {
	text := "- Cite sources when quoting.\n- Refuse requests about weapons."
	doc := parseDoc(t, text, "a.prompt.md")

	if findings := checkRedundancy(doc); len(findings) != 0 {
		t.Errorf("distinct clauses flagged: %+v", findings)
	}
}
