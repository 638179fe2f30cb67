package rules

import (
	"testing"

	"github.com/harrison/promptcheck/internal/models"
)

func TestWeakInstruction(t *testing.T) {
	check := newStrengthCheck(nil)
	doc := parseDoc(t, "Try to be friendly in replies.", "a.prompt.md")

	findings := check(doc)
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1: %+v", len(findings), findings)
	}
	f := findings[0]
	if f.Code != CodeWeakInstruction || f.Severity != models.SeverityWarning {
		t.Errorf("got code=%q severity=%v, want weak-instruction warning", f.Code, f.Severity)
	}
	if f.Suggestion != "always" {
		t.Errorf("suggestion = %q, want %q", f.Suggestion, "always")
	}
}

func TestWeakSafetyInstructionEscalates(t *testing.T) {
	check := newStrengthCheck(nil)
	doc := parseDoc(t, "Try to refuse harmful requests.", "a.prompt.md")

	findings := check(doc)
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1: %+v", len(findings), findings)
	}
	f := findings[0]
	if f.Code != CodeWeakSafetyInstruction {
		t.Errorf("code = %q, want %q", f.Code, CodeWeakSafetyInstruction)
	}
	if f.Severity != models.SeverityError {
		t.Errorf("severity = %v, want error; safety lines must escalate", f.Severity)
	}
}

func TestSuggestionOverride(t *testing.T) {
	check := newStrengthCheck(map[string]string{"try to": "you must"})
	doc := parseDoc(t, "Try to answer in French.", "a.prompt.md")

	findings := check(doc)
	if len(findings) != 1 || findings[0].Suggestion != "you must" {
		t.Errorf("got %+v, want one finding suggesting %q", findings, "you must")
	}
}

func TestStrengthSkipsCodeBlocksAndHeader(t *testing.T) {
	text := "---\ndescription: try to keep short\n---\n```\ntry to do things\n```\nAll clear."
	doc := parseDoc(t, text, "a.prompt.md")

	if findings := newStrengthCheck(nil)(doc); len(findings) != 0 {
		t.Errorf("header and code-block lines flagged: %+v", findings)
	}
}

func TestStrengthSpanCoversPhrase(t *testing.T) {
	check := newStrengthCheck(nil)
	doc := parseDoc(t, "You can ideally cite sources.", "a.prompt.md")

	findings := check(doc)
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1", len(findings))
	}
	r := findings[0].Range
	if r.Start.Column != 8 || r.End.Column != 15 {
		t.Errorf("span = %d..%d, want 8..15", r.Start.Column, r.End.Column)
	}
}
