package rules

import (
	"testing"

	"github.com/harrison/promptcheck/internal/models"
)

func TestEmptyPlaceholder(t *testing.T) {
	doc := parseDoc(t, "Hello {{ }}", "greet.prompt.md")

	findings := checkPlaceholders(doc)
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want exactly 1: %+v", len(findings), findings)
	}

	f := findings[0]
	if f.Code != CodePlaceholderEmpty {
		t.Errorf("code = %q, want %q", f.Code, CodePlaceholderEmpty)
	}
	if f.Severity != models.SeverityError {
		t.Errorf("severity = %v, want error", f.Severity)
	}
	if f.Range.Start.Line != 0 {
		t.Errorf("line = %d, want 0", f.Range.Start.Line)
	}
	if f.Range.Start.Column != 6 || f.Range.End.Column != 11 {
		t.Errorf("span = %d..%d, want 6..11", f.Range.Start.Column, f.Range.End.Column)
	}
}

func TestRuntimeAllowlistIsSilent(t *testing.T) {
	doc := parseDoc(t, "Answer {{input}} using {{context}} and {{current_date}}.", "a.prompt.md")

	if findings := checkPlaceholders(doc); len(findings) != 0 {
		t.Errorf("allow-listed placeholders flagged: %+v", findings)
	}
}

func TestUndeclaredPlaceholder(t *testing.T) {
	doc := parseDoc(t, "Use {{customer_tier}} here.", "a.prompt.md")

	findings := checkPlaceholders(doc)
	if len(findings) != 1 || findings[0].Code != CodePlaceholderUndefined {
		t.Fatalf("got %+v, want one placeholder-undefined", findings)
	}
	if findings[0].Severity != models.SeverityWarning {
		t.Errorf("severity = %v, want warning", findings[0].Severity)
	}
}

func TestDeclaredPlaceholderViaHeader(t *testing.T) {
	text := "---\ndescription: d\nvariables:\n  - customer_tier\n---\nUse {{customer_tier}} here."
	doc := parseDoc(t, text, "a.prompt.md")

	if findings := checkPlaceholders(doc); len(findings) != 0 {
		t.Errorf("header-declared placeholder flagged: %+v", findings)
	}
}

func TestDeclaredPlaceholderViaTopLevelKey(t *testing.T) {
	text := "---\ntopic: default\n---\nWrite about {{topic}}."
	doc := parseDoc(t, text, "a.prompt.md")

	if findings := checkPlaceholders(doc); len(findings) != 0 {
		t.Errorf("top-level key declaration flagged: %+v", findings)
	}
}

func TestRepeatedPlaceholderFlaggedPerOccurrence(t *testing.T) {
	doc := parseDoc(t, "{{mystery}} and again\n{{mystery}} below", "a.prompt.md")

	findings := checkPlaceholders(doc)
	if len(findings) != 2 {
		t.Errorf("got %d findings, want one per occurrence", len(findings))
	}
}
