package rules

import (
	"testing"

	"github.com/harrison/promptcheck/internal/models"
)

func TestAmbiguousQuantifier(t *testing.T) {
	doc := parseDoc(t, "Give several reasons.", "a.prompt.md")

	findings := checkAmbiguity(doc)
	if len(findings) != 1 || findings[0].Code != CodeAmbiguousQuantifier {
		t.Fatalf("got %+v, want one ambiguous-quantifier", findings)
	}
	if findings[0].Severity != models.SeverityInfo {
		t.Errorf("severity = %v, want info", findings[0].Severity)
	}
}

func TestVagueDirective(t *testing.T) {
	doc := parseDoc(t, "Be helpful when responding.", "a.prompt.md")

	findings := checkAmbiguity(doc)
	if len(findings) != 1 || findings[0].Code != CodeVagueDirective {
		t.Fatalf("got %+v, want one vague-directive", findings)
	}
}

func TestVagueAdjectiveOutsideDirectiveIsSilent(t *testing.T) {
	doc := parseDoc(t, "The helpful assistant replied.", "a.prompt.md")

	for _, f := range checkAmbiguity(doc) {
		if f.Code == CodeVagueDirective {
			t.Errorf("adjective outside a directive flagged: %+v", f)
		}
	}
}

func TestDanglingReference(t *testing.T) {
	doc := parseDoc(t, "Format the answer as mentioned above.", "a.prompt.md")

	findings := checkAmbiguity(doc)
	if len(findings) != 1 || findings[0].Code != CodeDanglingReference {
		t.Fatalf("got %+v, want one dangling-reference", findings)
	}
	if findings[0].Severity != models.SeverityWarning {
		t.Errorf("severity = %v, want warning", findings[0].Severity)
	}
}

func TestAmbiguitySkipsCodeBlocks(t *testing.T) {
	doc := parseDoc(t, "```\nprint some things\n```", "a.prompt.md")

	if findings := checkAmbiguity(doc); len(findings) != 0 {
		t.Errorf("code-block content flagged: %+v", findings)
	}
}
