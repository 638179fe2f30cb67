package rules

import (
	"testing"

	"github.com/harrison/promptcheck/internal/models"
	"github.com/harrison/promptcheck/internal/parser"
)

func parseDoc(t *testing.T, text, identifier string) *parser.Document {
	t.Helper()
	return parser.New().Parse(text, identifier)
}

func codesOf(findings []models.Finding) map[string]int {
	codes := make(map[string]int)
	for _, f := range findings {
		codes[f.Code]++
	}
	return codes
}

func TestQuickProfileExcludesExpensiveRules(t *testing.T) {
	e := NewEngine(Options{})

	quick := e.RuleNames(ProfileQuick)
	for _, name := range quick {
		if name == "token-budget" || name == "link-reachability" {
			t.Errorf("rule %q must not run under the quick profile", name)
		}
	}

	full := e.RuleNames(ProfileFull)
	if len(full) != len(quick)+2 {
		t.Errorf("full profile has %d rules, quick has %d; want exactly 2 more", len(full), len(quick))
	}
}

func TestQuickFindingsAreSubsetOfFull(t *testing.T) {
	e := NewEngine(Options{})
	doc := parseDoc(t, "Try to be concise.\nUse {{ }} here.\nSee [x](missing.prompt.md)", "a.prompt.md")

	quick := codesOf(e.Run(doc, ProfileQuick))
	full := codesOf(e.Run(doc, ProfileFull))

	for code, n := range quick {
		if full[code] < n {
			t.Errorf("quick produced %d %q findings but full produced %d", n, code, full[code])
		}
	}
}

func TestRunOnEmptyDocument(t *testing.T) {
	e := NewEngine(Options{})
	doc := parseDoc(t, "", "a.prompt.md")

	for _, f := range e.Run(doc, ProfileFull) {
		// An empty prompt document legitimately lacks metadata; nothing else
		// should fire.
		if f.Code != CodeMetadataMissing {
			t.Errorf("unexpected finding on empty document: %+v", f)
		}
	}
}
