package semantic

import (
	"testing"

	"github.com/harrison/promptcheck/internal/parser"
)

func TestLocateLineExactMatch(t *testing.T) {
	doc := parser.New().Parse("# Role\nAlways answer in French.\nNever use slang.", "a.prompt.md")

	if got := locateLine(doc, "Never use slang."); got != 2 {
		t.Errorf("locateLine = %d, want 2", got)
	}
	if got := locateLine(doc, "always ANSWER in french"); got != 1 {
		t.Errorf("case-insensitive locate = %d, want 1", got)
	}
}

func TestLocateLineWordOverlap(t *testing.T) {
	doc := parser.New().Parse("# Role\nAlways answer the user in formal French.\nKeep replies short.", "a.prompt.md")

	// Paraphrased excerpt: enough shared words to land on line 1.
	if got := locateLine(doc, "answer in formal French always"); got != 1 {
		t.Errorf("overlap locate = %d, want 1", got)
	}
}

func TestLocateLineFallsBackToZero(t *testing.T) {
	doc := parser.New().Parse("# Role\nAlways answer in French.", "a.prompt.md")

	if got := locateLine(doc, "completely unrelated provider hallucination text"); got != 0 {
		t.Errorf("unmatched excerpt located at %d, want 0", got)
	}
	if got := locateLine(doc, ""); got != 0 {
		t.Errorf("empty excerpt located at %d, want 0", got)
	}
}
