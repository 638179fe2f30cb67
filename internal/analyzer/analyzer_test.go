package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/harrison/promptcheck/internal/cache"
	"github.com/harrison/promptcheck/internal/models"
)

// memProbe fakes the workspace filesystem.
type memProbe struct {
	files map[string]string
	reads int
}

func (p *memProbe) Exists(path string) bool {
	_, ok := p.files[path]
	return ok
}

func (p *memProbe) ReadText(path string) (string, error) {
	p.reads++
	text, ok := p.files[path]
	if !ok {
		return "", errors.New("no such file")
	}
	return text, nil
}

func codeSet(findings []models.Finding) map[string]bool {
	codes := make(map[string]bool)
	for _, f := range findings {
		codes[f.Code] = true
	}
	return codes
}

func TestQuickCodesAreSubsetOfFull(t *testing.T) {
	a := New(Options{Probe: &memProbe{files: map[string]string{}}})
	text := "Try to be concise.\nUse {{ }} and see [x](helper.prompt.md)."

	quick := codeSet(a.AnalyzeQuick(text, "/ws/doc.prompt.md", "/ws"))
	full := codeSet(a.Analyze(context.Background(), text, "/ws/doc.prompt.md", "/ws"))

	for code := range quick {
		if !full[code] {
			t.Errorf("quick finding %q missing from the full run", code)
		}
	}
}

func TestUnresolvedVersusMissingFile(t *testing.T) {
	a := New(Options{Probe: &memProbe{files: map[string]string{}}})
	text := "See [helper](helper.prompt.md) for the long-form instructions on tone and style."

	// Without a workspace root the bare identifier gives the link nowhere to
	// resolve.
	noRoot := codeSet(a.Analyze(context.Background(), text, "doc.prompt.md", ""))
	if !noRoot["link-unresolved"] {
		t.Error("rootless link should report link-unresolved")
	}
	if noRoot["link-missing-file"] {
		t.Error("rootless link must not report link-missing-file")
	}

	// With a root the link resolves but the probe has no such file.
	withRoot := codeSet(a.Analyze(context.Background(), text, "/ws/doc.prompt.md", "/ws"))
	if !withRoot["link-missing-file"] {
		t.Error("resolved-but-absent link should report link-missing-file")
	}
	if withRoot["link-unresolved"] {
		t.Error("resolved link must not report link-unresolved")
	}
}

func TestAnalyzeUsesCache(t *testing.T) {
	store := cache.New(0, 0)
	a := New(Options{Probe: &memProbe{files: map[string]string{}}, Cache: store})
	text := "Try to keep answers short and direct at all times, please."

	first := a.Analyze(context.Background(), text, "doc.prompt.md", "")
	if store.Len() != 1 {
		t.Fatalf("cache holds %d entries after a run, want 1", store.Len())
	}

	second := a.Analyze(context.Background(), text, "doc.prompt.md", "")
	if len(first) != len(second) {
		t.Errorf("cached run returned %d findings, first returned %d", len(second), len(first))
	}
}

func TestInvalidateCache(t *testing.T) {
	store := cache.New(0, 0)
	a := New(Options{Probe: &memProbe{files: map[string]string{}}, Cache: store})

	a.Analyze(context.Background(), "Some document text to analyze here.", "doc.prompt.md", "")
	if store.Len() == 0 {
		t.Fatal("expected a cached entry")
	}

	a.InvalidateCache()
	if store.Len() != 0 {
		t.Errorf("cache holds %d entries after invalidation", store.Len())
	}
}

func TestLinkedContentParticipatesInHash(t *testing.T) {
	probe := &memProbe{files: map[string]string{"/ws/helper.prompt.md": "original helper text"}}
	store := cache.New(0, 0)
	a := New(Options{Probe: probe, Cache: store})
	text := "Main document body with enough text.\nSee [helper](helper.prompt.md)."

	a.Analyze(context.Background(), text, "/ws/doc.prompt.md", "/ws")
	if store.Len() != 1 {
		t.Fatalf("cache holds %d entries, want 1", store.Len())
	}

	// Editing the linked document must produce a different digest.
	probe.files["/ws/helper.prompt.md"] = "edited helper text"
	a.Analyze(context.Background(), text, "/ws/doc.prompt.md", "/ws")
	if store.Len() != 2 {
		t.Errorf("cache holds %d entries, want 2 distinct digests", store.Len())
	}
}

func TestSemanticFindingsIncluded(t *testing.T) {
	complete := func(ctx context.Context, prompt, system string) (string, error) {
		return `{"cognitive_load": {"score": 2, "rationale": "simple"}}`, nil
	}
	a := New(Options{
		Complete: complete,
		Probe:    &memProbe{files: map[string]string{}},
	})
	text := "# Role\nYou review pull requests and always explain each comment you leave in full sentences.\n"

	full := codeSet(a.Analyze(context.Background(), text, "doc.prompt.md", ""))
	if !full["cognitive-load"] {
		t.Error("semantic findings missing from the full run")
	}
}
