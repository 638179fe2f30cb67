package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("content"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFindDocuments(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "AGENTS.md"))
	writeFile(t, filepath.Join(dir, "prompts", "summarize.prompt.md"))
	writeFile(t, filepath.Join(dir, "notes.txt"))
	writeFile(t, filepath.Join(dir, "node_modules", "dep", "README.md"))
	writeFile(t, filepath.Join(dir, ".git", "COMMIT_EDITMSG.md"))

	files, err := FindDocuments(dir)
	if err != nil {
		t.Fatal(err)
	}

	if len(files) != 2 {
		t.Fatalf("got %d files, want 2: %v", len(files), files)
	}
	if filepath.Base(files[0]) != "AGENTS.md" || filepath.Base(files[1]) != "summarize.prompt.md" {
		t.Errorf("files = %v", files)
	}
}

func TestFindDocumentsOnFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.md")
	writeFile(t, path)

	if _, err := FindDocuments(path); err == nil {
		t.Error("a plain file is not a directory")
	}
}

func TestFindDocumentsMissingDir(t *testing.T) {
	if _, err := FindDocuments(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("missing directory must error")
	}
}

func TestOSProbe(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.prompt.md")
	writeFile(t, path)

	probe := OSProbe{}
	if !probe.Exists(path) {
		t.Error("existing file not detected")
	}
	if probe.Exists(filepath.Join(dir, "nope.md")) {
		t.Error("missing file detected")
	}
	if probe.Exists(dir) {
		t.Error("a directory is not a regular file")
	}

	text, err := probe.ReadText(path)
	if err != nil || text != "content" {
		t.Errorf("ReadText = %q, %v", text, err)
	}
	if _, err := probe.ReadText(filepath.Join(dir, "nope.md")); err == nil {
		t.Error("reading a missing file must error")
	}
}
