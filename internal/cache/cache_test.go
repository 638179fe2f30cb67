package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/harrison/promptcheck/internal/models"
)

func TestHashDeterministic(t *testing.T) {
	a := Hash("system prompt body")
	b := Hash("system prompt body")
	if a != b {
		t.Error("same text must hash to the same digest")
	}
	if len(a) != 64 {
		t.Errorf("digest length = %d, want 64 hex chars", len(a))
	}
	if Hash("other body") == a {
		t.Error("different texts must not collide in tests this small")
	}
}

func findings(code string) []models.Finding {
	return []models.Finding{{
		Code:     code,
		Message:  "m",
		Severity: models.SeverityWarning,
		Range:    models.WholeLine(0, 10),
		Source:   "static",
	}}
}

func TestGetSetRoundTrip(t *testing.T) {
	c := New(time.Minute, 8)

	digest := Hash("doc")
	c.Set(digest, findings("weak-instruction"), 0)

	got, ok := c.Get(digest)
	if !ok {
		t.Fatal("expected a hit")
	}
	if len(got) != 1 || got[0].Code != "weak-instruction" {
		t.Errorf("got %+v", got)
	}

	if _, ok := c.Get(Hash("never stored")); ok {
		t.Error("unknown digest must miss")
	}
}

func TestGetReturnsCopy(t *testing.T) {
	c := New(time.Minute, 8)
	digest := Hash("doc")
	c.Set(digest, findings("x"), 0)

	got, _ := c.Get(digest)
	got[0].Code = "mutated"

	again, _ := c.Get(digest)
	if again[0].Code != "x" {
		t.Error("a caller mutating a result must not corrupt the stored entry")
	}
}

func TestExpiry(t *testing.T) {
	c := New(time.Minute, 8)
	clock := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	digest := Hash("doc")
	c.Set(digest, findings("x"), 10*time.Second)

	clock = clock.Add(9 * time.Second)
	if _, ok := c.Get(digest); !ok {
		t.Error("entry inside its TTL must hit")
	}

	clock = clock.Add(2 * time.Second)
	if _, ok := c.Get(digest); ok {
		t.Error("entry past its TTL must miss")
	}
	if c.Len() != 0 {
		t.Error("expired read must evict eagerly")
	}
}

func TestCapacityEvictsOldestInserted(t *testing.T) {
	c := New(time.Minute, 3)

	for i := 0; i < 3; i++ {
		c.Set(Hash(fmt.Sprintf("doc-%d", i)), findings("x"), 0)
	}
	c.Set(Hash("doc-3"), findings("x"), 0)

	if _, ok := c.Get(Hash("doc-0")); ok {
		t.Error("oldest-inserted entry should have been evicted")
	}
	for i := 1; i <= 3; i++ {
		if _, ok := c.Get(Hash(fmt.Sprintf("doc-%d", i))); !ok {
			t.Errorf("doc-%d should survive eviction", i)
		}
	}
}

func TestSetReinsertionMovesToBack(t *testing.T) {
	c := New(time.Minute, 2)

	c.Set(Hash("a"), findings("x"), 0)
	c.Set(Hash("b"), findings("x"), 0)
	c.Set(Hash("a"), findings("y"), 0) // refresh a
	c.Set(Hash("c"), findings("x"), 0) // should evict b, not a

	if _, ok := c.Get(Hash("b")); ok {
		t.Error("b was the oldest after a's refresh and should be gone")
	}
	if got, ok := c.Get(Hash("a")); !ok || got[0].Code != "y" {
		t.Errorf("a should survive with refreshed findings, got %+v ok=%v", got, ok)
	}
}

func TestClear(t *testing.T) {
	c := New(time.Minute, 8)
	c.Set(Hash("a"), findings("x"), 0)
	c.Set(Hash("b"), findings("x"), 0)

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len after Clear = %d", c.Len())
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	src := New(time.Minute, 8)
	src.Set(Hash("a"), findings("weak-instruction"), 0)
	src.Set(Hash("b"), findings("placeholder-empty"), 0)

	data, err := src.Export()
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	dst := New(time.Minute, 8)
	if n := dst.Import(data); n != 2 {
		t.Fatalf("Import = %d, want 2", n)
	}
	got, ok := dst.Get(Hash("b"))
	if !ok || got[0].Code != "placeholder-empty" {
		t.Errorf("imported entry = %+v ok=%v", got, ok)
	}
}

func TestExportImportSubSecondTTL(t *testing.T) {
	src := New(time.Minute, 8)
	src.Set(Hash("a"), findings("weak-instruction"), 500*time.Millisecond)

	data, err := src.Export()
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	dst := New(time.Minute, 8)
	if n := dst.Import(data); n != 1 {
		t.Fatalf("sub-second TTL lost in the round trip: imported %d, want 1", n)
	}
	if _, ok := dst.Get(Hash("a")); !ok {
		t.Error("imported entry should hit while its TTL is live")
	}
}

func TestImportNeverFails(t *testing.T) {
	c := New(time.Minute, 8)

	if n := c.Import([]byte("not json at all")); n != 0 {
		t.Errorf("garbage import = %d, want 0", n)
	}
	if n := c.Import([]byte(`{"wrong": "shape"}`)); n != 0 {
		t.Errorf("wrong-shape import = %d, want 0", n)
	}
	if n := c.Import(nil); n != 0 {
		t.Errorf("nil import = %d, want 0", n)
	}
}

func TestImportDiscardsExpired(t *testing.T) {
	src := New(time.Minute, 8)
	past := time.Now().Add(-time.Hour)
	src.now = func() time.Time { return past }
	src.Set(Hash("old"), findings("x"), 30*time.Second)

	data, err := src.Export()
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	dst := New(time.Minute, 8)
	if n := dst.Import(data); n != 0 {
		t.Errorf("expired entries imported = %d, want 0", n)
	}
}
