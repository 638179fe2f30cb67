package semantic

import (
	"context"
	"errors"
	"testing"
)

func TestGatherAcceptsPartialFailure(t *testing.T) {
	tasks := []task{
		{name: "ok", run: func(ctx context.Context) (string, error) { return "fine", nil }},
		{name: "bad", run: func(ctx context.Context) (string, error) { return "", errors.New("boom") }},
	}

	results := gather(context.Background(), tasks)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	byName := make(map[string]taskResult)
	for _, r := range results {
		byName[r.name] = r
	}

	if !byName["ok"].ok() || byName["ok"].response != "fine" {
		t.Errorf("ok task = %+v", byName["ok"])
	}
	if byName["bad"].ok() {
		t.Error("failing task reported success")
	}
}

func TestGatherEmpty(t *testing.T) {
	if results := gather(context.Background(), nil); len(results) != 0 {
		t.Errorf("got %d results for no tasks", len(results))
	}
}
