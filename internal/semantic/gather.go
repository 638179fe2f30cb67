package semantic

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// task is one outstanding provider request.
type task struct {
	name string
	run  func(ctx context.Context) (string, error)
}

// taskResult tags a task's outcome with success or failure so callers (and
// tests) can inspect which sub-analyses contributed.
type taskResult struct {
	name     string
	response string
	err      error
}

func (r taskResult) ok() bool {
	return r.err == nil
}

// gather runs all tasks concurrently and waits for every one of them,
// accepting whichever succeed. A failing task never blocks or cancels the
// others; its error is recorded in its result instead of propagating.
func gather(ctx context.Context, tasks []task) []taskResult {
	results := make([]taskResult, len(tasks))

	var group errgroup.Group
	for i, t := range tasks {
		i, t := i, t
		group.Go(func() error {
			response, err := t.run(ctx)
			results[i] = taskResult{name: t.name, response: response, err: err}
			return nil
		})
	}

	// Tasks always return nil, so Wait only synchronizes.
	_ = group.Wait()
	return results
}
