package memo

import (
	"context"
	"sync"
)

// DefaultWorkers bounds batch and watch concurrency when no explicit count
// is given.
const DefaultWorkers = 2

// FileResult is the outcome of one file in a batch run.
type FileResult struct {
	Input  string
	Output string
	Text   string
	Err    error
}

// RunBatch generates one memo per input on a bounded worker pool and returns
// the results in input order. A failing file never stops the others. A
// canceled context fails the files still waiting for a worker slot.
func RunBatch(ctx context.Context, gen *Generator, inputs []string, outputDir string, workers int) []FileResult {
	if workers < 1 {
		workers = DefaultWorkers
	}

	results := make([]FileResult, len(inputs))
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup

	for i, input := range inputs {
		output := OutputPath(input, outputDir)
		results[i] = FileResult{Input: input, Output: output}

		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			results[i].Err = ctx.Err()
			continue
		}

		wg.Add(1)

		go func(i int, input, output string) {
			defer wg.Done()
			defer func() { <-sem }()

			results[i].Text, results[i].Err = gen.GenerateFromFile(ctx, input, output)
		}(i, input, output)
	}

	wg.Wait()

	return results
}
