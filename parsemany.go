package audiometa

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ParseManyResult pairs one input path with its outcome, preserving the
// input order even though parses complete out of order.
type ParseManyResult struct {
	Path     string
	Metadata *ParsedAudioMetadata
	Err      error
}

// ParseMany parses every path concurrently against eng, bounded by
// errgroup's own limiter rather than eng's permit pool directly — the
// two compose: errgroup caps how many goroutines are in flight at once,
// eng's semaphore caps how many of those are actually inside Parse at
// any instant. A single path's failure does not stop the others; check
// each result's Err individually. The limiter matches whatever
// concurrency the caller's Engine was built with.
func ParseMany(ctx context.Context, eng *Engine, paths ...string) ([]ParseManyResult, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	results := make([]ParseManyResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(eng.inner.MaxConcurrentTasks())

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			results[i].Path = path

			src, err := FileSource(path)
			if err != nil {
				results[i].Err = fmt.Errorf("%s: %w", path, err)
				return nil
			}

			m, err := eng.Parse(gctx, src)
			results[i].Metadata = m
			results[i].Err = err
			return nil
		})
	}

	// g.Wait's error is always nil here since every goroutine reports
	// its failure into results instead of returning it, keeping one
	// bad input from aborting the rest of the batch.
	_ = g.Wait()

	return results, nil
}
