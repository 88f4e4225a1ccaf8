// Package replicate runs a simulation entry point across many independent
// replications and combines their per-replication summaries into one
// overall Running, so a caller can report a confidence interval around a
// steady-state statistic rather than trusting a single run.
//
// This is deliberately kept separate from the desim package itself: a
// single EventQueue drives exactly one replication and is not safe for
// concurrent use (see EventQueue's doc comment), so running N replications
// concurrently means constructing N independent EventQueues, one per
// goroutine. That orchestration concern — how many workers, how seeds are
// derived, whether to merge or keep per-replication results — belongs to
// the caller's experiment harness, not to the simulation core.
package replicate

import (
	"context"

	"github.com/joeycumines/go-desim/stats"
	"golang.org/x/sync/errgroup"
)

// Replication is run once per replication index, on its own goroutine,
// with a seed derived from the replication index so results are
// reproducible. It must construct its own EventQueue, run it to
// completion, and return the statistic of interest as a Running (commonly
// a single Add call over one end-of-replication observation, though
// nothing prevents folding in several).
type Replication func(ctx context.Context, index int, seed int64) (stats.Running, error)

// Run executes n independent replications of fn concurrently (bounded by
// GOMAXPROCS via errgroup's default scheduling), merging every
// replication's Running into one combined summary via stats.Merge. Seeds
// are baseSeed+index, so a given n and baseSeed always reproduce the same
// set of replications regardless of completion order (Merge is
// commutative/associative, so the combined result does not depend on which
// replication finishes first either).
//
// Run returns the first error encountered (via errgroup.Group.Wait). All n
// replications are launched regardless; the first error cancels the ctx
// passed to the others, and it is up to fn to observe that cancellation.
func Run(ctx context.Context, n int, baseSeed int64, fn Replication) (stats.Running, error) {
	results := make([]stats.Running, n)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			r, err := fn(ctx, i, baseSeed+int64(i))
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return stats.Running{}, err
	}

	combined := stats.NewRunning()
	for _, r := range results {
		combined = stats.Merge(combined, r)
	}
	return combined, nil
}
