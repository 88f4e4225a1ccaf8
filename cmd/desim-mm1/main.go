// Command desim-mm1 runs an M/M/1 queue to steady state across many
// independent replications and reports whether the observed mean system
// time (queueing delay plus service) falls within a 95% confidence
// interval of the theoretical value 1/(mu-lambda).
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"math/rand/v2"
	"os"

	"github.com/joeycumines/go-desim"
	"github.com/joeycumines/go-desim/replicate"
	"github.com/joeycumines/go-desim/simlog"
	"github.com/joeycumines/go-desim/stats"
	"github.com/joeycumines/logiface"
)

func main() {
	var (
		lambda = flag.Float64("lambda", 0.9, "arrival rate")
		mu     = flag.Float64("mu", 1.0, "service rate")
		served = flag.Int("served", 1_000_000, "customers served per replication before stopping")
		reps   = flag.Int("reps", 100, "independent replications")
		seed   = flag.Int64("seed", 1, "base seed; replication i uses seed+i")
		debug  = flag.Bool("debug", false, "log every dispatched event at debug level")
	)
	flag.Parse()

	logger := simlog.NewNoop()
	if *debug {
		logger = simlog.New(os.Stderr, logiface.LevelDebug)
	}

	combined, err := replicate.Run(context.Background(), *reps, *seed, func(ctx context.Context, index int, seed int64) (stats.Running, error) {
		return runReplication(seed, *lambda, *mu, *served, logger)
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "desim-mm1:", err)
		os.Exit(1)
	}

	theoretical := 1 / (*mu - *lambda)
	lo, hi := confidenceInterval95(combined)

	if err := stats.Report(os.Stdout, "system-time", combined); err != nil {
		fmt.Fprintln(os.Stderr, "desim-mm1:", err)
		os.Exit(1)
	}
	fmt.Printf("theoretical=%g\t95%%-ci=[%g, %g]\twithin=%t\n",
		theoretical, lo, hi, theoretical >= lo && theoretical <= hi)
}

// runReplication drives a single M/M/1 replication to the configured
// served-customer count and returns the system-time summary across every
// customer served in it.
func runReplication(seed int64, lambda, mu float64, served int, logger *simlog.Logger) (stats.Running, error) {
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed>>32)))
	q := desim.NewEventQueue(0, desim.WithLogger(logger))
	server := desim.NewResourcePool(q, "server", 1)

	summary := stats.NewRunning()
	count := 0

	arrivals := desim.CreateProcess(q, "arrivals", func(p *desim.Process, _ any) any {
		for count < served {
			p.Hold(exponential(rng, lambda))
			arrivedAt := q.Now()

			customer := desim.CreateProcess(q, "customer", func(cp *desim.Process, _ any) any {
				if sig, _ := server.Acquire(1); sig != desim.Success {
					return nil
				}
				cp.Hold(exponential(rng, mu))
				server.Release(1)

				summary.Add(q.Now() - arrivedAt)
				count++
				if count >= served {
					q.Terminate()
				}
				return nil
			}, nil, 0)
			customer.Start()
		}
		return nil
	}, nil, 0)
	arrivals.Start()

	q.Execute()
	return summary, nil
}

// exponential draws an Exp(rate) variate via inverse-CDF sampling.
func exponential(rng *rand.Rand, rate float64) float64 {
	return -math.Log(1-rng.Float64()) / rate
}

// confidenceInterval95 returns the 95% CI of the mean, treating each
// replication's contribution as already folded into combined (valid since
// stats.Merge is exact regardless of how the partitions were split, and
// the per-replication means are what Report/Merge track as the running
// mean across all served customers pooled together).
func confidenceInterval95(r stats.Running) (lo, hi float64) {
	n := float64(r.Count())
	if n < 2 {
		return r.Mean(), r.Mean()
	}
	halfWidth := 1.96 * r.StdDev() / math.Sqrt(n)
	return r.Mean() - halfWidth, r.Mean() + halfWidth
}
