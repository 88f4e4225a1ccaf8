package desim

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/joeycumines/go-desim/stats"
	"github.com/stretchr/testify/require"
)

// TestExampleMM1_MeanSystemTimeApproachesTheoretical runs a single-server
// M/M/1 queue end to end — arrivals, queueing, service, departure — and
// checks the observed mean system time converges toward the theoretical
// 1/(mu-lambda). A full 1,000,000-served, 100-replication run is
// cmd/desim-mm1's job; this keeps a small, fast single-replication version
// exercising the same wiring in the test suite.
func TestExampleMM1_MeanSystemTimeApproachesTheoretical(t *testing.T) {
	const lambda, mu = 0.9, 1.0
	const served = 20_000

	rng := rand.New(rand.NewPCG(1, 2))
	q := NewEventQueue(0)
	server := NewResourcePool(q, "server", 1)

	summary := stats.NewRunning()
	count := 0
	exponential := func(rate float64) float64 { return -math.Log(1-rng.Float64()) / rate }

	arrivals := CreateProcess(q, "arrivals", func(p *Process, _ any) any {
		for count < served {
			p.Hold(exponential(lambda))
			arrivedAt := q.Now()

			customer := CreateProcess(q, "customer", func(cp *Process, _ any) any {
				sig, _ := server.Acquire(1)
				require.Equal(t, Success, sig)
				cp.Hold(exponential(mu))
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

	require.Equal(t, int64(served), summary.Count())

	theoretical := 1 / (mu - lambda)
	// A single 20k-customer replication is noisy; allow generous slack
	// rather than asserting tight convergence (that's cmd/desim-mm1's job
	// across 100 replications of 1,000,000 each).
	require.InDelta(t, theoretical, summary.Mean(), theoretical*0.5)
}
