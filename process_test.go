package desim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProcess_HoldAdvancesClockAndResumes(t *testing.T) {
	q := NewEventQueue(0)
	var observed []float64

	p := CreateProcess(q, "p", func(p *Process, ctx any) any {
		observed = append(observed, q.Now())
		sig := p.Hold(5)
		require.Equal(t, Success, sig)
		observed = append(observed, q.Now())
		sig = p.Hold(3)
		require.Equal(t, Success, sig)
		observed = append(observed, q.Now())
		return "done"
	}, nil, 0)
	p.Start()
	q.Execute()

	require.Equal(t, []float64{0, 5, 8}, observed)
	require.Equal(t, ProcessFinished, p.State())
	require.Equal(t, "done", p.ExitValue())
}

func TestProcess_CurrentProcessDuringEntry(t *testing.T) {
	q := NewEventQueue(0)
	var seen *Process
	p := CreateProcess(q, "p", func(p *Process, ctx any) any {
		seen = CurrentProcess(q)
		return nil
	}, nil, 0)
	p.Start()
	q.Execute()
	require.Same(t, p, seen)
	require.Nil(t, CurrentProcess(q))
}

func TestProcess_InterruptDeliversSignalFromHold(t *testing.T) {
	q := NewEventQueue(0)
	var gotSignal Signal
	p := CreateProcess(q, "p", func(p *Process, ctx any) any {
		gotSignal = p.Hold(100)
		return nil
	}, nil, 0)
	p.Start()

	// A scheduled event interrupts p shortly after p begins holding.
	q.Schedule(func(q *EventQueue, subject, object any) {
		p.Interrupt(UserSignalBase + 1)
	}, nil, nil, 1, 0)

	q.Execute()
	require.Equal(t, UserSignalBase+1, gotSignal)
	require.Equal(t, 1.0, q.Now())
}

func TestProcess_StopWhileWaitingDropsResourcesAndFinishes(t *testing.T) {
	q := NewEventQueue(0)
	pool := NewResourcePool(q, "pool", 1)

	holder := CreateProcess(q, "holder", func(p *Process, ctx any) any {
		sig, _ := pool.Acquire(1)
		require.Equal(t, Success, sig)
		p.Hold(1000) // hold forever (relatively)
		return nil
	}, nil, 0)
	holder.Start()

	q.Schedule(func(q *EventQueue, subject, object any) {
		holder.Stop("killed")
	}, nil, nil, 1, 0)

	q.Execute()
	require.Equal(t, ProcessFinished, holder.State())
	require.Equal(t, uint64(0), pool.InUse())
}

func TestProcess_ReprioritizeAffectsFutureWakeOrder(t *testing.T) {
	q := NewEventQueue(0)
	var order []string

	low := CreateProcess(q, "low", func(p *Process, ctx any) any {
		p.Hold(1)
		order = append(order, "low")
		return nil
	}, nil, 0)
	high := CreateProcess(q, "high", func(p *Process, ctx any) any {
		p.Hold(1)
		order = append(order, "high")
		return nil
	}, nil, 5)

	low.Start()
	high.Start()
	low.Reprioritize(10) // now outranks high

	q.Execute()
	require.Equal(t, []string{"low", "high"}, order)
}
