package desim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCondition_SignalWakesOnlySatisfiedWaiters(t *testing.T) {
	q := NewEventQueue(0)
	cond := NewCondition(q, "c")
	level := 0
	var woke []string

	mk := func(name string, threshold int) *Process {
		return CreateProcess(q, name, func(p *Process, ctx any) any {
			cond.Wait(func(ctx any) bool { return level >= threshold }, nil)
			woke = append(woke, name)
			return nil
		}, nil, 0)
	}

	low := mk("low", 1)
	high := mk("high", 5)
	low.Start()
	high.Start()

	setter := CreateProcess(q, "setter", func(p *Process, ctx any) any {
		p.Hold(1)
		level = 2
		cond.Signal()
		return nil
	}, nil, 0)
	setter.Start()

	q.Execute()

	require.Equal(t, []string{"low"}, woke)
	require.Equal(t, 1, cond.guard.Len())
}

func TestCondition_ObserverChainWakesThroughResourceGuard(t *testing.T) {
	q := NewEventQueue(0)
	oq := NewObjectQueue(q, "R", Unlimited)
	cond := NewCondition(q, "C")
	cond.ObserveGuard(oq.FrontGuard())

	var woken bool
	waiter := CreateProcess(q, "waiter", func(p *Process, ctx any) any {
		cond.Wait(func(ctx any) bool { return oq.Len() > 0 }, nil)
		woken = true
		return nil
	}, nil, 0)
	waiter.Start()

	putter := CreateProcess(q, "putter", func(p *Process, ctx any) any {
		p.Hold(1)
		oq.Put("x")
		return nil
	}, nil, 0)
	putter.Start()

	q.Execute()
	require.True(t, woken)
}
