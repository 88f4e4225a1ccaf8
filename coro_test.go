package desim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCoroutine_BasicHandoff(t *testing.T) {
	h := NewHost()
	var trace []string

	c := h.Create("worker", func(self *Coroutine, msg any) any {
		trace = append(trace, "start:"+msg.(string))
		reply := h.Yield("first")
		trace = append(trace, "resumed:"+reply.(string))
		return "done"
	}, nil)

	out := h.Start(c, "hello")
	require.Equal(t, "first", out)
	require.Equal(t, CoroutineRunning, c.Status())

	out = h.Resume(c, "world")
	require.Equal(t, "done", out)
	require.Equal(t, CoroutineFinished, c.Status())
	require.Equal(t, []string{"start:hello", "resumed:world"}, trace)
}

func TestCoroutine_ExitUnwindsFromDepth(t *testing.T) {
	h := NewHost()
	inner := func(self *Coroutine) {
		Exit(self, "bailed")
	}
	c := h.Create("deep", func(self *Coroutine, msg any) any {
		inner(self)
		t.Fatal("unreachable after Exit")
		return nil
	}, nil)

	out := h.Start(c, nil)
	require.Equal(t, "bailed", out)
	require.Equal(t, CoroutineFinished, c.Status())
	require.Equal(t, "bailed", c.ExitValue())
}

func TestCoroutine_StopNeverStarted(t *testing.T) {
	h := NewHost()
	c := h.Create("never", func(self *Coroutine, msg any) any {
		t.Fatal("should never run")
		return nil
	}, nil)

	c.stop("killed")
	require.Equal(t, CoroutineFinished, c.Status())
	require.Equal(t, "killed", c.ExitValue())
}

func TestCoroutine_StopMidExecution(t *testing.T) {
	h := NewHost()
	ran := false
	c := h.Create("victim", func(self *Coroutine, msg any) any {
		h.Yield("parked")
		ran = true
		return "never"
	}, nil)

	out := h.Start(c, nil)
	require.Equal(t, "parked", out)

	c.stop("forced")
	require.Equal(t, CoroutineFinished, c.Status())
	require.Equal(t, "forced", c.ExitValue())
	require.False(t, ran)
}

// TestCoroutine_SingleActiveGoroutineInvariant has main transfer into two
// coroutines in turn, each yielding back, under -race: only the channel
// operations in transfer should ever be needed to make the single "current"
// pointer's writes visible, with no data race on the shared trace slice
// despite it being written from a different goroutine on each hand-off.
func TestCoroutine_SingleActiveGoroutineInvariant(t *testing.T) {
	h := NewHost()
	var trace []int
	const rounds = 50

	b := h.Create("b", func(self *Coroutine, msg any) any {
		for {
			trace = append(trace, 2)
			h.Yield(nil)
		}
	}, nil)
	c := h.Create("c", func(self *Coroutine, msg any) any {
		for {
			trace = append(trace, 3)
			h.Yield(nil)
		}
	}, nil)

	for i := 0; i < rounds; i++ {
		trace = append(trace, 1)
		h.Transfer(b, nil)
		h.Transfer(c, nil)
	}

	require.Len(t, trace, rounds*3)
}
