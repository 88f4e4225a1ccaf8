package stats

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunning_BasicInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	r := NewRunning()
	for i := 0; i < 1000; i++ {
		r.Add(rng.NormFloat64()*10 + 5)
	}
	require.True(t, r.Variance() >= 0)
	require.True(t, r.Min() <= r.Mean())
	require.True(t, r.Mean() <= r.Max())
	require.Equal(t, int64(1000), r.Count())
}

func TestRunning_CountMonotonic(t *testing.T) {
	r := NewRunning()
	var last int64
	for i := 0; i < 100; i++ {
		r.Add(float64(i))
		require.True(t, r.Count() >= last)
		last = r.Count()
	}
}

func TestMerge_IdentityAndCommutative(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	a := NewRunning()
	for i := 0; i < 200; i++ {
		a.Add(rng.Float64() * 100)
	}
	empty := NewRunning()

	require.InDelta(t, a.Mean(), Merge(a, empty).Mean(), 1e-9)
	require.Equal(t, a.Count(), Merge(a, empty).Count())

	b := NewRunning()
	for i := 0; i < 150; i++ {
		b.Add(rng.Float64() * 100)
	}
	ab := Merge(a, b)
	ba := Merge(b, a)
	require.InDelta(t, ab.Mean(), ba.Mean(), 1e-9)
	require.InDelta(t, ab.Variance(), ba.Variance(), 1e-6)
	require.InDelta(t, ab.Skewness(), ba.Skewness(), 1e-6)
	require.InDelta(t, ab.Kurtosis(), ba.Kurtosis(), 1e-6)
}

func TestMerge_Associative(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	var a, b, c Running = NewRunning(), NewRunning(), NewRunning()
	for i := 0; i < 100; i++ {
		a.Add(rng.Float64() * 50)
	}
	for i := 0; i < 80; i++ {
		b.Add(rng.Float64() * 50)
	}
	for i := 0; i < 60; i++ {
		c.Add(rng.Float64() * 50)
	}

	left := Merge(Merge(a, b), c)
	right := Merge(a, Merge(b, c))

	require.InDelta(t, left.Mean(), right.Mean(), 1e-9)
	require.InDelta(t, left.Variance(), right.Variance(), 1e-6)
	require.Equal(t, left.Count(), right.Count())
}

func TestMerge_SplitEqualsWhole(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	xs := make([]float64, 400)
	for i := range xs {
		xs[i] = rng.NormFloat64()*3 + 1
	}

	whole := NewRunning()
	for _, x := range xs {
		whole.Add(x)
	}

	for _, k := range []int{0, 1, 50, 200, 399, 400} {
		first, second := NewRunning(), NewRunning()
		for _, x := range xs[:k] {
			first.Add(x)
		}
		for _, x := range xs[k:] {
			second.Add(x)
		}
		merged := Merge(first, second)

		require.Equal(t, whole.Count(), merged.Count())
		relErr := func(want, got float64) float64 {
			if want == 0 {
				return math.Abs(got)
			}
			return math.Abs((got - want) / want)
		}
		require.Less(t, relErr(whole.Mean(), merged.Mean()), 1e-10)
		require.Less(t, relErr(whole.Variance(), merged.Variance()), 1e-10)
		if whole.Skewness() != 0 {
			require.Less(t, relErr(whole.Skewness(), merged.Skewness()), 1e-8)
		}
		if whole.Kurtosis() != 0 {
			require.Less(t, relErr(whole.Kurtosis(), merged.Kurtosis()), 1e-8)
		}
	}
}

func TestRunning_UndersizedReturnsZero(t *testing.T) {
	r := NewRunning()
	require.Equal(t, 0.0, r.Variance())
	require.Equal(t, 0.0, r.Skewness())
	require.Equal(t, 0.0, r.Kurtosis())

	r.Add(1)
	require.Equal(t, 0.0, r.Variance())

	r.Add(2)
	require.Equal(t, 0.0, r.Skewness())

	r.Add(3)
	require.Equal(t, 0.0, r.Kurtosis())
}
