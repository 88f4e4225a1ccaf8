package stats

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTimeseries_CopySortIdempotent(t *testing.T) {
	var ts Timeseries
	ts.Record(0, 3)
	ts.Record(1, 1)
	ts.Record(2, 2)

	cp := ts.Copy()
	cp.SortByValue()
	first := append([]Sample(nil), cp.Samples()...)
	cp.SortByValue()
	second := cp.Samples()
	require.Equal(t, first, second)

	// original is untouched by sorting the copy.
	require.Equal(t, []Sample{{0, 3}, {1, 1}, {2, 2}}, ts.Samples())
}

func TestTimeseries_SortXThenSortTRestoresChronology(t *testing.T) {
	var ts Timeseries
	ts.Record(0, 5)
	ts.Record(1, 1)
	ts.Record(2, 9)
	ts.Record(3, 3)

	want := append([]Sample(nil), ts.Samples()...)

	ts.SortByValue()
	require.NotEqual(t, want, ts.Samples())

	ts.SortByTime()
	require.Equal(t, want, ts.Samples())
}

func TestTimeseries_ToRunningAndWeighted(t *testing.T) {
	var ts Timeseries
	ts.Record(0, 10)
	ts.Record(1, 20)
	ts.Record(3, 10)

	r := ts.ToRunning()
	require.Equal(t, int64(3), r.Count())

	w := ts.ToWeighted()
	// level 10 held for 1 unit, level 20 held for 2 units; last sample unweighted.
	require.InDelta(t, (10*1+20*2)/3.0, w.Mean(), 1e-9)
}
