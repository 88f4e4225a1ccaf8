package stats

import "sort"

// Sample is a single (time, value) observation in a Timeseries.
type Sample struct {
	T float64
	X float64
}

// Timeseries is an ordered history of samples recorded while a resource's
// recording flag is enabled. Samples are appended in chronological order by
// Record, but may be reordered in place by SortByValue/SortByTime.
type Timeseries struct {
	samples []Sample
}

// Record appends a sample. Callers (resource implementations) are
// responsible for only calling this while recording is enabled.
func (ts *Timeseries) Record(t, x float64) {
	ts.samples = append(ts.samples, Sample{T: t, X: x})
}

// Len returns the number of recorded samples.
func (ts *Timeseries) Len() int { return len(ts.samples) }

// Samples returns the underlying samples in their current order. The
// returned slice must not be retained across a subsequent Record call.
func (ts *Timeseries) Samples() []Sample { return ts.samples }

// Copy returns an independent copy of the timeseries.
func (ts *Timeseries) Copy() *Timeseries {
	out := &Timeseries{samples: make([]Sample, len(ts.samples))}
	copy(out.samples, ts.samples)
	return out
}

// SortByValue reorders samples by X ascending (stable, so ties keep their
// relative chronological order).
func (ts *Timeseries) SortByValue() {
	sort.SliceStable(ts.samples, func(i, j int) bool {
		return ts.samples[i].X < ts.samples[j].X
	})
}

// SortByTime reorders samples by T ascending (stable). Calling SortByTime
// after SortByValue restores chronological order when no two samples share
// a T; samples recorded at the same T keep the relative order SortByValue
// gave them, not their original record order.
func (ts *Timeseries) SortByTime() {
	sort.SliceStable(ts.samples, func(i, j int) bool {
		return ts.samples[i].T < ts.samples[j].T
	})
}

// ToRunning summarizes the (unweighted) value history.
func (ts *Timeseries) ToRunning() Running {
	r := NewRunning()
	for _, s := range ts.samples {
		r.Add(s.X)
	}
	return r
}

// ToWeighted summarizes the value history, time-weighting each sample by
// the duration until the next sample (the last sample has no successor and
// is not weighted, matching "area under the step function up to now").
func (ts *Timeseries) ToWeighted() Weighted {
	w := NewWeighted()
	for i := 0; i+1 < len(ts.samples); i++ {
		dt := ts.samples[i+1].T - ts.samples[i].T
		if dt > 0 {
			w.Add(ts.samples[i].X, dt)
		}
	}
	return w
}
