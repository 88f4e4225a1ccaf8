package stats

import "math"

// Weighted accumulates the first four central moments of a weighted value
// stream, per Pébay–Terriberry's weighted one-pass formulas. It is used
// for time-weighted state-variable summaries, where each observation is
// weighted by the duration the state held that value.
//
// The zero value is a valid, empty summary.
type Weighted struct {
	count          int64
	wsum           float64
	min, max       float64
	m1, m2, m3, m4 float64
}

// NewWeighted returns an empty Weighted summary.
func NewWeighted() Weighted {
	return Weighted{min: math.Inf(1), max: math.Inf(-1)}
}

// Count returns the number of observations added so far.
func (w Weighted) Count() int64 { return w.count }

// TotalWeight returns the sum of weights added so far.
func (w Weighted) TotalWeight() float64 { return w.wsum }

// Min returns the smallest observed value, or +Inf if empty.
func (w Weighted) Min() float64 { return w.min }

// Max returns the largest observed value, or -Inf if empty.
func (w Weighted) Max() float64 { return w.max }

// Mean returns the weighted arithmetic mean, or 0 if empty.
func (w Weighted) Mean() float64 { return w.m1 }

// Add folds a new weighted observation into the summary. A weight of 1 for
// every observation makes Weighted track identically to Running.
func (w *Weighted) Add(y, weight float64) {
	if weight <= 0 {
		return
	}
	if w.count == 0 {
		w.min, w.max = y, y
	} else {
		if y < w.min {
			w.min = y
		}
		if y > w.max {
			w.max = y
		}
	}

	wOld := w.wsum
	w.count++
	w.wsum += weight

	delta := y - w.m1
	deltaOverW := delta * weight / w.wsum
	deltaOverTotal := delta / w.wsum
	term1 := delta * deltaOverW * wOld

	w.m1 += deltaOverW
	w.m4 += term1*deltaOverTotal*deltaOverTotal*(wOld*wOld-wOld*weight+weight*weight) +
		6*deltaOverW*deltaOverW*w.m2 - 4*deltaOverW*w.m3
	w.m3 += term1*deltaOverTotal*(wOld-weight) - 3*deltaOverW*w.m2
	w.m2 += term1
}

// Variance returns the weighted variance m2/W scaled by the count-based
// correction n/(n-1), which equals the unbiased estimate when all weights
// are equal; no weight-based (reliability) correction is applied for
// unequal weights. Requires at least two observations with positive total
// weight; returns 0 otherwise.
func (w Weighted) Variance() float64 {
	if w.count < 2 || w.wsum == 0 {
		return 0
	}
	return w.m2 / w.wsum * (float64(w.count) / float64(w.count-1))
}

// StdDev returns the weighted sample standard deviation.
func (w Weighted) StdDev() float64 {
	return math.Sqrt(w.Variance())
}

// MergeWeighted combines two Weighted summaries computed over disjoint
// partitions of the same stream, per Pébay–Terriberry. Safe when the result
// aliases either argument.
func MergeWeighted(a, b Weighted) Weighted {
	if a.count == 0 {
		return b
	}
	if b.count == 0 {
		return a
	}

	wa, wb := a.wsum, b.wsum
	w := wa + wb

	delta := b.m1 - a.m1

	var out Weighted
	out.count = a.count + b.count
	out.wsum = w
	out.min = math.Min(a.min, b.min)
	out.max = math.Max(a.max, b.max)

	out.m1 = (wa*a.m1 + wb*b.m1) / w
	out.m2 = a.m2 + b.m2 + delta*delta*wa*wb/w
	out.m3 = a.m3 + b.m3 +
		delta*delta*delta*wa*wb*(wa-wb)/(w*w) +
		3*delta*(wa*b.m2-wb*a.m2)/w
	out.m4 = a.m4 + b.m4 +
		delta*delta*delta*delta*wa*wb*(wa*wa-wa*wb+wb*wb)/(w*w*w) +
		6*delta*delta*(wa*wa*b.m2+wb*wb*a.m2)/(w*w) +
		4*delta*(wa*b.m3-wb*a.m3)/w

	return out
}
