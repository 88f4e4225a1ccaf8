// Package stats implements numerically stable, one-pass, mergeable running
// summaries and timeseries recording for simulation state-variable
// histories.
//
// The moment-update formulas follow Meng (2015) for per-sample updates and
// Pébay (2008) for merging partial summaries; both are one-pass — no
// second traversal of the underlying data is required.
package stats

import "math"

// Running accumulates the first four central moments of a value stream,
// updated one observation at a time, and may be merged with another Running
// computed over a disjoint partition of the same stream.
//
// The zero value is a valid, empty summary.
type Running struct {
	count    int64
	min, max float64
	m1, m2, m3, m4 float64
}

// NewRunning returns an empty Running summary.
func NewRunning() Running {
	return Running{min: math.Inf(1), max: math.Inf(-1)}
}

// Count returns the number of observations added so far.
func (r Running) Count() int64 { return r.count }

// Min returns the smallest observed value, or +Inf if empty.
func (r Running) Min() float64 { return r.min }

// Max returns the largest observed value, or -Inf if empty.
func (r Running) Max() float64 { return r.max }

// Mean returns the running arithmetic mean, or 0 if empty.
func (r Running) Mean() float64 { return r.m1 }

// Add folds a new observation into the summary.
func (r *Running) Add(y float64) {
	if r.count == 0 {
		r.min, r.max = y, y
	} else {
		if y < r.min {
			r.min = y
		}
		if y > r.max {
			r.max = y
		}
	}

	n1 := r.count
	r.count++
	n := float64(r.count)

	delta := y - r.m1
	deltaN := delta / n
	deltaN2 := deltaN * deltaN
	term1 := delta * deltaN * float64(n1)

	r.m1 += deltaN
	r.m4 += term1*deltaN2*float64(n*n-3*n+3) + 6*deltaN2*r.m2 - 4*deltaN*r.m3
	r.m3 += term1*deltaN*float64(n-2) - 3*deltaN*r.m2
	r.m2 += term1
}

// Variance returns the sample variance (Bessel-corrected). Requires
// Count() >= 2; returns 0 otherwise.
func (r Running) Variance() float64 {
	if r.count < 2 {
		return 0
	}
	return r.m2 / float64(r.count-1)
}

// StdDev returns the sample standard deviation.
func (r Running) StdDev() float64 {
	return math.Sqrt(r.Variance())
}

// Skewness returns the sample skewness, with a finite-sample correction.
// Returns 0 when there are fewer than 3 observations or no variance.
func (r Running) Skewness() float64 {
	if r.count < 3 || r.m2 == 0 {
		return 0
	}
	n := float64(r.count)
	g1 := (math.Sqrt(n) * r.m3) / math.Pow(r.m2, 1.5)
	return math.Sqrt(n*(n-1)) / (n - 2) * g1
}

// Kurtosis returns the sample excess kurtosis, with a finite-sample
// correction. Returns 0 when there are fewer than 4 observations or no
// variance.
func (r Running) Kurtosis() float64 {
	if r.count < 4 || r.m2 == 0 {
		return 0
	}
	n := float64(r.count)
	g2 := (n*r.m4)/(r.m2*r.m2) - 3
	return ((n - 1) / ((n - 2) * (n - 3))) * ((n+1)*g2 + 6)
}

// Merge returns the summary of the combined stream represented by a and b,
// using Pébay's parallel-moment formulas. Merge is commutative and
// associative up to floating-point rounding, and safe when the receiver
// aliases one of the arguments: the result is computed into a temporary
// before being returned.
func Merge(a, b Running) Running {
	if a.count == 0 {
		return b
	}
	if b.count == 0 {
		return a
	}

	na, nb := float64(a.count), float64(b.count)
	n := na + nb

	delta := b.m1 - a.m1
	delta2 := delta * delta
	delta3 := delta2 * delta
	delta4 := delta2 * delta2

	var out Running
	out.count = a.count + b.count
	out.min = math.Min(a.min, b.min)
	out.max = math.Max(a.max, b.max)

	out.m1 = (na*a.m1 + nb*b.m1) / n

	out.m2 = a.m2 + b.m2 + delta2*na*nb/n

	out.m3 = a.m3 + b.m3 +
		delta3*na*nb*(na-nb)/(n*n) +
		3*delta*(na*b.m2-nb*a.m2)/n

	out.m4 = a.m4 + b.m4 +
		delta4*na*nb*(na*na-na*nb+nb*nb)/(n*n*n) +
		6*delta2*(na*na*b.m2+nb*nb*a.m2)/(n*n) +
		4*delta*(na*b.m3-nb*a.m3)/n

	return out
}
