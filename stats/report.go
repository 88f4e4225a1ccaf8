package stats

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// Report writes a human-readable, tab-separated summary line to w: an
// optional lead-in label followed by count/min/max/mean/stddev/skew/kurt
// fields, column-aligned via text/tabwriter.
//
// Rendering ASCII histograms and correlograms is left to an external
// data-presentation collaborator; Report only ever emits the numeric
// summary line.
func Report(w io.Writer, label string, r Running) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if label != "" {
		fmt.Fprintf(tw, "%s\t", label)
	}
	fmt.Fprintf(tw, "n=%d\tmin=%g\tmax=%g\tmean=%g\tstddev=%g\tskew=%g\tkurt=%g\n",
		r.Count(), r.Min(), r.Max(), r.Mean(), r.StdDev(), r.Skewness(), r.Kurtosis())
	return tw.Flush()
}

// ReportWeighted is Report's time-weighted counterpart.
func ReportWeighted(w io.Writer, label string, ws Weighted) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if label != "" {
		fmt.Fprintf(tw, "%s\t", label)
	}
	fmt.Fprintf(tw, "n=%d\tweight=%g\tmin=%g\tmax=%g\tmean=%g\tstddev=%g\n",
		ws.Count(), ws.TotalWeight(), ws.Min(), ws.Max(), ws.Mean(), ws.StdDev())
	return tw.Flush()
}
