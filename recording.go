package desim

import "github.com/joeycumines/go-desim/stats"

// levelRecorder tracks a resource's occupancy level as a timeseries while
// recording is active, shared by ObjectQueue, PriorityQueue, Buffer and
// ResourcePool — every resource kind with a numeric level to sample. Each
// resource calls sample whenever its level changes. Condition has no level
// of its own (it is a bare predicate guard) and so does not embed one.
type levelRecorder struct {
	queue      *EventQueue
	recording  bool
	timeseries stats.Timeseries
}

func newLevelRecorder(q *EventQueue) levelRecorder {
	return levelRecorder{queue: q}
}

// RecordingStart begins tracking level changes from now on.
func (r *levelRecorder) RecordingStart() { r.recording = true }

// RecordingStop stops tracking level changes; History still returns
// whatever was captured so far.
func (r *levelRecorder) RecordingStop() { r.recording = false }

// IsRecording reports whether level changes are currently being tracked.
func (r *levelRecorder) IsRecording() bool { return r.recording }

// sample records the current level at the current simulated time, if
// recording is active.
func (r *levelRecorder) sample(level float64) {
	if r.recording {
		r.timeseries.Record(r.queue.Now(), level)
	}
}

// History returns a copy of the level timeseries captured so far.
func (r *levelRecorder) History() stats.Timeseries {
	return *r.timeseries.Copy()
}
