package desim

import "github.com/joeycumines/go-desim/simlog"

// queueOptions holds configuration resolved by EventQueueOption values.
type queueOptions struct {
	logger *simlog.Logger
}

// EventQueueOption configures an EventQueue at construction time.
type EventQueueOption interface {
	applyQueue(*queueOptions)
}

type queueOptionFunc struct {
	apply func(*queueOptions)
}

func (f *queueOptionFunc) applyQueue(o *queueOptions) { f.apply(o) }

// WithLogger attaches a structured logger to the EventQueue; every
// dispatched event is logged at debug level with its time. Scheduling,
// cancellation and process lifecycle transitions are not logged. The zero value (no WithLogger option) uses a
// no-op logger, matching simlog.NewNoop.
func WithLogger(logger *simlog.Logger) EventQueueOption {
	return &queueOptionFunc{func(o *queueOptions) { o.logger = logger }}
}

func resolveQueueOptions(opts []EventQueueOption) *queueOptions {
	cfg := &queueOptions{logger: simlog.NewNoop()}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applyQueue(cfg)
	}
	return cfg
}
