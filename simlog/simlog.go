// Package simlog wires the desim runtime's structured logging onto
// logiface, using stumpy (logiface's zero-dependency backend) by default.
//
// desim passes a *Logger explicitly via EventQueueOption rather than
// through a package-level global: a process commonly runs many
// independent simulation replications concurrently, each on its own
// goroutine, and a shared global would interleave their fields under one
// undistinguishable stream.
package simlog

import (
	"io"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the structured logger type used throughout desim. It is a thin
// alias so callers never need to spell out logiface's event type
// parameter.
type Logger = logiface.Logger[*stumpy.Event]

// New constructs a Logger writing newline-delimited JSON to w at the given
// minimum level.
func New(w io.Writer, level logiface.Level) *Logger {
	return logiface.New[*stumpy.Event](
		logiface.WithLevel[*stumpy.Event](level),
		stumpy.WithStumpy(stumpy.WithWriter(w)),
	)
}

// NewNoop constructs a Logger that discards everything, for use when no
// EventQueueOption WithLogger is supplied.
func NewNoop() *Logger {
	return logiface.New[*stumpy.Event](
		logiface.WithLevel[*stumpy.Event](logiface.LevelDisabled),
	)
}
