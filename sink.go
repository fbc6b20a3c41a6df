package latch

import (
	"context"

	"github.com/zoobzio/capitan"
)

// WarningSink receives developer-facing misuse diagnostics from the
// consistency monitor. Warn is called with active == true when the guarded
// condition is violated and a human-readable message describing the misuse;
// calls with active == false re-assert a condition that now holds and
// should be ignored. Sinks must never alter control flow or state.
type WarningSink interface {
	Warn(active bool, message string)
}

// SinkFunc adapts a function to the WarningSink interface.
type SinkFunc func(active bool, message string)

// Warn implements WarningSink.
func (f SinkFunc) Warn(active bool, message string) {
	f(active, message)
}

// NopSink discards all warnings.
type NopSink struct{}

// Warn implements WarningSink.
func (NopSink) Warn(bool, string) {}

// CapitanSink publishes active warnings on the capitan bus as MisuseWarned
// events, letting harnesses observe diagnostics via capitan.Hook without
// coupling to a logging implementation. This is the default sink.
type CapitanSink struct{}

// Warn implements WarningSink.
func (CapitanSink) Warn(active bool, message string) {
	if !active {
		return
	}
	capitan.Emit(context.Background(), MisuseWarned,
		KeyMessage.Field(message),
	)
}
