package latch

import "github.com/zoobzio/capitan"

// Controller lifecycle signals.
var (
	// ControllerStarted is emitted when a Controller freezes its initial
	// captures and becomes operational.
	ControllerStarted = capitan.NewSignal(
		"latch.controller.started",
		"Controller started",
	)
)

// Dispatch signals.
var (
	// DispatchReceived is emitted when an action enters the dispatch gateway.
	DispatchReceived = capitan.NewSignal(
		"latch.dispatch.received",
		"Action entered the dispatch gateway",
	)

	// StateMutated is emitted when the reducer mutates internal state.
	// Only uncontrolled dispatches mutate state.
	StateMutated = capitan.NewSignal(
		"latch.state.mutated",
		"Internal state mutated by the reducer",
	)

	// ChangeNotified is emitted after the suggested state is delivered to
	// the on-change callback.
	ChangeNotified = capitan.NewSignal(
		"latch.change.notified",
		"Suggested state delivered to the on-change callback",
	)

	// DispatchFailed is emitted when the reducer or the notification
	// pipeline returns an error.
	DispatchFailed = capitan.NewSignal(
		"latch.dispatch.failed",
		"Reducer or notification pipeline failed",
	)
)

// Misuse signals.
var (
	// MisuseWarned is emitted by CapitanSink when the consistency monitor
	// detects developer misuse.
	MisuseWarned = capitan.NewSignal(
		"latch.misuse.warned",
		"Consistency monitor emitted a warning",
	)
)
