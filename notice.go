package latch

// Notice carries a change notification through the processing pipeline.
// It provides the suggested next state together with the action that
// produced it, allowing pipeline stages to observe or reshape the
// notification before it reaches the on-change callback.
type Notice struct {
	// Suggested is the state the reducer would produce for the action,
	// seeded with the effective value. It is a recommendation: in
	// controlled mode the caller decides whether to adopt it, and the
	// controller's internal state is not derived from it.
	Suggested State

	// Action is the dispatched action that produced the suggestion.
	Action Action

	// Mode is the mode the controller resolved for this dispatch.
	Mode Mode
}
