package latch

// MetricsProvider allows integration with metrics systems like Prometheus,
// StatsD, etc. Implement this interface to receive callbacks on key
// controller events.
type MetricsProvider interface {
	// OnDispatch is called when an action enters the dispatch gateway.
	OnDispatch(kind ActionKind, mode Mode)

	// OnMutation is called when the reducer mutates internal state.
	// Only uncontrolled dispatches mutate state.
	OnMutation(from, to State)

	// OnNotified is called after the suggested state is delivered to the
	// on-change callback.
	OnNotified(suggested State)

	// OnWarning is called when the consistency monitor emits an active
	// warning.
	OnWarning()
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Use this as an embedded type to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnDispatch(_ ActionKind, _ Mode) {}
func (NoOpMetricsProvider) OnMutation(_, _ State)           {}
func (NoOpMetricsProvider) OnNotified(_ State)              {}
func (NoOpMetricsProvider) OnWarning()                      {}
