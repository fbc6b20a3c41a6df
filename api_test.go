package latch

import (
	"context"
	"errors"
	"testing"
)

// recordSink captures active warnings for assertions.
type recordSink struct {
	active []string
	calls  int
}

func (r *recordSink) Warn(active bool, message string) {
	r.calls++
	if active {
		r.active = append(r.active, message)
	}
}

// recordMetrics counts mutation and notification callbacks.
type recordMetrics struct {
	NoOpMetricsProvider
	dispatches int
	mutations  int
	notified   int
	warnings   int
}

func (r *recordMetrics) OnDispatch(_ ActionKind, _ Mode) { r.dispatches++ }
func (r *recordMetrics) OnMutation(_, _ State)           { r.mutations++ }
func (r *recordMetrics) OnNotified(_ State)              { r.notified++ }
func (r *recordMetrics) OnWarning()                      { r.warnings++ }

func TestController_UncontrolledToggleAndReset(t *testing.T) {
	ctx := context.Background()
	sink := &recordSink{}

	c := New().Warnings(sink)
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if c.On() {
		t.Error("expected initial value false")
	}
	if err := c.Toggle(ctx); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if !c.On() {
		t.Error("expected On=true after toggle")
	}
	if err := c.Reset(ctx); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if c.On() {
		t.Error("expected On=false after reset")
	}
	if len(sink.active) != 0 {
		t.Errorf("expected no warnings, got %v", sink.active)
	}
}

func TestController_UncontrolledDoubleToggleRoundTrips(t *testing.T) {
	ctx := context.Background()

	c := New().Initial(true).Warnings(NopSink{})
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	before := c.On()
	_ = c.Toggle(ctx)
	if c.On() == before {
		t.Error("expected toggle to flip the effective value")
	}
	_ = c.Toggle(ctx)
	if c.On() != before {
		t.Error("expected two toggles to return to the original value")
	}
}

func TestController_ControlledExternalValueAlwaysWins(t *testing.T) {
	ctx := context.Background()
	metrics := &recordMetrics{}
	owner := NewVar(true)

	c := New().
		Control(owner).
		OnChange(func(State, Action) {}).
		Metrics(metrics).
		Warnings(NopSink{})
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		_ = c.Toggle(ctx)
		_ = c.Reset(ctx)
		if !c.On() {
			t.Fatal("expected the external value to drive the effective value")
		}
	}
	if metrics.mutations != 0 {
		t.Errorf("expected no internal mutations while controlled, got %d", metrics.mutations)
	}
}

func TestController_ControlledWithoutHandlerWarnsOnce(t *testing.T) {
	ctx := context.Background()
	sink := &recordSink{}
	metrics := &recordMetrics{}
	owner := NewVar(false)

	c := New().Control(owner).Warnings(sink).Metrics(metrics)
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		_ = c.Toggle(ctx)
		if c.On() {
			t.Fatal("expected the external value to keep driving the effective value")
		}
	}
	if len(sink.active) != 1 {
		t.Fatalf("expected exactly one missing-handler warning, got %d: %v", len(sink.active), sink.active)
	}
	if metrics.mutations != 0 {
		t.Errorf("expected no internal mutations while controlled, got %d", metrics.mutations)
	}
	if metrics.warnings != 1 {
		t.Errorf("expected one warning callback, got %d", metrics.warnings)
	}
}

func TestController_ControlledSuggestsWithoutMutating(t *testing.T) {
	ctx := context.Background()
	metrics := &recordMetrics{}
	owner := NewVar(false)

	var gotState State
	var gotAction Action
	calls := 0

	c := New().
		Control(owner).
		OnChange(func(suggested State, action Action) {
			calls++
			gotState = suggested
			gotAction = action
		}).
		Metrics(metrics).
		Warnings(NopSink{})
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if err := c.Toggle(ctx); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one notification, got %d", calls)
	}
	if !gotState.On {
		t.Error("expected the suggestion to flip the external false to true")
	}
	if gotAction.Kind != KindToggle {
		t.Errorf("expected a toggle action, got %s", gotAction.Kind)
	}
	if metrics.mutations != 0 {
		t.Errorf("expected no internal mutations, got %d", metrics.mutations)
	}
	if c.On() {
		t.Error("expected the effective value to remain the external false")
	}
}

func TestController_SuggestionSeededFromEffectiveValue(t *testing.T) {
	// The internal state is false, but the external owner says true. The
	// suggestion must reflect what the owner's value would become.
	ctx := context.Background()
	owner := NewVar(true)

	var suggested State
	c := New().
		Control(owner).
		OnChange(func(s State, _ Action) { suggested = s }).
		Warnings(NopSink{})
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	_ = c.Toggle(ctx)
	if suggested.On {
		t.Error("expected the suggestion to toggle the external true to false")
	}
}

func TestController_MutationPrecedesNotification(t *testing.T) {
	ctx := context.Background()

	checked := false
	c := New().Warnings(NopSink{})
	c.OnChange(func(suggested State, _ Action) {
		// By the time the callback runs, the internal mutation has
		// already been applied.
		checked = true
		if c.On() != suggested.On {
			t.Error("expected the effective value to match the suggestion inside the callback")
		}
	})
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if err := c.Toggle(ctx); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if !checked {
		t.Fatal("expected the callback to run")
	}
}

func TestController_NoHandlerSkipsNotification(t *testing.T) {
	ctx := context.Background()
	metrics := &recordMetrics{}

	c := New().Metrics(metrics).Warnings(NopSink{})
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	_ = c.Toggle(ctx)
	if metrics.notified != 0 {
		t.Errorf("expected no notifications without a handler, got %d", metrics.notified)
	}
	if metrics.mutations != 1 {
		t.Errorf("expected one mutation, got %d", metrics.mutations)
	}
}

func TestController_UnsupportedActionPropagates(t *testing.T) {
	ctx := context.Background()

	c := New().Warnings(NopSink{})
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	err := c.Dispatch(ctx, Action{Kind: ActionKind(42)})
	if err == nil {
		t.Fatal("expected an error for an unknown action kind")
	}
	var ua *UnsupportedActionError
	if !errors.As(err, &ua) {
		t.Fatalf("expected UnsupportedActionError, got %T", err)
	}
	if c.On() {
		t.Error("expected state to remain untouched after a failed dispatch")
	}
}

func TestController_ResetUsesFrozenInitial(t *testing.T) {
	ctx := context.Background()

	c := New().Initial(true).Warnings(NopSink{})
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	_ = c.Toggle(ctx)
	if c.On() {
		t.Fatal("expected On=false after toggle")
	}
	_ = c.Reset(ctx)
	if !c.On() {
		t.Error("expected reset to restore the frozen initial true")
	}
}

func TestController_CustomReducer(t *testing.T) {
	ctx := context.Background()

	// A reducer that refuses to turn the value off via toggle.
	stayOn := func(state State, action Action) (State, error) {
		next, err := DefaultReducer(state, action)
		if err != nil {
			return State{}, err
		}
		if action.Kind == KindToggle && state.On {
			return state, nil
		}
		return next, nil
	}

	c := New().Initial(false).Reducer(stayOn).Warnings(NopSink{})
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	_ = c.Toggle(ctx)
	if !c.On() {
		t.Fatal("expected toggle to turn the value on")
	}
	_ = c.Toggle(ctx)
	if !c.On() {
		t.Error("expected the custom reducer to keep the value on")
	}
	_ = c.Reset(ctx)
	if c.On() {
		t.Error("expected reset to restore the initial false")
	}
}

func TestController_StartTwice(t *testing.T) {
	ctx := context.Background()

	c := New().Warnings(NopSink{})
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := c.Start(ctx); err == nil {
		t.Error("expected an error when starting twice")
	}
}

func TestController_DispatchBeforeStart(t *testing.T) {
	ctx := context.Background()

	c := New().Warnings(NopSink{})
	if err := c.Toggle(ctx); err == nil {
		t.Error("expected an error when dispatching before Start")
	}
}

func TestController_WarningHistory(t *testing.T) {
	ctx := context.Background()
	owner := NewVar(false)

	c := New().Control(owner).Warnings(NopSink{}).WarningHistorySize(4)
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	history := c.WarningHistory()
	if len(history) != 1 {
		t.Fatalf("expected one retained warning, got %d", len(history))
	}
}

func TestController_WarningHistoryDisabledByDefault(t *testing.T) {
	ctx := context.Background()
	owner := NewVar(false)

	c := New().Control(owner).Warnings(NopSink{})
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if h := c.WarningHistory(); h != nil {
		t.Errorf("expected nil history when retention is disabled, got %v", h)
	}
}

func TestController_ModeReporting(t *testing.T) {
	ctx := context.Background()
	owner := NewVar(false)

	controlled := New().Control(owner).OnChange(func(State, Action) {}).Warnings(NopSink{})
	if err := controlled.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if controlled.Mode() != ModeControlled {
		t.Errorf("expected controlled, got %s", controlled.Mode())
	}

	uncontrolled := New().Warnings(NopSink{})
	if err := uncontrolled.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if uncontrolled.Mode() != ModeUncontrolled {
		t.Errorf("expected uncontrolled, got %s", uncontrolled.Mode())
	}
}

func TestController_ControlledFalseCountsAsPresent(t *testing.T) {
	ctx := context.Background()

	c := New().
		Initial(true).
		Control(SourceFunc(func() (bool, bool) { return false, true })).
		OnChange(func(State, Action) {}).
		Warnings(NopSink{})
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if c.Mode() != ModeControlled {
		t.Error("expected an explicit false to count as present")
	}
	if c.On() {
		t.Error("expected the external false to win over the internal true")
	}
}
