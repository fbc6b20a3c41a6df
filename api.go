// Package latch provides a reusable binary-state controller that operates
// autonomously or under external control.
//
// The core type is Controller, which owns a single boolean state and keeps
// the controlled and uncontrolled modes of operating on it behaviorally
// consistent and detectable.
//
// # Modes
//
// A Controller resolves one of two modes on every evaluation:
//
//   - Uncontrolled: the value is owned and persisted internally. Dispatched
//     actions mutate internal state through the reducer.
//   - Controlled: the value is owned by an external Source supplied via
//     Control(). Dispatched actions never mutate internal state; instead
//     the controller computes the suggested next state and reports it to
//     the OnChange callback, leaving the decision to the external owner.
//
// Mode is derived from presence: the controller is controlled exactly when
// its Source reports a value as present. An explicit false counts as
// present. Presence is re-read on every evaluation, never cached.
//
// # Dispatch
//
// Dispatch routes an action through the gateway: at most one internal
// mutation (uncontrolled only), then at most one change notification, in
// that order. The notification carries the state the reducer would produce
// from the effective value, so a controlled caller sees what its externally
// owned value would become rather than a stale internal value.
//
// Notifications flow through a pipz pipeline; options such as
// WithMiddleware and WithRetry wrap the callback with observation,
// transformation, and retry stages.
//
// # Consistency checks
//
// A controller is expected to stay in one mode for its lifetime. The
// built-in monitor detects two kinds of misuse and reports them to an
// injected WarningSink (CapitanSink by default, which publishes
// MisuseWarned events):
//
//   - a controlled controller with no OnChange callback, which makes the
//     value effectively read-only
//   - a controller flipping between controlled and uncontrolled after Start
//
// Warnings are diagnostics only; they never alter behavior. Production()
// disables them.
//
// # Example
//
//	owner := latch.NewVar(false)
//
//	toggle := latch.New().
//	    Name("notifications").
//	    Control(owner).
//	    OnChange(func(suggested latch.State, action latch.Action) {
//	        owner.Set(suggested.On)
//	    })
//
//	if err := toggle.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	_ = toggle.Toggle(ctx)
//	fmt.Println(toggle.On()) // true, because the owner adopted the suggestion
package latch

import (
	"context"
	"fmt"
	"strconv"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/pipz"
)

// OnChangeFunc receives the suggested next state and the action that
// produced it. In controlled mode, adopting the suggestion (or not) is the
// caller's decision; the controller never applies it internally.
type OnChangeFunc func(suggested State, action Action)

// Controller is the dispatch gateway for a single binary value. It decides,
// per dispatch, whether to mutate internal state and whether to emit a
// change notification carrying the reducer's suggested next state.
//
// Controllers follow a cooperative, synchronous model: Dispatch never
// blocks or suspends, and a Controller is intended to be driven from a
// single goroutine.
type Controller struct {
	name     string
	reducer  Reducer
	source   Source
	onChange OnChangeFunc
	opts     []Option
	sink     WarningSink
	metrics  MetricsProvider
	history  *warningRing
	dev      bool
	readOnly bool

	started  bool
	initial  State
	state    State
	monitor  *monitor
	pipeline pipz.Chainable[*Notice]
}

// New creates a Controller with the default reducer, an initial value of
// false, and warnings routed to CapitanSink.
//
// Pipeline options (With*) configure the notification pipeline. Instance
// configuration uses chainable methods before calling Start().
//
// Example:
//
//	c := latch.New(
//	    latch.WithMiddleware(latch.UseEffect("audit", auditFn)),
//	).Initial(true).OnChange(fn)
func New(opts ...Option) *Controller {
	return &Controller{
		name:    "latch",
		reducer: DefaultReducer,
		opts:    opts,
		sink:    CapitanSink{},
		dev:     true,
	}
}

// -----------------------------------------------------------------------------
// Chainable Instance Configuration
// -----------------------------------------------------------------------------

// Name sets the controller name used in events and warning messages.
// Default: "latch". Must be called before Start().
func (c *Controller) Name(name string) *Controller {
	c.name = name
	return c
}

// Initial sets the initial value. It is captured into a write-once field at
// Start and never re-read afterward. Default: false. Must be called before
// Start().
func (c *Controller) Initial(on bool) *Controller {
	c.initial = State{On: on}
	return c
}

// Reducer sets a custom reducer. Default: DefaultReducer.
// Must be called before Start().
func (c *Controller) Reducer(r Reducer) *Controller {
	c.reducer = r
	return c
}

// Control sets the Source that owns the value in controlled mode. The
// source is consulted fresh on every evaluation; the controller is
// controlled whenever the source reports its value as present.
// Must be called before Start().
func (c *Controller) Control(src Source) *Controller {
	c.source = src
	return c
}

// OnChange registers the change callback. Leaving it unset is a supported
// configuration for an uncontrolled controller with no external interest in
// changes; for a controlled controller it draws a missing-handler warning.
// Must be called before Start().
func (c *Controller) OnChange(fn OnChangeFunc) *Controller {
	c.onChange = fn
	return c
}

// ReadOnly declares that a controlled controller deliberately has no
// OnChange callback, suppressing the missing-handler warning. It has no
// effect on behavior. Must be called before Start().
func (c *Controller) ReadOnly() *Controller {
	c.readOnly = true
	return c
}

// Warnings sets the sink that receives consistency-monitor diagnostics.
// Default: CapitanSink. Must be called before Start().
func (c *Controller) Warnings(sink WarningSink) *Controller {
	c.sink = sink
	return c
}

// WarningHistorySize sets the number of recent warning messages to retain.
// When set, WarningHistory() returns up to this many recent messages.
// Use 0 (default) to disable retention. Must be called before Start().
func (c *Controller) WarningHistorySize(n int) *Controller {
	c.history = newWarningRing(n)
	return c
}

// Metrics sets a metrics provider for observability integration.
// Must be called before Start().
func (c *Controller) Metrics(provider MetricsProvider) *Controller {
	c.metrics = provider
	return c
}

// Production disables the consistency monitor's developer warnings. The
// flag is explicit rather than read from ambient process state so both
// modes stay testable. Must be called before Start().
func (c *Controller) Production() *Controller {
	c.dev = false
	return c
}

// -----------------------------------------------------------------------------
// Lifecycle
// -----------------------------------------------------------------------------

// Start freezes the construction-time captures: the initial state and the
// initially observed mode. Both are write-once; configuration methods must
// not be called after Start. Start can only be called once.
func (c *Controller) Start(ctx context.Context) error {
	if c.started {
		return fmt.Errorf("controller already started")
	}
	c.started = true

	c.state = c.initial

	mode, _ := c.resolveMode()
	c.monitor = newMonitor(c.name, mode, c.tappedSink(), c.dev, c.readOnly)

	terminal := pipz.Effect(callbackID, func(_ context.Context, n *Notice) error {
		c.onChange(n.Suggested, n.Action)
		return nil
	})
	c.pipeline = buildPipeline(terminal, c.opts)

	capitan.Emit(ctx, ControllerStarted,
		KeyController.Field(c.name),
		KeyMode.Field(mode.String()),
		KeyOn.Field(strconv.FormatBool(c.initial.On)),
	)

	c.monitor.check(mode, c.onChange != nil)
	return nil
}

// tappedSink wraps the configured sink so active warnings also feed the
// warning history and the metrics provider.
func (c *Controller) tappedSink() WarningSink {
	return SinkFunc(func(active bool, message string) {
		if active {
			c.history.push(message)
			if c.metrics != nil {
				c.metrics.OnWarning()
			}
		}
		c.sink.Warn(active, message)
	})
}

// -----------------------------------------------------------------------------
// Evaluation
// -----------------------------------------------------------------------------

// resolveMode computes the mode and effective value for this evaluation.
// The source is consulted fresh every time; presence may change between
// calls.
func (c *Controller) resolveMode() (Mode, bool) {
	if c.source != nil {
		if v, ok := c.source.Value(); ok {
			return ModeControlled, v
		}
	}
	return ModeUncontrolled, c.state.On
}

// On returns the effective value: the source's value when controlled, the
// internal state otherwise. This is the only value the controller exposes;
// raw internal state never leaves the reducer's storage.
func (c *Controller) On() bool {
	mode, effective := c.resolveMode()
	if c.monitor != nil {
		c.monitor.check(mode, c.onChange != nil)
	}
	return effective
}

// Mode reports the mode resolved for the current evaluation.
func (c *Controller) Mode() Mode {
	mode, _ := c.resolveMode()
	if c.monitor != nil {
		c.monitor.check(mode, c.onChange != nil)
	}
	return mode
}

// WarningHistory returns recent consistency-monitor warnings, oldest first.
// Returns nil unless retention is enabled via WarningHistorySize.
func (c *Controller) WarningHistory() []string {
	return c.history.all()
}

// -----------------------------------------------------------------------------
// Dispatch Gateway
// -----------------------------------------------------------------------------

// Dispatch routes an action through the gateway:
//
//  1. If the controller resolves as uncontrolled, the action is applied to
//     internal state via the reducer. This is the sole mutation path.
//  2. If an OnChange callback is registered, the suggested next state is
//     computed by applying the action to the pre-mutation state seeded with
//     the effective value, and delivered through the notification pipeline.
//
// At most one mutation and at most one notification occur, in that order.
// Reducer errors (notably UnsupportedActionError for unrecognized kinds)
// propagate to the caller untouched; they signal a defect at the call site.
func (c *Controller) Dispatch(ctx context.Context, action Action) error {
	if !c.started {
		return fmt.Errorf("controller not started")
	}

	mode, effective := c.resolveMode()
	c.monitor.check(mode, c.onChange != nil)

	capitan.Emit(ctx, DispatchReceived,
		KeyController.Field(c.name),
		KeyAction.Field(action.Kind.String()),
		KeyMode.Field(mode.String()),
	)
	if c.metrics != nil {
		c.metrics.OnDispatch(action.Kind, mode)
	}

	// Suggestion seed: pre-mutation state with the effective value. When
	// controlled this reflects what the externally owned value would
	// become, not the stale internal value.
	seed := c.state
	seed.On = effective

	if mode == ModeUncontrolled {
		next, err := c.reducer(c.state, action)
		if err != nil {
			capitan.Emit(ctx, DispatchFailed,
				KeyController.Field(c.name),
				KeyAction.Field(action.Kind.String()),
				KeyError.Field(err.Error()),
			)
			return err
		}
		prev := c.state
		c.state = next
		capitan.Emit(ctx, StateMutated,
			KeyController.Field(c.name),
			KeyOn.Field(strconv.FormatBool(next.On)),
		)
		if c.metrics != nil {
			c.metrics.OnMutation(prev, next)
		}
	}

	if c.onChange == nil {
		return nil
	}

	suggested, err := c.reducer(seed, action)
	if err != nil {
		capitan.Emit(ctx, DispatchFailed,
			KeyController.Field(c.name),
			KeyAction.Field(action.Kind.String()),
			KeyError.Field(err.Error()),
		)
		return err
	}

	notice := &Notice{Suggested: suggested, Action: action, Mode: mode}
	if _, err := c.pipeline.Process(ctx, notice); err != nil {
		capitan.Emit(ctx, DispatchFailed,
			KeyController.Field(c.name),
			KeyAction.Field(action.Kind.String()),
			KeyError.Field(err.Error()),
		)
		return fmt.Errorf("notification pipeline: %w", err)
	}

	capitan.Emit(ctx, ChangeNotified,
		KeyController.Field(c.name),
		KeyAction.Field(action.Kind.String()),
		KeySuggested.Field(strconv.FormatBool(suggested.On)),
	)
	if c.metrics != nil {
		c.metrics.OnNotified(suggested)
	}
	return nil
}

// Toggle dispatches the toggle action.
func (c *Controller) Toggle(ctx context.Context) error {
	return c.Dispatch(ctx, ToggleAction())
}

// Reset dispatches the reset action carrying the initial state frozen at
// Start.
func (c *Controller) Reset(ctx context.Context) error {
	return c.Dispatch(ctx, ResetAction(c.initial))
}

// -----------------------------------------------------------------------------
// Prop Adapters
// -----------------------------------------------------------------------------

// TogglerProps merges base into a property set ready to attach to a toggle
// widget: the caller's OnActivate (if any) runs first, then Toggle; Pressed
// reflects the effective value; Attrs pass through untouched. Dispatch
// errors surface as DispatchFailed events.
func (c *Controller) TogglerProps(ctx context.Context, base Props) Props {
	out := base
	out.Pressed = c.On()
	out.OnActivate = ComposeHandlers(base.OnActivate, func() {
		_ = c.Toggle(ctx) //nolint:errcheck // surfaced via DispatchFailed
	})
	return out
}

// ResetterProps merges base into a property set for a reset widget: the
// caller's OnActivate (if any) runs first, then Reset. Pressed and Attrs
// pass through untouched.
func (c *Controller) ResetterProps(ctx context.Context, base Props) Props {
	out := base
	out.OnActivate = ComposeHandlers(base.OnActivate, func() {
		_ = c.Reset(ctx) //nolint:errcheck // surfaced via DispatchFailed
	})
	return out
}
