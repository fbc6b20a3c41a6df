package latch

import "fmt"

// monitor performs the lifecycle consistency checks: a controlled controller
// missing its on-change callback, and a controller flipping between
// controlled and uncontrolled mode after construction.
//
// Each check re-fires only when its guarded inputs change, never on every
// evaluation. The mode observed at Start is held immutably for the lifetime
// of the monitor. The monitor writes to the warning sink only; it never
// alters control flow or state.
type monitor struct {
	name     string
	sink     WarningSink
	dev      bool
	readOnly bool

	initialMode Mode
	lastMode    Mode

	handlerChecked bool
	lastControlled bool
	lastHasChange  bool
}

// newMonitor creates a monitor for a controller. The dev flag is explicit
// rather than read from ambient process state; when false, all checks are
// disabled. The readOnly flag marks a missing handler as deliberate.
func newMonitor(name string, initial Mode, sink WarningSink, dev, readOnly bool) *monitor {
	return &monitor{
		name:        name,
		sink:        sink,
		dev:         dev,
		readOnly:    readOnly,
		initialMode: initial,
		lastMode:    initial,
	}
}

// check runs both consistency checks for the current evaluation.
func (m *monitor) check(mode Mode, hasOnChange bool) {
	if !m.dev {
		return
	}
	m.checkHandler(mode, hasOnChange)
	m.checkModeFlip(mode)
}

// checkHandler warns when a controlled controller has no on-change callback,
// which makes the value effectively read-only.
func (m *monitor) checkHandler(mode Mode, hasOnChange bool) {
	controlled := mode == ModeControlled
	if m.handlerChecked && controlled == m.lastControlled && hasOnChange == m.lastHasChange {
		return
	}
	m.handlerChecked = true
	m.lastControlled = controlled
	m.lastHasChange = hasOnChange

	m.sink.Warn(controlled && !hasOnChange && !m.readOnly, fmt.Sprintf(
		"%s: a value Source is set without an OnChange callback; the value is effectively read-only. Register OnChange, or remove the Control source and use Initial to let %s own the value",
		m.name, m.name))
}

// checkModeFlip warns when the resolved mode differs from the mode observed
// at construction, in either direction. Re-fires only when the mode changes
// again, not on subsequent evaluations holding the same mode.
func (m *monitor) checkModeFlip(mode Mode) {
	if mode == m.lastMode {
		return
	}
	m.lastMode = mode

	m.sink.Warn(mode == ModeControlled && m.initialMode == ModeUncontrolled, fmt.Sprintf(
		"%s: changing from uncontrolled to controlled. Controllers should not switch modes during their lifetime; this usually means the Control source started reporting its value as present after construction. Decide between controlled and uncontrolled for the lifetime of %s",
		m.name, m.name))
	m.sink.Warn(mode == ModeUncontrolled && m.initialMode == ModeControlled, fmt.Sprintf(
		"%s: changing from controlled to uncontrolled. Controllers should not switch modes during their lifetime; this usually means the Control source stopped reporting its value as present after construction. Decide between controlled and uncontrolled for the lifetime of %s",
		m.name, m.name))
}
