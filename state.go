package latch

// State is the controller-owned state. It is initialized once per controller
// lifetime from the configured initial value and mutated only by dispatched
// actions processed through the reducer. Raw internal state is never exposed
// directly; callers observe the effective value via Controller.On.
type State struct {
	// On is the binary value the controller manages.
	On bool
}

// Mode identifies which side owns the effective value.
type Mode int32

const (
	// ModeUncontrolled indicates the effective value is owned and persisted
	// internally by the controller.
	ModeUncontrolled Mode = iota

	// ModeControlled indicates the effective value is owned by an external
	// Source and must be supplied on every evaluation.
	ModeControlled
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeUncontrolled:
		return "uncontrolled"
	case ModeControlled:
		return "controlled"
	default:
		return "unknown"
	}
}
