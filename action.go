package latch

import "fmt"

// ActionKind tags an Action variant.
type ActionKind int32

const (
	// KindToggle flips the On flag.
	KindToggle ActionKind = iota

	// KindReset restores the controller's frozen initial state.
	KindReset
)

// String returns the string representation of the action kind.
func (k ActionKind) String() string {
	switch k {
	case KindToggle:
		return "toggle"
	case KindReset:
		return "reset"
	default:
		return fmt.Sprintf("unknown(%d)", int32(k))
	}
}

// Action is the input to a Reducer. Kind selects the variant. Initial
// carries the state to restore and is meaningful only for KindReset.
type Action struct {
	Kind    ActionKind
	Initial State
}

// ToggleAction returns the action that flips the On flag.
func ToggleAction() Action {
	return Action{Kind: KindToggle}
}

// ResetAction returns the action that restores the given initial state.
// Controller.Reset builds this from the state frozen at Start; construct it
// directly only when driving a reducer by hand.
func ResetAction(initial State) Action {
	return Action{Kind: KindReset, Initial: initial}
}
