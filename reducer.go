package latch

import "fmt"

// Reducer computes the next state for an action. Implementations must be
// pure: deterministic, no side effects, and no access to the controller's
// mode. The controller seeds suggested-state computations by overriding
// State.On with the effective value; reducers that conceptually track
// anything beyond On are outside this contract.
type Reducer func(state State, action Action) (State, error)

// UnsupportedActionError reports an action kind the reducer does not
// recognize. It signals a defect at the dispatching call site rather than a
// recoverable runtime condition; the controller propagates it untouched.
type UnsupportedActionError struct {
	Kind ActionKind
}

// Error returns the error message, naming the unrecognized kind.
func (e *UnsupportedActionError) Error() string {
	return fmt.Sprintf("unsupported action kind: %s", e.Kind)
}

// DefaultReducer implements the standard toggle semantics: KindToggle flips
// On, KindReset returns the action's carried initial state verbatim. Any
// other kind fails with an UnsupportedActionError.
func DefaultReducer(state State, action Action) (State, error) {
	switch action.Kind {
	case KindToggle:
		return State{On: !state.On}, nil
	case KindReset:
		return action.Initial, nil
	default:
		return State{}, &UnsupportedActionError{Kind: action.Kind}
	}
}
