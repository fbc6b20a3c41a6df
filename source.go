package latch

import "sync"

// Source supplies the externally owned value for a controlled controller.
// The controller consults the source on every evaluation; implementations
// must report current presence rather than a cached first read. Returning
// ok == false means the value is absent and the controller resolves as
// uncontrolled for that evaluation. An explicit false value with ok == true
// counts as present.
type Source interface {
	Value() (value bool, ok bool)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func() (bool, bool)

// Value implements Source.
func (f SourceFunc) Value() (bool, bool) {
	return f()
}

// Var is a settable Source. Useful for testing and for harnesses that own
// the controlled value directly.
type Var struct {
	mu      sync.RWMutex
	value   bool
	present bool
}

// NewVar returns a Var holding the given value, marked present.
func NewVar(value bool) *Var {
	return &Var{value: value, present: true}
}

// Set stores a value and marks it present.
func (v *Var) Set(value bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.value = value
	v.present = true
}

// Clear marks the value absent, releasing the controller to uncontrolled
// mode on its next evaluation.
func (v *Var) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.present = false
}

// Value implements Source.
func (v *Var) Value() (bool, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.value, v.present
}
