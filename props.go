package latch

// Handler is an interaction callback composed by the prop adapters.
type Handler func()

// Props is the interaction property set handed to a rendering collaborator.
// Callers may pre-populate OnActivate and Attrs; the prop adapters compose
// the caller's handler with the internal action and preserve everything
// else untouched.
type Props struct {
	// OnActivate fires when the widget is activated.
	OnActivate Handler

	// Pressed mirrors the controller's effective value. Set by
	// Controller.TogglerProps; passed through unchanged by
	// Controller.ResetterProps.
	Pressed bool

	// Attrs carries arbitrary passthrough attributes.
	Attrs map[string]any
}

// ComposeHandlers returns a handler that invokes each non-nil handler in
// order. Nil entries are tolerated so callers can pass optional handlers
// without guarding.
func ComposeHandlers(handlers ...Handler) Handler {
	return func() {
		for _, h := range handlers {
			if h != nil {
				h()
			}
		}
	}
}
