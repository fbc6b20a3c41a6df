package latch

import "github.com/zoobzio/capitan"

// Field keys for Controller events.
var (
	// KeyController is the configured name of the controller.
	KeyController = capitan.NewStringKey("controller")

	// KeyAction is the kind of the dispatched action.
	KeyAction = capitan.NewStringKey("action")

	// KeyMode is the mode resolved for the evaluation.
	KeyMode = capitan.NewStringKey("mode")

	// KeyOn is the internal On value after a mutation.
	KeyOn = capitan.NewStringKey("on")

	// KeySuggested is the suggested On value delivered to the callback.
	KeySuggested = capitan.NewStringKey("suggested")

	// KeyMessage is the human-readable warning message.
	KeyMessage = capitan.NewStringKey("message")

	// KeyError is the error message when a dispatch fails.
	KeyError = capitan.NewStringKey("error")
)
