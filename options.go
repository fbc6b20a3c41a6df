package latch

import (
	"context"

	"github.com/zoobzio/pipz"
)

// Option configures the notification pipeline of a Controller. Pipeline
// options wrap the on-change callback with middleware for observation,
// transformation, and retry.
//
// Instance configuration (initial value, reducer, source, sink, etc.) is
// handled via chainable methods on the Controller before calling Start().
type Option func(pipz.Chainable[*Notice]) pipz.Chainable[*Notice]

// callbackID names the terminal pipeline stage that invokes the on-change
// callback.
const callbackID = pipz.Name("on-change")

// buildPipeline wraps a terminal with pipeline options.
func buildPipeline(terminal pipz.Chainable[*Notice], opts []Option) pipz.Chainable[*Notice] {
	pipeline := terminal
	for _, opt := range opts {
		pipeline = opt(pipeline)
	}
	return pipeline
}

// -----------------------------------------------------------------------------
// Pipeline Options - Wrapping (With*)
// -----------------------------------------------------------------------------
// These options wrap the entire notification pipeline.

// WithRetry wraps the pipeline with retry logic.
// Failed notifications are retried immediately up to maxAttempts times.
// Dispatch stays synchronous: retries happen inline, without delays.
func WithRetry(maxAttempts int) Option {
	return func(p pipz.Chainable[*Notice]) pipz.Chainable[*Notice] {
		return pipz.NewRetry("retry", p, maxAttempts)
	}
}

// WithErrorHandler adds error observation to the pipeline.
// Errors are passed to the handler for logging, metrics, or alerting,
// but the error still propagates. Use this for observability, not recovery.
func WithErrorHandler(handler pipz.Chainable[*pipz.Error[*Notice]]) Option {
	return func(p pipz.Chainable[*Notice]) pipz.Chainable[*Notice] {
		return pipz.NewHandle("error-handler", p, handler)
	}
}

// WithMiddleware wraps the pipeline with a sequence of processors.
// Processors execute in order, with the wrapped pipeline (the on-change
// callback) last.
//
// Use the Use* functions to create processors for common patterns, or
// provide custom pipz.Chainable implementations directly.
//
// Example:
//
//	latch.New(
//	    latch.WithMiddleware(
//	        latch.UseEffect("log", logFn),
//	        latch.UseTransform("clamp", clampFn),
//	    ),
//	).OnChange(fn)
func WithMiddleware(processors ...pipz.Chainable[*Notice]) Option {
	return func(p pipz.Chainable[*Notice]) pipz.Chainable[*Notice] {
		all := make([]pipz.Chainable[*Notice], 0, len(processors)+1)
		all = append(all, processors...)
		all = append(all, p)
		return pipz.NewSequence("middleware", all...)
	}
}

// -----------------------------------------------------------------------------
// Middleware Processors - Adapters (Use*)
// -----------------------------------------------------------------------------
// These create processors for use inside WithMiddleware.

// UseTransform creates a processor that transforms the notice.
// Cannot fail. Use for pure reshaping that always succeeds.
func UseTransform(name string, fn func(context.Context, *Notice) *Notice) pipz.Chainable[*Notice] {
	return pipz.Transform(pipz.Name(name), fn)
}

// UseApply creates a processor that can transform the notice and fail.
// A returned error aborts delivery and propagates out of Dispatch.
func UseApply(name string, fn func(context.Context, *Notice) (*Notice, error)) pipz.Chainable[*Notice] {
	return pipz.Apply(pipz.Name(name), fn)
}

// UseEffect creates a processor that performs a side effect.
// The notice passes through unchanged. Use for logging, metrics, or
// bookkeeping that should not affect the suggestion.
func UseEffect(name string, fn func(context.Context, *Notice) error) pipz.Chainable[*Notice] {
	return pipz.Effect(pipz.Name(name), fn)
}

// UseFilter wraps a processor with a condition.
// If the condition returns false, the notice passes through unchanged.
func UseFilter(name string, condition func(context.Context, *Notice) bool, processor pipz.Chainable[*Notice]) pipz.Chainable[*Notice] {
	return pipz.NewFilter(pipz.Name(name), condition, processor)
}
