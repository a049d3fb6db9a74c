// context.go: the user-facing Context aggregate.
//
// A Context pairs an error (or a chosen point in execution) with the
// annotated CallStack built from the Session's store, plus the settings a
// reporter needs: channels, level, report and rethrow decisions, a default
// return value and trace identifiers. The CallStack is built once, when the
// Context is created, and never changes; the settings have fluent setters.
//
// A Context is not safe for concurrent mutation.
package xgxcontext

import (
	"maps"
	"slices"
)

// Source tells how a Context was created.
type Source string

const (
	SourceHere  Source = "here"
	SourceError Source = "error"
)

// Context is an annotated snapshot of the call stack.
type Context struct {
	source   Source
	err      error
	catcher  Identifier
	traceIDs map[string]any

	callStack CallStack
	known     []string
	knownSet  []string
	isSet     bool
	worth     bool

	channels []string
	level    Level
	report   bool
	rethrow  rethrowPolicy
	def      any
}

// rethrowPolicy is one of: a flag, a replacement error or a decision func.
type rethrowPolicy struct {
	flag bool
	err  error
	fn   func(error) bool
}

// Source reports how the Context was created.
func (c *Context) Source() Source { return c.source }

// Err returns the Context's error, or nil for a Context built from a live
// stack.
func (c *Context) Err() error { return c.err }

// CatcherID returns the identifier of the call that caught the error, or
// NoID.
func (c *Context) CatcherID() Identifier { return c.catcher }

// CallStack returns the annotated stack, oldest frame first.
func (c *Context) CallStack() CallStack { return c.callStack }

// StackTrace returns the annotated stack innermost first.
func (c *Context) StackTrace() CallStack { return c.callStack.Reverse() }

// WorthReporting reports whether the stack carries more than the bare
// raise site and last application frame.
func (c *Context) WorthReporting() bool { return c.worth }

// KnownIssues returns the known-issue tags: those set explicitly, otherwise
// those given to the calls on the stack.
func (c *Context) KnownIssues() []string {
	if c.isSet {
		return slices.Clone(c.knownSet)
	}
	return slices.Clone(c.known)
}

// HasKnownIssues reports whether KnownIssues is non-empty.
func (c *Context) HasKnownIssues() bool { return len(c.KnownIssues()) > 0 }

// SetKnown replaces the known-issue tags. Empty and duplicate tags are
// dropped.
func (c *Context) SetKnown(issues ...string) *Context {
	c.knownSet = normalizeStrings(issues...)
	c.isSet = true
	return c
}

// TraceIdentifiers returns a copy of the trace identifiers.
func (c *Context) TraceIdentifiers() map[string]any { return maps.Clone(c.traceIDs) }

// SetTraceIdentifiers replaces the trace identifiers.
func (c *Context) SetTraceIdentifiers(ids map[string]any) *Context {
	c.traceIDs = maps.Clone(ids)
	return c
}

// Channels returns the channels to report to.
func (c *Context) Channels() []string { return slices.Clone(c.channels) }

// SetChannels replaces the channels. Empty and duplicate names are dropped.
func (c *Context) SetChannels(channels ...string) *Context {
	c.channels = normalizeStrings(channels...)
	return c
}

// Level returns the reporting level; LevelNone leaves the choice to the
// reporter.
func (c *Context) Level() Level { return c.level }

// SetLevel sets the reporting level.
func (c *Context) SetLevel(l Level) *Context {
	c.level = l
	return c
}

// Report reports whether the Context should be reported.
func (c *Context) Report() bool { return c.report }

// SetReport sets the report flag.
func (c *Context) SetReport(report bool) *Context {
	c.report = report
	return c
}

// DontReport is SetReport(false).
func (c *Context) DontReport() *Context { return c.SetReport(false) }

// Rethrow reports whether a rethrow is configured: a true flag, a
// replacement error or a decision func.
func (c *Context) Rethrow() bool {
	return c.rethrow.flag || c.rethrow.err != nil || c.rethrow.fn != nil
}

// SetRethrow sets a plain rethrow flag.
func (c *Context) SetRethrow(rethrow bool) *Context {
	c.rethrow = rethrowPolicy{flag: rethrow}
	return c
}

// SetRethrowError makes ResolveRethrow return err instead of the Context's
// own error.
func (c *Context) SetRethrowError(err error) *Context {
	c.rethrow = rethrowPolicy{err: err}
	return c
}

// SetRethrowFunc lets fn decide, given the Context's error, whether it is
// rethrown.
func (c *Context) SetRethrowFunc(fn func(error) bool) *Context {
	c.rethrow = rethrowPolicy{fn: fn}
	return c
}

// DontRethrow is SetRethrow(false).
func (c *Context) DontRethrow() *Context { return c.SetRethrow(false) }

// Suppress turns off both reporting and rethrowing.
func (c *Context) Suppress() *Context { return c.DontReport().DontRethrow() }

// ResolveRethrow returns the error a caller should propagate, or nil.
func (c *Context) ResolveRethrow() error {
	switch {
	case c.rethrow.err != nil:
		return c.rethrow.err
	case c.rethrow.fn != nil:
		if c.rethrow.fn(c.err) {
			return c.err
		}
		return nil
	case c.rethrow.flag:
		return c.err
	}
	return nil
}

// Default returns the value a caller should fall back to when the error is
// swallowed.
func (c *Context) Default() any { return c.def }

// SetDefault sets the fallback value.
func (c *Context) SetDefault(v any) *Context {
	c.def = v
	return c
}

// normalizeStrings drops empty strings and duplicates, keeping first-seen
// order.
func normalizeStrings(in ...string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s != "" && !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}
