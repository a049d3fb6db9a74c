// Package xgxcontext annotates a raised error, or any chosen point in
// execution, with a rebuilt call stack. Calling code records diagnostic values
// against its live frames; when an error surfaces the stored values are
// reconciled against the error's trace and attached to the frames that still
// exist.
//
// Design tenets:
//   - Explicit state: a *Session owns the store for one execution context.
//   - Interop-first: library errors play nicely with errors.Is/As.
//   - Minimal surface: no log delivery in core; adapters live in subpackages.
//   - Immutable output: Frames, Meta and CallStacks never change once returned.
package xgxcontext

// Code classifies library errors into machine-readable categories.
//
// Codes are stringly-typed for stability across serialization boundaries.
type Code string

// Error is the contract for errors produced by this package.
//
// All fluent methods are non-mutating: they return a new Error value
// (copy-on-write) and leave the receiver untouched, so shared error values
// stay safe without synchronization.
type Error interface {
	error

	// With adds a single key-value field. Returns a NEW Error.
	//
	// Example:
	//   err = err.With("frames_back", 3)
	With(key string, val any) Error

	// Code sets or overrides the classification code. Returns a NEW Error.
	Code(Code) Error

	// CodeVal returns the classification code, or "" when unspecified. The
	// getter is named CodeVal to avoid colliding with the Code(Code) setter.
	CodeVal() Code

	// Fields returns a COPY of the error's structured fields as a map.
	Fields() map[string]any

	// StackTrace returns the program counters captured when the error was
	// created, innermost first, or nil when no stack was captured.
	StackTrace() []uintptr

	// Unwrap returns the causal parent error (if any).
	Unwrap() error
}

// StackTracer is implemented by errors that carry the program counters of
// the point where they were raised. Any error in a chain may implement it;
// the deepest one wins when a Context is built.
type StackTracer interface {
	StackTrace() []uintptr
}

// RawTracer is implemented by errors carrying a trace in the host frame
// format (see RawFrame). file and line name the raise site; frames list the
// calls that led there, innermost first.
type RawTracer interface {
	RawStackTrace() (file string, line int, frames []RawFrame)
}
