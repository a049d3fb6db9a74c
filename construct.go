// construct.go: the concrete error type and its constructors.
//
// Scope:
//   - One concrete type, tracedErr, implementing Error with NON-MUTATING
//     fluent methods.
//   - Traced constructors (New, Errorf) that capture the raise site, so
//     errors raised by application code can be annotated by a Context.
//   - The library's own failures (invalid frames back, unknown meta kind,
//     level not allowed). These are classifications only and capture no
//     stack.
//
// Notes:
//   - Copy-on-write everywhere: each fluent method returns a fresh value.
//   - Fields use the []KV representation from fields.go.
//   - Program counters come from stack.go and are resolved on demand.
package xgxcontext

import (
	"errors"
	"fmt"
	"strings"
)

// tracedErr is the concrete Error.
type tracedErr struct {
	msg   string
	code  Code
	flds  fields
	cause error
	pcs   []uintptr
}

func (e *tracedErr) Error() string {
	msg := e.msg
	if msg == "" && e.cause != nil {
		msg = e.cause.Error()
	}
	if e.code == "" || e.code == CodeUnknown {
		if msg == "" {
			return "error"
		}
		return msg
	}
	if msg == "" {
		return string(e.code)
	}
	return fmt.Sprintf("%s: %s", e.code, msg)
}

func (e *tracedErr) Unwrap() error          { return e.cause }
func (e *tracedErr) CodeVal() Code          { return e.code }
func (e *tracedErr) Fields() map[string]any { return fieldsToMap(e.flds) }
func (e *tracedErr) StackTrace() []uintptr  { return append([]uintptr(nil), e.pcs...) }

func (e *tracedErr) With(key string, val any) Error {
	n := e.clone()
	n.flds = fieldsAppend(n.flds, KV{Key: key, Val: val})
	return n
}

func (e *tracedErr) Code(c Code) Error {
	n := e.clone()
	n.code = c
	return n
}

func (e *tracedErr) clone() *tracedErr {
	n := *e
	n.flds = fieldsAppend(e.flds)
	return &n
}

var (
	_ Error       = (*tracedErr)(nil)
	_ StackTracer = (*tracedErr)(nil)
)

// New returns an error raised at the caller's position, with optional
// key-value fields.
//
// Example:
//
//	return xgxcontext.New("user not found", "user_id", id)
func New(msg string, kv ...any) Error {
	return &tracedErr{
		msg:  msg,
		code: CodeUnknown,
		flds: fieldsFromKV(kv...),
		pcs:  callers(1),
	}
}

// Errorf is New with a formatted message. A %w verb makes the wrapped error
// the cause.
func Errorf(format string, args ...any) Error {
	wrapped := fmt.Errorf(format, args...)
	return &tracedErr{
		msg:   wrapped.Error(),
		code:  CodeUnknown,
		flds:  emptyFields,
		cause: errors.Unwrap(wrapped),
		pcs:   callers(1),
	}
}

// -----------------------------------------------------------------------------
// Library failures
// -----------------------------------------------------------------------------

func errInvalidFramesBack(framesBack int) Error {
	return &tracedErr{
		msg:  fmt.Sprintf("invalid frames back: %d", framesBack),
		code: CodeInvalidArgument,
		flds: fieldsFromKV("frames_back", framesBack),
	}
}

func errTooManyFramesBack(framesBack, available int) Error {
	return &tracedErr{
		msg:  fmt.Sprintf("too many frames back: %d (stack has %d)", framesBack, available),
		code: CodeInvalidArgument,
		flds: fieldsFromKV("frames_back", framesBack, "available", available),
	}
}

func errInvalidMetaKind(kind string) Error {
	return &tracedErr{
		msg:  fmt.Sprintf("unknown meta-data kind %q", kind),
		code: CodeInitialization,
		flds: fieldsFromKV("kind", kind),
	}
}

func errLevelNotAllowed(level string) Error {
	names := make([]string, len(allLevels))
	for i, l := range allLevels {
		names[i] = string(l)
	}
	return &tracedErr{
		msg:  fmt.Sprintf("level %q is not allowed, use one of: %s", level, strings.Join(names, ", ")),
		code: CodeInitialization,
		flds: fieldsFromKV("level", level),
	}
}

// panicError converts a recovered panic value into an error carrying the
// panic site's stack.
func panicError(r any, pcs []uintptr) Error {
	var cause error
	msg := fmt.Sprint(r)
	if err, ok := r.(error); ok {
		cause = err
		msg = ""
	}
	return &tracedErr{
		msg:   msg,
		code:  CodePanic,
		flds:  fieldsFromKV("panic", r),
		cause: cause,
		pcs:   pcs,
	}
}
