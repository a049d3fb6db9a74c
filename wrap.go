// wrap.go: wrappers that operate on arbitrary errors.
//
// Purpose
//   - Give any error a raise site, so a Context can be built from it.
//   - Preserve interop with errors.Is/As through Unwrap.
//
// Stack policy
//   - WithStack always captures at the caller.
//   - Wrap captures only when nothing in err's chain carries a stack yet;
//     the innermost trace is the one a Context uses.
package xgxcontext

// From converts any error into an Error without capturing a stack.
//   - nil → nil
//   - Error → returned as-is
//   - other error → wrapped with CodeUnknown
func From(err error) Error {
	if err == nil {
		return nil
	}
	if xe, ok := err.(Error); ok {
		return xe
	}
	return &tracedErr{code: CodeUnknown, flds: emptyFields, cause: err}
}

// Wrap adds a message and optional key-values to err. A stack is captured at
// the caller when err's chain has none. Wrap(nil, ...) returns nil.
func Wrap(err error, msg string, kv ...any) Error {
	if err == nil {
		return nil
	}
	e := &tracedErr{
		msg:   msg,
		code:  CodeUnknown,
		flds:  fieldsFromKV(kv...),
		cause: err,
	}
	if traceOf(err) == nil {
		e.pcs = callers(1)
	}
	if c := CodeOf(err); c != "" {
		e.code = c
	}
	return e
}

// WithStack records the caller as err's raise site. WithStack(nil) returns
// nil.
func WithStack(err error) Error {
	if err == nil {
		return nil
	}
	return &tracedErr{
		code:  CodeOf(err),
		flds:  emptyFields,
		cause: err,
		pcs:   callers(1),
	}
}
