// typed_field.go: optional, type-safe access to error fields and recorded
// values.
//
// Overview
//   TypedField reads and writes one error field with a fixed Go type. It
//   complements the plain With(key, any) API and can be mixed with it.
//   ValuesOf pulls the recorded context values of one Go type out of a
//   CallStack, so reporters need no type switches.
//
// Usage
//   var FRequestID = xgxcontext.Field[string]("request_id")
//
//   err := FRequestID.Set(xgxcontext.New("lookup failed"), "r-42")
//   id, ok := FRequestID.Get(fmt.Errorf("handler: %w", err)) // "r-42", true
//
// Caveats
//   • The stored dynamic type MUST match T exactly; no conversions are made.
//   • Get searches the whole error chain and returns the outermost match.
package xgxcontext

import "fmt"

// TypedField is a type-safe view of one error field.
type TypedField[T any] struct {
	key string
}

// Field constructs a TypedField[T] for key. Keys SHOULD be snake_case.
func Field[T any](key string) TypedField[T] {
	return TypedField[T]{key: key}
}

// Key returns the underlying string key.
func (f TypedField[T]) Key() string { return f.key }

// Set attaches key=val to e and returns a NEW Error. A nil e becomes a bare
// error carrying the field, without a stack.
func (f TypedField[T]) Set(e Error, val T) Error {
	if e == nil {
		e = &tracedErr{code: CodeUnknown, flds: emptyFields}
	}
	return e.With(f.key, any(val))
}

// Get returns the value of the field from the outermost error in err's chain
// that carries it with dynamic type T.
func (f TypedField[T]) Get(err error) (T, bool) {
	var (
		out   T
		found bool
	)
	walk(err, func(e error, _ int) bool {
		fe, ok := e.(interface{ Fields() map[string]any })
		if !ok {
			return true
		}
		v, ok := fe.Fields()[f.key]
		if !ok {
			return true
		}
		if tv, ok := v.(T); ok {
			out, found = tv, true
			return false
		}
		return true
	})
	return out, found
}

// MustGet is Get that panics when the field is missing or has another type.
// It is meant for tests and for code where absence is a programming error.
func (f TypedField[T]) MustGet(err error) T {
	v, ok := f.Get(err)
	if !ok {
		var zero T
		panic(fmt.Errorf("xgxcontext.TypedField[%T](%q): field missing or of another type", zero, f.key))
	}
	return v
}

// ValuesOf returns the recorded context values of dynamic type T in cs, in
// cs's presentation order.
func ValuesOf[T any](cs CallStack) []T {
	var out []T
	for _, m := range cs.Meta(MetaContext) {
		if v, ok := m.(ContextMeta).Value.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
