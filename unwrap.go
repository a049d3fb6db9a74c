// unwrap.go: walking error chains for traces and identities.
//
// Design notes:
//   - errors.Join returns an error with Unwrap() []error; errors.Unwrap only
//     calls Unwrap() error, so traversal must handle BOTH forms.
//   - map[error] cannot be a blanket "seen" set: interface values whose
//     dynamic value is not comparable panic as map keys. We use a dual guard:
//       • seenErr (map[error]struct{})  : only for comparable dynamics
//       • seenPtr (map[uintptr]struct{}): pointer identity otherwise
//   - The same identity rules key remembered Contexts in session.go.
package xgxcontext

import "reflect"

type singleUnwrapper interface{ Unwrap() error }
type multiUnwrapper interface{ Unwrap() []error }

// ptrID returns a pointer identity for pointer-typed dynamic errors.
func ptrID(err error) (uintptr, bool) {
	rv := reflect.ValueOf(err)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		return rv.Pointer(), true
	}
	return 0, false
}

// errKey returns a map key identifying err, or false when err has no usable
// identity (a non-comparable, non-pointer value). Comparability is checked on
// the dynamic value: a struct type is comparable even when one of its
// interface fields holds a slice-backed error, and hashing that panics.
func errKey(err error) (any, bool) {
	if err == nil {
		return nil, false
	}
	if reflect.ValueOf(err).Comparable() {
		return err, true
	}
	if id, ok := ptrID(err); ok {
		return id, true
	}
	return nil, false
}

// markSeen returns true if err was newly marked; false if already seen.
// Errors with no identity are always "new" (bounded by the depth cap).
func markSeen(err error, seen map[any]struct{}) bool {
	key, ok := errKey(err)
	if !ok {
		return true
	}
	if _, dup := seen[key]; dup {
		return false
	}
	seen[key] = struct{}{}
	return true
}

// walk visits each distinct node of err's graph depth-first in pre-order,
// passing its depth (root = 0). It stops early when visit returns false and
// is safe on cycles.
func walk(err error, visit func(e error, depth int) bool) {
	if err == nil {
		return
	}
	const maxDepth = 1 << 12
	type node struct {
		e     error
		depth int
	}

	stack := []node{{e: err}}
	seen := make(map[any]struct{}, 8)
	markSeen(err, seen)

	for len(stack) > 0 && len(stack) < maxDepth {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !visit(cur.e, cur.depth) {
			return
		}

		switch u := cur.e.(type) {
		case multiUnwrapper:
			kids := u.Unwrap()
			for i := len(kids) - 1; i >= 0; i-- {
				if kids[i] != nil && markSeen(kids[i], seen) {
					stack = append(stack, node{e: kids[i], depth: cur.depth + 1})
				}
			}
		case singleUnwrapper:
			if c := u.Unwrap(); c != nil && markSeen(c, seen) {
				stack = append(stack, node{e: c, depth: cur.depth + 1})
			}
		}
	}
}

// traceOf returns the program counters of the deepest error in err's chain
// that carries a non-empty stack, or nil.
func traceOf(err error) []uintptr {
	var (
		best      []uintptr
		bestDepth = -1
	)
	walk(err, func(e error, depth int) bool {
		if st, ok := e.(StackTracer); ok && depth > bestDepth {
			if pcs := st.StackTrace(); len(pcs) > 0 {
				best, bestDepth = pcs, depth
			}
		}
		return true
	})
	return best
}

// rawTraceOf returns the host trace of the deepest RawTracer in err's chain.
func rawTraceOf(err error) (file string, line int, frames []RawFrame, ok bool) {
	bestDepth := -1
	walk(err, func(e error, depth int) bool {
		if rt, is := e.(RawTracer); is && depth > bestDepth {
			file, line, frames = rt.RawStackTrace()
			bestDepth, ok = depth, true
		}
		return true
	})
	return file, line, frames, ok
}
