// normalize.go: turning introspected stacks into comparable snapshots.
//
// Two input shapes are supported:
//   - Go runtime frames (from runtime.Callers), which already record the
//     position inside each function. Only the function name is parsed.
//   - Host frames (RawFrame), which record the call site that *invoked* each
//     function. They are shifted by one position, args are stripped and
//     objects become small integer identities.
//
// Both produce []FrameDescriptor ordered oldest first: index 0 is the
// outermost call, the last index is the innermost.
//
// Known limitation: Go frames carry no receiver identity, so two invocations
// on one line of the same function, method or closure look identical. Host
// frames can tell object instances apart but not two closures or static calls
// on one line. Neither case is resolved here.
package xgxcontext

import (
	"reflect"
	"runtime"
	"strings"
)

// stepBack drops the framesBack innermost records of trace (innermost first).
func stepBack[T any](trace []T, framesBack int) ([]T, error) {
	if framesBack < 0 {
		return nil, errInvalidFramesBack(framesBack)
	}
	if framesBack >= len(trace) {
		return nil, errTooManyFramesBack(framesBack, len(trace))
	}
	return trace[framesBack:], nil
}

// identityTable maps live object references to small integer identities.
// Keys are addresses, so the table never keeps an object alive; an address
// reused after collection maps to the same id, like any runtime object id.
type identityTable struct {
	ids  map[uintptr]int
	next int
}

// of returns obj's identity, or 0 when obj has none (nil or a non-reference
// value).
func (t *identityTable) of(obj any) int {
	if obj == nil {
		return 0
	}
	rv := reflect.ValueOf(obj)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer, reflect.Slice:
		if rv.IsNil() {
			return 0
		}
	default:
		return 0
	}
	p := rv.Pointer()
	if t.ids == nil {
		t.ids = make(map[uintptr]int)
	}
	if id, ok := t.ids[p]; ok {
		return id
	}
	t.next++
	t.ids[p] = t.next
	return t.next
}

// normalizeRaw shifts host frames by one position so each records where it
// currently is, appends a TopFunction frame holding the outermost record's
// location, drops leading frames with no location and reverses the result,
// which leaves TopFunction at index 0.
//
// file and line seed the shift and land on the innermost frame; pass "" and 0
// for a live host stack, or the raise site for an error trace.
func normalizeRaw(file string, line int, raw []RawFrame, ids *identityTable) []FrameDescriptor {
	out := make([]FrameDescriptor, 0, len(raw)+1)
	for _, fr := range raw {
		out = append(out, FrameDescriptor{
			File:     file,
			Line:     line,
			Function: fr.Function,
			Class:    fr.Class,
			CallType: fr.Type,
			ObjectID: ids.of(fr.Object),
		})
		file, line = fr.File, fr.Line
	}
	out = append(out, FrameDescriptor{File: file, Line: line, Function: TopFunction})

	for len(out) > 0 && (out[0].File == "" || out[0].Line == 0) {
		out = out[1:]
	}
	reverse(out)
	return out
}

// normalizeRuntime converts runtime frames (innermost first) into
// descriptors (oldest first).
func normalizeRuntime(frames []runtime.Frame) []FrameDescriptor {
	out := make([]FrameDescriptor, 0, len(frames))
	for _, fr := range frames {
		if fr.Function == "" && fr.File == "" {
			continue
		}
		class, callType := splitReceiver(fr.Function)
		out = append(out, FrameDescriptor{
			File:     fr.File,
			Line:     fr.Line,
			Function: fr.Function,
			Class:    class,
			CallType: callType,
		})
	}
	reverse(out)
	return out
}

// normalizePCs resolves and normalizes program counters (innermost first).
func normalizePCs(pcs []uintptr) []FrameDescriptor {
	return normalizeRuntime(resolveFrames(pcs))
}

// splitReceiver extracts the receiver type from a fully qualified Go
// function name:
//
//	example.com/pkg.(*T).M        → "example.com/pkg.T", "->"
//	example.com/pkg.T.M           → "example.com/pkg.T", "->"
//	example.com/pkg.(*T).M.func1  → "example.com/pkg.T", "->"
//	example.com/pkg.F.func1       → "", ""
//	example.com/pkg.F             → "", ""
func splitReceiver(fn string) (class, callType string) {
	fn = strings.ReplaceAll(fn, "[...]", "")
	slash := strings.LastIndexByte(fn, '/')
	dot := strings.IndexByte(fn[slash+1:], '.')
	if dot < 0 {
		return "", ""
	}
	pkg := fn[:slash+1+dot]
	name := fn[slash+1+dot+1:]

	if strings.HasPrefix(name, "(*") {
		end := strings.IndexByte(name, ')')
		if end < 0 {
			return "", ""
		}
		return pkg + "." + name[2:end], CallInstance
	}

	recv, rest, ok := strings.Cut(name, ".")
	if !ok || isGeneratedName(rest) || recv == "init" {
		return "", ""
	}
	return pkg + "." + recv, CallInstance
}

// isGeneratedName reports whether the name segment after a function name is
// compiler-generated (closures, go/defer wrappers, package init blocks).
func isGeneratedName(seg string) bool {
	head, _, _ := strings.Cut(seg, ".")
	for _, prefix := range []string{"func", "gowrap", "deferwrap"} {
		if rest, ok := strings.CutPrefix(head, prefix); ok && rest != "" && isDigits(rest) {
			return true
		}
	}
	return isDigits(head)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
