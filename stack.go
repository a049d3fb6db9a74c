// stack.go: stack capture for traced errors and live snapshots.
//
// Design goals:
//   - Use runtime.Callers + runtime.CallersFrames for frame resolution
//     (handles inlining correctly).
//   - Capture the FULL stack. The store indexes frames by position from the
//     outermost call, so a depth bound would shift every index on deep stacks.
//   - Keep program counters as the stored form; resolve lazily.
//
// Skip model (0 = the function calling callers):
//
//   user code → Session.Record → callers(1) → runtime.Callers
//
// callers adds +2 internally to skip runtime.Callers and itself.
package xgxcontext

import (
	"runtime"
	"strings"
)

// initialDepth is the first PC buffer size; the buffer doubles until the
// whole stack fits.
const initialDepth = 64

// callers returns the program counters of the calling goroutine, innermost
// first, skipping 'skip' frames above the function that called callers.
func callers(skip int) []uintptr {
	pc := make([]uintptr, initialDepth)
	for {
		n := runtime.Callers(skip+2, pc)
		if n < len(pc) {
			return pc[:n:n]
		}
		pc = make([]uintptr, len(pc)*2)
	}
}

// panicCallers must be called from a deferred function that is handling a
// panic. It returns the stack as it was at the panic site: everything up to
// runtime.gopanic and the runtime helpers directly below it is dropped.
func panicCallers() []uintptr {
	pcs := callers(1)
	for i, pc := range pcs {
		if funcName(pc) != "runtime.gopanic" {
			continue
		}
		j := i + 1
		for j < len(pcs) && strings.HasPrefix(funcName(pcs[j]), "runtime.") {
			j++
		}
		return pcs[j:]
	}
	return pcs
}

// funcName names the function containing the call whose return address is pc.
func funcName(pc uintptr) string {
	fn := runtime.FuncForPC(pc - 1)
	if fn == nil {
		return ""
	}
	return fn.Name()
}

// resolveFrames expands pcs into runtime frames, innermost first.
func resolveFrames(pcs []uintptr) []runtime.Frame {
	if len(pcs) == 0 {
		return nil
	}
	frames := runtime.CallersFrames(pcs)
	out := make([]runtime.Frame, 0, len(pcs))
	for {
		fr, more := frames.Next()
		out = append(out, fr)
		if !more {
			break
		}
	}
	return out
}
