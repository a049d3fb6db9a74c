// stack_test.go: verification of stack capture semantics.
package xgxcontext

import (
	"runtime"
	"strings"
	"testing"
)

// --- Helpers to build a known call chain -------------------------------------

//go:noinline
func stackTestLevel2(skip int) []uintptr {
	// With skip=0 the first recorded frame is this function.
	return callers(skip)
}

//go:noinline
func stackTestLevel1(skip int) []uintptr {
	// With skip=1 the first recorded frame is this function.
	return stackTestLevel2(skip)
}

//go:noinline
func recurse(n int) []uintptr {
	if n == 0 {
		return callers(0)
	}
	return recurse(n - 1)
}

//go:noinline
func panicSite() {
	panic("panic site")
}

func capturedPanic(fn func()) (pcs []uintptr) {
	defer func() {
		if r := recover(); r != nil {
			pcs = panicCallers()
		}
	}()
	fn()
	return nil
}

// --- Tests -------------------------------------------------------------------

func TestCallers_SkipSkipsCorrectFrames(t *testing.T) {
	t.Parallel()

	s0 := resolveFrames(stackTestLevel1(0))
	if len(s0) == 0 {
		t.Fatalf("got empty stack for skip=0")
	}
	if !strings.HasSuffix(s0[0].Function, "stackTestLevel2") {
		t.Fatalf("expected first frame to be stackTestLevel2; got %q", s0[0].Function)
	}

	s1 := resolveFrames(stackTestLevel1(1))
	if !strings.HasSuffix(s1[0].Function, "stackTestLevel1") {
		t.Fatalf("expected first frame to be stackTestLevel1; got %q", s1[0].Function)
	}
}

func TestCallers_CapturesDeepStacksWhole(t *testing.T) {
	t.Parallel()

	const depth = 3 * initialDepth
	frames := resolveFrames(recurse(depth))
	n := 0
	for _, fr := range frames {
		if strings.HasSuffix(fr.Function, ".recurse") {
			n++
		}
	}
	if n != depth+1 {
		t.Fatalf("expected %d recurse frames; got %d", depth+1, n)
	}
	if last := frames[len(frames)-1].Function; last != "runtime.goexit" {
		t.Fatalf("expected the outermost frame to be runtime.goexit; got %q", last)
	}
}

func TestCallers_EmptyWhenSkippingEverything(t *testing.T) {
	t.Parallel()

	if pcs := callers(1 << 20); len(pcs) != 0 {
		t.Fatalf("expected no frames; got %d", len(pcs))
	}
	if frames := resolveFrames(nil); frames != nil {
		t.Fatalf("expected nil frames for no pcs; got %d", len(frames))
	}
}

func TestResolveFrames_MetadataPresence(t *testing.T) {
	t.Parallel()

	frames := resolveFrames(stackTestLevel1(0))
	for i, fr := range frames[:min(len(frames), 5)] {
		if fr.PC == 0 {
			t.Fatalf("frame %d has zero PC", i)
		}
		if fr.Function == "" || fr.File == "" {
			t.Fatalf("frame %d has empty Function or File: %+v", i, fr)
		}
		if fr.Line <= 0 {
			t.Fatalf("frame %d has non-positive Line: %d", i, fr.Line)
		}
	}
}

func TestPanicCallers_StartsAtPanicSite(t *testing.T) {
	t.Parallel()

	frames := resolveFrames(capturedPanic(panicSite))
	if len(frames) == 0 {
		t.Fatalf("empty panic stack")
	}
	if !strings.HasSuffix(frames[0].Function, "panicSite") {
		t.Fatalf("expected first frame to be panicSite; got %q", frames[0].Function)
	}
	for _, fr := range frames {
		if fr.Function == "runtime.gopanic" {
			t.Fatalf("runtime.gopanic should be trimmed")
		}
	}
}

func TestFuncName(t *testing.T) {
	t.Parallel()

	pcs := stackTestLevel1(0)
	if name := funcName(pcs[0]); !strings.HasSuffix(name, "stackTestLevel2") {
		t.Fatalf("funcName = %q", name)
	}
	if name := funcName(1); name != "" {
		t.Fatalf("expected empty name for a bogus pc; got %q", name)
	}

	var want runtime.Frame
	want, _ = runtime.CallersFrames(pcs[:1]).Next()
	if funcName(pcs[0]) != want.Function {
		t.Fatalf("funcName disagrees with CallersFrames: %q vs %q", funcName(pcs[0]), want.Function)
	}
}
