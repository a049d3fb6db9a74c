// unwrap_test.go: verification of chain walking, trace lookup and error keys.
package xgxcontext

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// ---------- helpers -----------------------------------------------------------

type leafErr struct{ s string }

func (e leafErr) Error() string { return e.s }

// pointer-typed single wrapper (good for cycles & identity checks)
type wrap1 struct{ cause error }

func (w *wrap1) Error() string { return "single:" + w.cause.Error() }
func (w *wrap1) Unwrap() error { return w.cause }

// a StackTracer that reports an empty stack
type emptyTracer struct{ cause error }

func (e *emptyTracer) Error() string         { return "empty" }
func (e *emptyTracer) Unwrap() error         { return e.cause }
func (e *emptyTracer) StackTrace() []uintptr { return nil }

// value-typed wrapper: its type is comparable, its dynamic value may not be
type valueWrap struct{ inner error }

func (w valueWrap) Error() string { return "value:" + w.inner.Error() }
func (w valueWrap) Unwrap() error { return w.inner }

// build a single-unwrap chain of length n ending at leaf
func makeChain(n int, leaf error) error {
	e := leaf
	for i := 0; i < n; i++ {
		e = &wrap1{cause: e}
	}
	return e
}

// deep nested join to exceed typical stack depths; uses stdlib errors.Join
func makeDeepJoin(n int) error {
	if n <= 1 {
		return errors.New("L1")
	}
	return errors.Join(makeDeepJoin(n-1), fmt.Errorf("R%d", n))
}

// ---------- tests: walk -------------------------------------------------------

func TestWalk_NilIsNoop(t *testing.T) {
	t.Parallel()

	called := false
	walk(nil, func(error, int) bool { called = true; return true })
	if called {
		t.Fatalf("walk(nil) must not call visit")
	}
}

func TestWalk_VisitsAllNodesPreOrderWithDepth(t *testing.T) {
	t.Parallel()

	a, b := leafErr{"a"}, leafErr{"b"}
	root := &wrap1{cause: errors.Join(a, &wrap1{cause: b})}

	var got []string
	walk(root, func(e error, depth int) bool {
		got = append(got, fmt.Sprintf("%d:%T", depth, e))
		return true
	})
	want := []string{"0:*xgxcontext.wrap1", "1:*errors.joinError", "2:xgxcontext.leafErr", "2:*xgxcontext.wrap1", "3:xgxcontext.leafErr"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("walk order:\nwant=%v\ngot=%v", want, got)
	}
}

func TestWalk_StopsEarlyWhenCallbackReturnsFalse(t *testing.T) {
	t.Parallel()

	n := 0
	walk(makeChain(10, leafErr{"x"}), func(error, int) bool {
		n++
		return n < 3
	})
	if n != 3 {
		t.Fatalf("expected 3 visits; got %d", n)
	}
}

func TestWalk_HandlesCycles_NoInfiniteLoop(t *testing.T) {
	t.Parallel()

	a := &wrap1{}
	b := &wrap1{cause: a}
	a.cause = b

	n := 0
	walk(a, func(error, int) bool { n++; return true })
	if n != 2 {
		t.Fatalf("expected each node once; got %d visits", n)
	}
}

func TestWalk_DeeplyNestedJoinDoesNotPanic(t *testing.T) {
	t.Parallel()

	n := 0
	walk(makeDeepJoin(200), func(error, int) bool { n++; return true })
	if n == 0 {
		t.Fatalf("expected visits")
	}
}

// ---------- tests: traceOf / rawTraceOf ---------------------------------------

func TestTraceOf_DeepestNonEmptyWins(t *testing.T) {
	t.Parallel()

	if traceOf(nil) != nil || traceOf(errors.New("x")) != nil {
		t.Fatalf("errors without a stack have no trace")
	}

	inner := raiseOneDeeper()
	outer := &emptyTracer{cause: makeChain(3, inner)}
	frames := resolveFrames(traceOf(&tracedErr{cause: outer, pcs: callers(0)}))
	if !strings.HasSuffix(frames[0].Function, "raiseOneDeeper") {
		t.Fatalf("deepest trace should win; got %q", frames[0].Function)
	}

	if got := traceOf(&emptyTracer{}); got != nil {
		t.Fatalf("an empty StackTracer has no trace; got %d pcs", len(got))
	}
}

func TestRawTraceOf(t *testing.T) {
	t.Parallel()

	if _, _, _, ok := rawTraceOf(errors.New("x")); ok {
		t.Fatalf("plain error has no raw trace")
	}
	host := &hostError{file: "/a.php", line: 3}
	file, line, _, ok := rawTraceOf(fmt.Errorf("ctx: %w", host))
	if !ok || file != "/a.php" || line != 3 {
		t.Fatalf("rawTraceOf = %q %d %v", file, line, ok)
	}
}

// ---------- tests: errKey -----------------------------------------------------

func TestErrKey(t *testing.T) {
	t.Parallel()

	if _, ok := errKey(nil); ok {
		t.Fatalf("nil has no key")
	}

	p := &wrap1{cause: leafErr{"x"}}
	k1, ok1 := errKey(p)
	k2, ok2 := errKey(p)
	if !ok1 || !ok2 || k1 != k2 {
		t.Fatalf("pointer errors must key stably")
	}

	if k, ok := errKey(leafErr{"x"}); !ok || k != any(error(leafErr{"x"})) {
		t.Fatalf("comparable values key by value; got %v %v", k, ok)
	}

	if _, ok := errKey(sliceErr{"a"}); ok {
		t.Fatalf("non-comparable values have no key")
	}

	if _, ok := errKey(valueWrap{inner: sliceErr{"a"}}); ok {
		t.Fatalf("a comparable type holding a non-comparable error has no key")
	}
	if k, ok := errKey(valueWrap{inner: leafErr{"x"}}); !ok || k != any(error(valueWrap{inner: leafErr{"x"}})) {
		t.Fatalf("fully comparable value wrappers key by value; got %v %v", k, ok)
	}
}

func TestWalk_ValueWrapperOverUnhashable(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("outer: %w", valueWrap{inner: sliceErr{"a", "b"}})
	var seen int
	walk(err, func(error, int) bool { seen++; return true })
	if seen != 3 {
		t.Fatalf("walk visited %d nodes; want 3", seen)
	}
}
