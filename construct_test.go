// construct_test.go: verification of constructors, fluent API, and copy-on-write.
package xgxcontext

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// helper to extract the concrete type in tests
func asTraced(t *testing.T, e error) *tracedErr {
	t.Helper()
	te, ok := e.(*tracedErr)
	if !ok {
		t.Fatalf("expected *tracedErr, got %T", e)
	}
	return te
}

func TestNew_CapturesRaiseSite(t *testing.T) {
	t.Parallel()

	e := asTraced(t, New("user not found", "user_id", 42))
	if e.code != CodeUnknown {
		t.Fatalf("code: want=%s got=%s", CodeUnknown, e.code)
	}
	if e.Error() != "user not found" {
		t.Fatalf("unknown code must not prefix the message; got %q", e.Error())
	}
	if got := e.Fields()["user_id"]; got != 42 {
		t.Fatalf("user_id field: want=42 got=%v", got)
	}
	frames := resolveFrames(e.StackTrace())
	if len(frames) == 0 || !strings.HasSuffix(frames[0].Function, "TestNew_CapturesRaiseSite") {
		t.Fatalf("expected the stack to start at the test; got %+v", frames)
	}
}

func TestErrorf_WrapsVerbCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk full")
	e := Errorf("saving %s: %w", "report", cause)
	if e.Error() != "saving report: disk full" {
		t.Fatalf("message: got %q", e.Error())
	}
	if !errors.Is(e, cause) {
		t.Fatalf("expected errors.Is to reach the %%w cause")
	}
	if len(e.StackTrace()) == 0 {
		t.Fatalf("Errorf must capture a stack")
	}

	plain := asTraced(t, Errorf("no cause %d", 1))
	if plain.cause != nil {
		t.Fatalf("expected nil cause without %%w; got %v", plain.cause)
	}
}

func TestFluent_CopyOnWrite(t *testing.T) {
	t.Parallel()

	base := New("base", "a", 1)
	withB := base.With("b", 2)
	coded := withB.Code("custom")

	if _, ok := base.Fields()["b"]; ok {
		t.Fatalf("With mutated the receiver")
	}
	if withB.CodeVal() != CodeUnknown {
		t.Fatalf("Code mutated the receiver: %s", withB.CodeVal())
	}
	if coded.CodeVal() != "custom" || coded.Error() != "custom: base" {
		t.Fatalf("unexpected coded error: %s %q", coded.CodeVal(), coded.Error())
	}
	if got := coded.Fields(); got["a"] != 1 || got["b"] != 2 {
		t.Fatalf("fields not carried over: %v", got)
	}

	// Fields returns a copy.
	m := coded.Fields()
	m["a"] = "changed"
	if coded.Fields()["a"] != 1 {
		t.Fatalf("Fields exposed internal state")
	}

	// The stack is shared by value, not aliased.
	st := coded.StackTrace()
	if len(st) > 0 {
		st[0] = 0
		if coded.StackTrace()[0] == 0 {
			t.Fatalf("StackTrace exposed internal state")
		}
	}
}

func TestError_MessageFallbacks(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  *tracedErr
		want string
	}{
		{"empty", &tracedErr{}, "error"},
		{"code only", &tracedErr{code: CodePanic}, "panic"},
		{"cause message", &tracedErr{cause: errors.New("inner")}, "inner"},
		{"code and cause", &tracedErr{code: CodeInitialization, cause: errors.New("inner")}, "initialization: inner"},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Fatalf("%s: Error() = %q; want %q", tc.name, got, tc.want)
		}
	}
}

func TestLibraryFailures_Classified(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  Error
		code Code
		frag string
	}{
		{errInvalidFramesBack(-1), CodeInvalidArgument, "invalid frames back: -1"},
		{errTooManyFramesBack(9, 4), CodeInvalidArgument, "too many frames back: 9 (stack has 4)"},
		{errInvalidMetaKind("typeA"), CodeInitialization, `unknown meta-data kind "typeA"`},
		{errLevelNotAllowed("loud"), CodeInitialization, `level "loud" is not allowed`},
	}
	for _, tc := range cases {
		if tc.err.CodeVal() != tc.code {
			t.Fatalf("%q: code want=%s got=%s", tc.err, tc.code, tc.err.CodeVal())
		}
		if !strings.Contains(tc.err.Error(), tc.frag) {
			t.Fatalf("%q: missing %q", tc.err, tc.frag)
		}
		if tc.err.StackTrace() != nil {
			t.Fatalf("%q: library failures carry no stack", tc.err)
		}
	}
}

func TestPanicError(t *testing.T) {
	t.Parallel()

	pcs := callers(0)

	e := panicError("kaboom", pcs)
	if !IsPanic(e) || e.Error() != "panic: kaboom" {
		t.Fatalf("unexpected panic error: %q", e)
	}

	cause := fmt.Errorf("wrapped")
	e = panicError(cause, pcs)
	if !errors.Is(e, cause) {
		t.Fatalf("an error panic value must be the cause")
	}
	if e.Error() != "panic: wrapped" {
		t.Fatalf("message should come from the cause; got %q", e.Error())
	}
	if len(e.StackTrace()) != len(pcs) {
		t.Fatalf("panic stack not kept")
	}
}
