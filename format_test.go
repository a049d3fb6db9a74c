package xgxcontext

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// containsInOrder reports whether all needles appear in haystack in order.
func containsInOrder(haystack string, needles ...string) bool {
	pos := 0
	for _, n := range needles {
		i := strings.Index(haystack[pos:], n)
		if i < 0 {
			return false
		}
		pos += i + len(n)
	}
	return true
}

func TestErrorFormatting_ConciseAndVerbose(t *testing.T) {
	err := Wrap(errors.New("no such file"), "loading config", "path", "/etc/app.toml", "attempt", 2).
		Code(CodeInitialization)

	concise := fmt.Sprintf("%v", err)
	if concise != "initialization: loading config" {
		t.Fatalf("%%v = %q", concise)
	}
	if s := fmt.Sprintf("%s", err); s != concise {
		t.Fatalf("%%s should match %%v; got %q", s)
	}
	if q := fmt.Sprintf("%q", err); q != `"initialization: loading config"` {
		t.Fatalf("%%q = %s", q)
	}

	verbose := fmt.Sprintf("%+v", err)
	wantFrags := []string{
		"code=initialization",
		`msg="loading config"`,
		"\nfields:",
		" path=/etc/app.toml",
		" attempt=2",
		"\ncause: no such file",
		"\nstack:",
		"TestErrorFormatting_ConciseAndVerbose",
	}
	for _, w := range wantFrags {
		if !strings.Contains(verbose, w) {
			t.Fatalf("%%+v missing %q in:\n%s", w, verbose)
		}
	}
	if !containsInOrder(verbose, "fields:", " path=", " attempt=", "cause:", "stack:") {
		t.Fatalf("verbose sections out of order:\n%s", verbose)
	}
}

func TestErrorFormatting_LibraryFailureHasNoStack(t *testing.T) {
	verbose := fmt.Sprintf("%+v", errInvalidFramesBack(-2))
	if strings.Contains(verbose, "stack:") {
		t.Fatalf("library failures carry no stack:\n%s", verbose)
	}
	if !strings.Contains(verbose, "frames_back=-2") {
		t.Fatalf("missing field:\n%s", verbose)
	}
}

func TestContextFormatting(t *testing.T) {
	s := NewSession(DefaultConfig())
	c, err := s.Call(func() error { return raiseOneDeeper() }, "flaky")
	if err == nil {
		t.Fatalf("expected an error")
	}

	short := fmt.Sprintf("%v", c)
	if !strings.HasPrefix(short, "context(boom, frames=") {
		t.Fatalf("%%v = %q", short)
	}

	long := fmt.Sprintf("%+v", c)
	wantFrags := []string{
		"error: boom\n",
		"channels=default",
		"known: flaky\n",
		"! ",
		"raiseOneDeeper",
		"C ",
		"TestContextFormatting",
		"    - call line ",
		"(caught) known=flaky",
		"    - exception-thrown line ",
	}
	for _, w := range wantFrags {
		if !strings.Contains(long, w) {
			t.Fatalf("%%+v missing %q in:\n%s", w, long)
		}
	}
	if !containsInOrder(long, "raiseOneDeeper", "TestContextFormatting") {
		t.Fatalf("the trace should read innermost first:\n%s", long)
	}

	cs := fmt.Sprintf("%v", c.CallStack())
	if !strings.HasPrefix(cs, "callstack(frames=") {
		t.Fatalf("callstack %%v = %q", cs)
	}
}
