// format.go: fmt.Formatter implementations.
//
// Errors:
//
//   %s, %v   → concise string (Error()).
//   %+v      → verbose, multi-line:
//                code=<code> msg="<message>"
//                fields: key1=val1 key2=val2 ...
//                cause: <recursively formatted with %+v>
//                stack:
//                  funcA file.go:123
//
// Contexts and CallStacks:
//
//   %v       → one-line summary.
//   %+v      → the stack innermost first, one frame per line, with markers
//              for the application/thrown/caught frames and the Meta
//              recorded in each frame indented below it.
package xgxcontext

import (
	"fmt"
	"io"
	"strings"
)

func formatConcise(w io.Writer, e error) {
	_, _ = io.WriteString(w, e.Error())
}

// formatVerbose writes a structured multi-line representation. The stack
// section is omitted when pcs is empty.
func formatVerbose(w io.Writer, code Code, msg string, flds fields, cause error, pcs []uintptr) {
	if code != "" {
		_, _ = fmt.Fprintf(w, "code=%s ", code)
	}
	_, _ = fmt.Fprintf(w, "msg=%q", msg)

	if len(flds) > 0 {
		_, _ = io.WriteString(w, "\nfields:")
		for _, f := range flds {
			if f.Key != "" {
				_, _ = fmt.Fprintf(w, " %s=%v", f.Key, f.Val)
			}
		}
	}

	if cause != nil {
		_, _ = io.WriteString(w, "\ncause: ")
		_, _ = fmt.Fprintf(w, "%+v", cause)
	}

	if frames := resolveFrames(pcs); len(frames) > 0 {
		_, _ = io.WriteString(w, "\nstack:")
		for _, fr := range frames {
			_, _ = fmt.Fprintf(w, "\n  %s %s:%d", fr.Function, fr.File, fr.Line)
		}
	}
}

func (e *tracedErr) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			formatVerbose(s, e.code, e.msg, e.flds, e.cause, e.pcs)
			return
		}
		formatConcise(s, e)
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	default:
		formatConcise(s, e)
	}
}

// -----------------------------------------------------------------------------
// CallStack / Context
// -----------------------------------------------------------------------------

func (cs CallStack) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		writeFrames(s, cs)
		return
	}
	_, _ = fmt.Fprintf(s, "callstack(frames=%d meta=%d)", cs.Len(), len(cs.Meta()))
}

func (c *Context) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		if c.err != nil {
			_, _ = fmt.Fprintf(s, "error: %v\n", c.err)
		}
		if len(c.channels) > 0 || c.level != LevelNone {
			_, _ = fmt.Fprintf(s, "channels=%s level=%s report=%t\n", strings.Join(c.channels, ","), c.level, c.report)
		}
		if known := c.KnownIssues(); len(known) > 0 {
			_, _ = fmt.Fprintf(s, "known: %s\n", strings.Join(known, ", "))
		}
		writeFrames(s, c.StackTrace())
		return
	}
	msg := "here"
	if c.err != nil {
		msg = c.err.Error()
	}
	_, _ = fmt.Fprintf(s, "context(%s, frames=%d, meta=%d)", msg, c.callStack.Len(), len(c.callStack.Meta()))
}

// writeFrames prints cs in its presentation order.
func writeFrames(w io.Writer, cs CallStack) {
	for i, f := range cs.All() {
		if i > 0 {
			_, _ = io.WriteString(w, "\n")
		}
		_, _ = fmt.Fprintf(w, "%s %s %s:%d", frameMarker(f), f.Function(), f.ProjectFile(), f.Line())
		for _, m := range f.Meta() {
			_, _ = fmt.Fprintf(w, "\n    - %s", describeMeta(m))
		}
	}
}

func frameMarker(f Frame) string {
	switch {
	case f.ExceptionThrownHere():
		return "!"
	case f.ExceptionCaughtHere():
		return "C"
	case f.IsLastApplicationFrame():
		return "*"
	case f.IsApplicationFrame():
		return "+"
	default:
		return " "
	}
}

func describeMeta(m Meta) string {
	loc := m.Loc()
	switch m := m.(type) {
	case ContextMeta:
		return fmt.Sprintf("%s line %d: %v", m.Kind(), loc.Line, m.Value)
	case CallMeta:
		out := fmt.Sprintf("%s line %d", m.Kind(), loc.Line)
		if m.CaughtHere {
			out += " (caught)"
		}
		if len(m.Known) > 0 {
			out += " known=" + strings.Join(m.Known, ",")
		}
		return out
	default:
		return fmt.Sprintf("%s line %d", m.Kind(), loc.Line)
	}
}
