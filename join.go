// join.go: formatting-aware multi-error join.
//
// Goals:
//   • Preserve stdlib semantics for unwrapping & default string form:
//       - Unwrap() []error for tree traversal (errors.Is/As pre-order DFS).
//       - Error() == newline-joined child Error() strings (like errors.Join).
//   • "%+v" prints each child with its own "%+v" (code, fields, stack).
//
// Session.Call joins a failed Context build with the error that triggered
// it; Config.Validate joins every bad level.
package xgxcontext

import (
	"fmt"
	"strings"
)

// multi mirrors errors.Join for Error()/Unwrap() and recurses on "%+v".
type multi struct {
	errs []error // non-nil children only
}

func (m *multi) Error() string {
	var sb strings.Builder
	for i, e := range m.errs {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(e.Error())
	}
	return sb.String()
}

func (m *multi) Unwrap() []error { return m.errs }

func (m *multi) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			for i, e := range m.errs {
				if i > 0 {
					_, _ = fmt.Fprint(s, "\n")
				}
				_, _ = fmt.Fprintf(s, "%+v", e)
			}
			return
		}
		_, _ = fmt.Fprint(s, m.Error())
	case 's':
		_, _ = fmt.Fprint(s, m.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", m.Error())
	default:
		_, _ = fmt.Fprintf(s, "%%!%c(%T)", verb, m)
	}
}

// Join returns an error wrapping the non-nil errs.
//   • All nil → nil
//   • One non-nil → that error (identity preserved)
//   • 2+ non-nil → Unwrap() []error, newline-joined Error()
func Join(errs ...error) error {
	nz := make([]error, 0, len(errs))
	for _, e := range errs {
		if e != nil {
			nz = append(nz, e)
		}
	}
	switch len(nz) {
	case 0:
		return nil
	case 1:
		return nz[0]
	default:
		return &multi{errs: nz}
	}
}

// Append is Join(head, more...) with fast paths for the nil cases.
func Append(head error, more ...error) error {
	if head == nil {
		return Join(more...)
	}
	for _, e := range more {
		if e != nil {
			return Join(append([]error{head}, more...)...)
		}
	}
	return head
}
