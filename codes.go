// codes.go: error code definitions for xgx-context.
//
// Intent:
//   - A small closed set covering the failures the engine can raise.
//   - Callers branch on codes (or the predicates in predicates.go), never on
//     message text.
//
// Conventions:
//   - Codes are lowercase snake_case ASCII.
package xgxcontext

// NOTE: Code type is declared in error.go.

const (
	// CodeInvalidArgument marks caller bugs such as a negative or excessive
	// frames-back count.
	CodeInvalidArgument Code = "invalid_argument"

	// CodeInitialization marks a Context that cannot be built: an unknown
	// stored meta kind or a reporting level outside the allowed set.
	CodeInitialization Code = "initialization"

	// CodeUnknown is the default code for wrapped foreign errors.
	CodeUnknown Code = "unknown"

	// CodePanic marks errors recovered from a panic inside Session.Call.
	CodePanic Code = "panic"
)

// allBuiltinCodes is the ordered set of codes the package ships with.
var allBuiltinCodes = []Code{
	CodeInvalidArgument,
	CodeInitialization,
	CodeUnknown,
	CodePanic,
}

// BuiltinCodes returns a defensive copy of the built-in codes in a stable order.
func BuiltinCodes() []Code {
	out := make([]Code, len(allBuiltinCodes))
	copy(out, allBuiltinCodes)
	return out
}

// IsBuiltin reports whether c is one of the built-in codes.
func (c Code) IsBuiltin() bool {
	for _, b := range allBuiltinCodes {
		if c == b {
			return true
		}
	}
	return false
}
