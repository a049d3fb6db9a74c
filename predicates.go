// predicates.go: classification helpers.
//
// Scope:
//   • Answer "what kind of failure is this" without string matching.
//   • Use errors.As so traversal works with both Unwrap() error and
//     Unwrap() []error (errors.Join).
package xgxcontext

import "errors"

// CodeOf returns the first Code found along err's chain, or "" if none.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var cv interface{ CodeVal() Code }
	if errors.As(err, &cv) {
		return cv.CodeVal()
	}
	return ""
}

// HasCode reports whether the first Code along err's chain is code.
func HasCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// IsInvalidArgument reports whether err is a caller bug such as a negative
// or excessive frames-back count.
func IsInvalidArgument(err error) bool { return HasCode(err, CodeInvalidArgument) }

// IsInitialization reports whether err means a Context could not be built.
func IsInitialization(err error) bool { return HasCode(err, CodeInitialization) }

// IsPanic reports whether err was recovered from a panic by Session.Call.
func IsPanic(err error) bool { return HasCode(err, CodePanic) }
