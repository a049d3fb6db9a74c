// descriptor.go: canonical frame descriptors and the host frame format.
package xgxcontext

import "fmt"

// Call types recorded in FrameDescriptor.CallType.
const (
	CallInstance = "->" // method call on a receiver / object
	CallStatic   = "::" // static (class-level) call in host traces
)

// TopFunction names the synthetic outermost frame of a host trace. It sits
// at index 0 and carries the outermost record's location (see normalizeRaw).
const TopFunction = "[top]"

// FrameDescriptor is an immutable snapshot of one stack position. File and
// Line record where the frame currently is: the call site inside Function.
// ObjectID is 0 when the frame has no object identity.
//
// Descriptors are comparable with ==.
type FrameDescriptor struct {
	File     string
	Line     int
	Function string
	Class    string
	CallType string
	ObjectID int
}

// String renders d as "function file:line".
func (d FrameDescriptor) String() string {
	return fmt.Sprintf("%s %s:%d", d.Function, d.File, d.Line)
}

// RawFrame is one record of a host-introspected call stack, innermost first.
// File and Line name the call site that invoked Function, so every record is
// shifted by one position relative to FrameDescriptor. Args is stripped.
type RawFrame struct {
	File     string
	Line     int
	Function string
	Class    string
	Object   any
	Type     string
	Args     []any
}

// frameFields selects which descriptor fields take part in a comparison.
type frameFields uint8

const (
	fieldFile frameFields = 1 << iota
	fieldLine
	fieldFunction
	fieldClass
	fieldCallType
	fieldObject

	allFields = fieldFile | fieldLine | fieldFunction | fieldClass | fieldCallType | fieldObject

	// identityFields are the fields that decide whether two positions hold
	// the same invocation; a line change alone means the same frame moved on.
	identityFields = allFields &^ fieldLine

	// traceFields is what an error trace can be trusted to share with a
	// live snapshot.
	traceFields = fieldFile | fieldLine
)

// equalOn reports whether d and o agree on every field in set.
func (d FrameDescriptor) equalOn(o FrameDescriptor, set frameFields) bool {
	switch {
	case set&fieldFile != 0 && d.File != o.File:
		return false
	case set&fieldLine != 0 && d.Line != o.Line:
		return false
	case set&fieldFunction != 0 && d.Function != o.Function:
		return false
	case set&fieldClass != 0 && d.Class != o.Class:
		return false
	case set&fieldCallType != 0 && d.CallType != o.CallType:
		return false
	case set&fieldObject != 0 && d.ObjectID != o.ObjectID:
		return false
	}
	return true
}
