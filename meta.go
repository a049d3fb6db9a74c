// meta.go: the typed Meta values attached to output frames.
//
// Meta is a closed sum: the unexported isMeta method keeps other packages
// from adding variants, so a type switch over the five types below is
// exhaustive. Stored entries carry string kinds; materialize is the only
// place an unknown kind can surface.
package xgxcontext

import "fmt"

// MetaKind tags a Meta variant.
type MetaKind uint8

const (
	MetaContext MetaKind = iota + 1
	MetaCallMarker
	MetaExceptionThrown
	MetaExceptionCaught
	MetaLastApplicationFrame
)

func (k MetaKind) String() string {
	switch k {
	case MetaContext:
		return "context"
	case MetaCallMarker:
		return "call"
	case MetaExceptionThrown:
		return "exception-thrown"
	case MetaExceptionCaught:
		return "exception-caught"
	case MetaLastApplicationFrame:
		return "last-application-frame"
	default:
		return fmt.Sprintf("MetaKind(%d)", uint8(k))
	}
}

// Location is where a Meta value was recorded or synthesized.
type Location struct {
	File        string
	ProjectFile string
	Line        int
	Function    string
	Class       string
	CallType    string
}

// Loc returns l itself; it makes Location's fields reachable through the
// Meta interface.
func (l Location) Loc() Location { return l }

// Meta is one of ContextMeta, CallMeta, ExceptionThrownMeta,
// ExceptionCaughtMeta or LastApplicationFrameMeta.
type Meta interface {
	Kind() MetaKind
	Loc() Location
	isMeta()
}

// ContextMeta carries a value recorded by calling code.
type ContextMeta struct {
	Location
	Value any
}

// CallMeta marks a call made through Session.Call.
type CallMeta struct {
	Location
	// CaughtHere is true when this call caught the Context's error.
	CaughtHere bool
	// Known lists the known-issue tags given to the call.
	Known []string
}

// ExceptionThrownMeta marks the frame the error was raised in.
type ExceptionThrownMeta struct{ Location }

// ExceptionCaughtMeta marks the frame that caught the error. Its Line is the
// line of the catching call.
type ExceptionCaughtMeta struct{ Location }

// LastApplicationFrameMeta marks the innermost application frame.
type LastApplicationFrameMeta struct{ Location }

func (ContextMeta) Kind() MetaKind              { return MetaContext }
func (CallMeta) Kind() MetaKind                 { return MetaCallMarker }
func (ExceptionThrownMeta) Kind() MetaKind      { return MetaExceptionThrown }
func (ExceptionCaughtMeta) Kind() MetaKind      { return MetaExceptionCaught }
func (LastApplicationFrameMeta) Kind() MetaKind { return MetaLastApplicationFrame }

func (ContextMeta) isMeta()              {}
func (CallMeta) isMeta()                 {}
func (ExceptionThrownMeta) isMeta()      {}
func (ExceptionCaughtMeta) isMeta()      {}
func (LastApplicationFrameMeta) isMeta() {}

var (
	_ Meta = ContextMeta{}
	_ Meta = CallMeta{}
	_ Meta = ExceptionThrownMeta{}
	_ Meta = ExceptionCaughtMeta{}
	_ Meta = LastApplicationFrameMeta{}
)

// CallMarker is the value Session.Call records under KindCallMarker.
type CallMarker struct {
	Known []string
}

// locationOf builds a Location from a descriptor.
func locationOf(d FrameDescriptor, projectFile string) Location {
	return Location{
		File:        d.File,
		ProjectFile: projectFile,
		Line:        d.Line,
		Function:    d.Function,
		Class:       d.Class,
		CallType:    d.CallType,
	}
}

// knownFrom reads the known-issue tags out of a call-marker value.
func knownFrom(v any) []string {
	switch v := v.(type) {
	case CallMarker:
		return normalizeStrings(v.Known...)
	case *CallMarker:
		if v != nil {
			return normalizeStrings(v.Known...)
		}
	case map[string]any:
		switch k := v["known"].(type) {
		case []string:
			return normalizeStrings(k...)
		case []any:
			out := make([]string, 0, len(k))
			for _, s := range k {
				if s, ok := s.(string); ok {
					out = append(out, s)
				}
			}
			return normalizeStrings(out...)
		}
	}
	return nil
}

// matchesKinds reports whether m is one of kinds; no kinds matches all.
func matchesKinds(m Meta, kinds []MetaKind) bool {
	if len(kinds) == 0 {
		return true
	}
	for _, k := range kinds {
		if m.Kind() == k {
			return true
		}
	}
	return false
}
