package xgxcontext

import "strconv"

type identifierKind uint8

const (
	identNone identifierKind = iota
	identInt
	identString
)

// Identifier is an optional key attached to recorded meta-data so it can be
// found again by Replace. It is none, an int or a string, and comparison is
// type-strict: IntID(123) != StringID("123").
//
// The zero value is NoID.
type Identifier struct {
	kind identifierKind
	n    int64
	s    string
}

// NoID is the absent identifier.
var NoID = Identifier{}

// IntID returns an integer identifier.
func IntID(n int64) Identifier { return Identifier{kind: identInt, n: n} }

// StringID returns a string identifier.
func StringID(s string) Identifier { return Identifier{kind: identString, s: s} }

// IsZero reports whether id is NoID.
func (id Identifier) IsZero() bool { return id.kind == identNone }

// Int returns the integer value and whether id is an integer identifier.
func (id Identifier) Int() (int64, bool) { return id.n, id.kind == identInt }

func (id Identifier) String() string {
	switch id.kind {
	case identInt:
		return strconv.FormatInt(id.n, 10)
	case identString:
		return strconv.Quote(id.s)
	default:
		return "none"
	}
}
