// metagroup.go: presentation groups of Meta sharing a call site.
//
// Meta are visited in stack order (oldest frame first, attachment order
// within a frame). A Meta joins the current group when it is in the same
// file and its line equals, or is one past, the previous Meta's line; this
// absorbs a diagnostic call placed directly above the call it describes.
// Groups take their location from their first Meta and their flags from
// that Meta's frame.
//
// Groups are always built in stack order; a reversed stack reverses the
// finished list, so groups(reverse(s)) == reverse(groups(s)).
package xgxcontext

import "slices"

// MetaGroup is a read-only cluster of Meta values.
type MetaGroup struct {
	Location
	meta []Meta

	application     bool
	lastApplication bool
	last            bool
	thrownHere      bool
	caughtHere      bool
}

// Meta returns a copy of the group's Meta values.
func (g MetaGroup) Meta() []Meta { return slices.Clone(g.meta) }

func (g MetaGroup) IsApplicationFrame() bool     { return g.application }
func (g MetaGroup) IsVendorFrame() bool          { return !g.application }
func (g MetaGroup) IsLastApplicationFrame() bool { return g.lastApplication }
func (g MetaGroup) IsLastFrame() bool            { return g.last }
func (g MetaGroup) ExceptionThrownHere() bool    { return g.thrownHere }
func (g MetaGroup) ExceptionCaughtHere() bool    { return g.caughtHere }

// Kinds returns the distinct kinds present in the group, in first-seen order.
func (g MetaGroup) Kinds() []MetaKind {
	var out []MetaKind
	for _, m := range g.meta {
		if !slices.Contains(out, m.Kind()) {
			out = append(out, m.Kind())
		}
	}
	return out
}

func newMetaGroup(f Frame, m Meta) MetaGroup {
	return MetaGroup{
		Location:        m.Loc(),
		meta:            []Meta{m},
		application:     f.application,
		lastApplication: f.lastApplication,
		last:            f.last,
		thrownHere:      f.thrownHere,
		caughtHere:      f.caughtHere,
	}
}

func buildMetaGroups(frames []Frame, kinds []MetaKind) []MetaGroup {
	var (
		groups   []MetaGroup
		lastFile string
		lastLine int
	)
	for _, f := range frames {
		for _, m := range f.Meta(kinds...) {
			loc := m.Loc()
			sameSite := len(groups) > 0 &&
				loc.File == lastFile &&
				(loc.Line == lastLine || loc.Line == lastLine+1)
			if sameSite {
				g := &groups[len(groups)-1]
				g.meta = append(g.meta, m)
			} else {
				groups = append(groups, newMetaGroup(f, m))
				lastFile = loc.File
			}
			lastLine = loc.Line
		}
	}
	return groups
}
