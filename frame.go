package xgxcontext

import "slices"

// Frame is one annotated position of a CallStack. It is an immutable value;
// attaching Meta produces a new Frame.
type Frame struct {
	desc        FrameDescriptor
	projectFile string
	meta        []Meta

	application     bool
	lastApplication bool
	last            bool
	thrownHere      bool
	caughtHere      bool
}

// Descriptor returns the frame's canonical descriptor.
func (f Frame) Descriptor() FrameDescriptor { return f.desc }

func (f Frame) File() string     { return f.desc.File }
func (f Frame) Line() int        { return f.desc.Line }
func (f Frame) Function() string { return f.desc.Function }
func (f Frame) Class() string    { return f.desc.Class }
func (f Frame) CallType() string { return f.desc.CallType }
func (f Frame) ObjectID() int    { return f.desc.ObjectID }

// ProjectFile is File relative to the project root, with a leading slash.
// It equals File when the file is outside the root or no root is set.
func (f Frame) ProjectFile() string { return f.projectFile }

// Meta returns the frame's Meta values of the given kinds (all when none
// are given), in attachment order.
func (f Frame) Meta(kinds ...MetaKind) []Meta {
	out := make([]Meta, 0, len(f.meta))
	for _, m := range f.meta {
		if matchesKinds(m, kinds) {
			out = append(out, m)
		}
	}
	return out
}

func (f Frame) IsApplicationFrame() bool     { return f.application }
func (f Frame) IsVendorFrame() bool          { return !f.application }
func (f Frame) IsLastApplicationFrame() bool { return f.lastApplication }

// IsLastFrame reports whether f is the innermost frame of its stack.
func (f Frame) IsLastFrame() bool         { return f.last }
func (f Frame) ExceptionThrownHere() bool { return f.thrownHere }
func (f Frame) ExceptionCaughtHere() bool { return f.caughtHere }

// withMeta returns a copy of f with m appended. The thrown and lastApp flags
// are or-ed into the copy's flags.
func (f Frame) withMeta(m Meta, thrown, lastApp bool) Frame {
	n := f
	n.meta = append(slices.Clip(f.meta), m)
	n.thrownHere = f.thrownHere || thrown
	n.lastApplication = f.lastApplication || lastApp
	return n
}
