package xgxcontext

import (
	"iter"
	"slices"
)

// CallStack is an ordered, immutable sequence of Frames. In stack order index
// 0 is the outermost call; Reverse presents it innermost first, the way a
// stack trace reads.
type CallStack struct {
	frames   []Frame
	reversed bool
}

func newCallStack(frames []Frame) CallStack {
	return CallStack{frames: frames}
}

// Reverse returns the same frames in the opposite presentation order.
func (cs CallStack) Reverse() CallStack {
	return CallStack{frames: cs.frames, reversed: !cs.reversed}
}

// IsReversed reports whether cs is presented innermost first.
func (cs CallStack) IsReversed() bool { return cs.reversed }

// Len returns the number of frames.
func (cs CallStack) Len() int { return len(cs.frames) }

// At returns the frame at presentation index i.
func (cs CallStack) At(i int) (Frame, bool) {
	if i < 0 || i >= len(cs.frames) {
		return Frame{}, false
	}
	return cs.frames[cs.stackIndex(i)], true
}

// Frames returns a copy of the frames in presentation order.
func (cs CallStack) Frames() []Frame {
	out := slices.Clone(cs.frames)
	if cs.reversed {
		slices.Reverse(out)
	}
	return out
}

// All yields (presentation index, frame) pairs.
func (cs CallStack) All() iter.Seq2[int, Frame] {
	return func(yield func(int, Frame) bool) {
		for i := range cs.frames {
			if !yield(i, cs.frames[cs.stackIndex(i)]) {
				return
			}
		}
	}
}

// LastApplicationFrame returns the innermost application frame and its
// presentation index.
func (cs CallStack) LastApplicationFrame() (Frame, int, bool) {
	return cs.find(Frame.IsLastApplicationFrame)
}

// ExceptionThrownFrame returns the frame the error was raised in.
func (cs CallStack) ExceptionThrownFrame() (Frame, int, bool) {
	return cs.find(Frame.ExceptionThrownHere)
}

// ExceptionCaughtFrame returns the frame that caught the error.
func (cs CallStack) ExceptionCaughtFrame() (Frame, int, bool) {
	return cs.find(Frame.ExceptionCaughtHere)
}

// Meta returns the Meta of the given kinds (all when none are given) across
// every frame, in presentation order.
func (cs CallStack) Meta(kinds ...MetaKind) []Meta {
	var out []Meta
	for _, f := range cs.All() {
		out = append(out, f.Meta(kinds...)...)
	}
	return out
}

// MetaGroups clusters the stack's Meta by call site. See metagroup.go.
func (cs CallStack) MetaGroups(kinds ...MetaKind) []MetaGroup {
	groups := buildMetaGroups(cs.frames, kinds)
	if cs.reversed {
		slices.Reverse(groups)
	}
	return groups
}

func (cs CallStack) stackIndex(i int) int {
	if cs.reversed {
		return len(cs.frames) - 1 - i
	}
	return i
}

func (cs CallStack) find(pred func(Frame) bool) (Frame, int, bool) {
	for i, f := range cs.All() {
		if pred(f) {
			return f, i, true
		}
	}
	return Frame{}, -1, false
}
