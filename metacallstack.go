// metacallstack.go: the call-stack-indexed meta-data store.
//
// Design:
//   • Entries live under the index of the frame they were recorded in, in the
//     most recently observed stack (oldest frame = 0).
//   • Every mutation first reconciles the remembered stack with the new one
//     and prunes indices that no longer hold the same invocation, so the key
//     set is always a subset of the remembered stack's indices.
//   • Nothing is shared: reads hand out copies.
//
// A MetaCallStack belongs to one execution context and is not safe for
// concurrent use.
package xgxcontext

import (
	"maps"
	"slices"
)

// Meta-data kinds understood by the Context builder.
const (
	KindContext    = "context-data"
	KindCallMarker = "call-marker"
)

// MetaEntry is one recorded diagnostic value.
type MetaEntry struct {
	Kind       string
	Identifier Identifier
	// Ordinal is the value's position among the values recorded by one call.
	Ordinal int
	// Frame is the innermost frame at the time of recording.
	Frame FrameDescriptor
	Value any
}

// MetaCallStack maps frame indices to the meta-data recorded there.
type MetaCallStack struct {
	callStack []FrameDescriptor
	meta      map[int][]MetaEntry
	ids       identityTable
	obs       Observer
}

// NewMetaCallStack returns an empty store.
func NewMetaCallStack() *MetaCallStack {
	return newMetaCallStack(nil)
}

func newMetaCallStack(obs Observer) *MetaCallStack {
	if obs == nil {
		obs = nopObserver{}
	}
	return &MetaCallStack{meta: make(map[int][]MetaEntry), obs: obs}
}

// Push records values against the innermost frame of snapshot (oldest
// first). The snapshot becomes the remembered stack; stale indices are pruned
// and entries of removeKindsAtTop are dropped from the innermost frame before
// the values are indexed. Each value's ordinal is its position in values.
func (m *MetaCallStack) Push(snapshot []FrameDescriptor, kind string, id Identifier, values []any, removeKindsAtTop ...string) {
	m.Observe(snapshot)
	if len(snapshot) == 0 {
		return
	}
	top := len(snapshot) - 1
	last := snapshot[top]

	m.removeFromTop(removeKindsAtTop)
	for ordinal, v := range values {
		entries, pos := resolveInsertionIndex(m.meta[top], kind, last.Line, ordinal)
		m.meta[top] = insertAt(entries, pos, MetaEntry{
			Kind:       kind,
			Identifier: id,
			Ordinal:    ordinal,
			Frame:      last,
			Value:      v,
		})
	}
	if len(values) > 0 {
		m.obs.MetaRecorded(kind, len(values))
	}
}

// PushRaw is Push for a live host stack in RawFrame form (innermost first).
// The framesBack innermost records are skipped first so the values land in
// the caller's frame.
func (m *MetaCallStack) PushRaw(raw []RawFrame, framesBack int, kind string, id Identifier, values []any, removeKindsAtTop ...string) error {
	raw, err := stepBack(raw, framesBack)
	if err != nil {
		return err
	}
	m.Push(m.Normalize("", 0, raw), kind, id, values, removeKindsAtTop...)
	return nil
}

// Normalize converts a host trace into a snapshot using this store's object
// identities, so snapshots taken at different times agree on ids.
func (m *MetaCallStack) Normalize(file string, line int, raw []RawFrame) []FrameDescriptor {
	return normalizeRaw(file, line, raw, &m.ids)
}

// Observe reconciles the remembered stack against snapshot, prunes what no
// longer exists and remembers snapshot.
func (m *MetaCallStack) Observe(snapshot []FrameDescriptor) {
	m.pruneFrom(diffPos(m.callStack, snapshot, allFields))
	m.callStack = slices.Clone(snapshot)
}

// Prune drops entries whose frames are not in snapshot, comparing whole
// frames. The remembered stack is left as is.
func (m *MetaCallStack) Prune(snapshot []FrameDescriptor) {
	m.pruneFrom(diffPos(m.callStack, snapshot, allFields))
}

// PruneAgainstTrace prunes using the fields an error trace shares with a
// live snapshot (file and line). The remembered stack is left as is.
func (m *MetaCallStack) PruneAgainstTrace(trace []FrameDescriptor) {
	m.pruneFrom(diffPos(m.callStack, trace, traceFields))
}

// Replace overwrites the value of every entry whose kind and identifier
// match exactly. Nothing happens when none match or id is NoID.
func (m *MetaCallStack) Replace(kind string, id Identifier, value any) {
	if id.IsZero() {
		return
	}
	for _, entries := range m.meta {
		for i := range entries {
			if entries[i].Kind == kind && entries[i].Identifier == id {
				entries[i].Value = value
			}
		}
	}
}

// Entries returns a copy of the entries stored at frame index i.
func (m *MetaCallStack) Entries(i int) []MetaEntry {
	return slices.Clone(m.meta[i])
}

// Indexes returns the frame indices holding entries, ascending.
func (m *MetaCallStack) Indexes() []int {
	return slices.Sorted(maps.Keys(m.meta))
}

// Snapshot returns a copy of the remembered stack, oldest first.
func (m *MetaCallStack) Snapshot() []FrameDescriptor {
	return slices.Clone(m.callStack)
}

// Len returns the number of stored entries.
func (m *MetaCallStack) Len() int {
	n := 0
	for _, entries := range m.meta {
		n += len(entries)
	}
	return n
}

// Reset drops every entry and the remembered stack.
func (m *MetaCallStack) Reset() {
	m.callStack = nil
	m.meta = make(map[int][]MetaEntry)
	m.ids = identityTable{}
}

// pruneFrom drops every index ≥ pos.
func (m *MetaCallStack) pruneFrom(pos int) {
	n := 0
	for i, entries := range m.meta {
		if i >= pos {
			n += len(entries)
			delete(m.meta, i)
		}
	}
	if n > 0 {
		m.obs.MetaPruned(n)
	}
}

// removeFromTop drops entries of the given kinds from the innermost
// remembered frame.
func (m *MetaCallStack) removeFromTop(kinds []string) {
	if len(kinds) == 0 || len(m.callStack) == 0 {
		return
	}
	top := len(m.callStack) - 1
	kept := slices.DeleteFunc(slices.Clone(m.meta[top]), func(e MetaEntry) bool {
		return slices.Contains(kinds, e.Kind)
	})
	if len(kept) == 0 {
		delete(m.meta, top)
		return
	}
	m.meta[top] = kept
}
