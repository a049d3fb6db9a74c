// indexer.go: placing a new entry within one frame's entry list.
package xgxcontext

// resolveInsertionIndex decides where an entry of (kind, line, ordinal)
// belongs in entries, which all belong to one frame. It returns the entries
// to keep and the position to insert at.
//
//   - Entries with the same kind and line whose ordinal is ≥ ordinal are
//     superseded: they are dropped and the new entry takes the first one's
//     place. This is what keeps a value re-recorded on every loop iteration
//     from piling up.
//   - Otherwise, when entries with the same kind and line remain (smaller
//     ordinals), the new entry goes straight after the last of them.
//   - Otherwise it is appended.
//
// entries is not modified.
func resolveInsertionIndex(entries []MetaEntry, kind string, line, ordinal int) ([]MetaEntry, int) {
	kept := make([]MetaEntry, 0, len(entries)+1)
	first := -1
	for _, e := range entries {
		if e.Kind == kind && e.Frame.Line == line && e.Ordinal >= ordinal {
			if first < 0 {
				first = len(kept)
			}
			continue
		}
		kept = append(kept, e)
	}
	if first >= 0 {
		return kept, first
	}

	last := -1
	for i, e := range kept {
		if e.Kind == kind && e.Frame.Line == line {
			last = i
		}
	}
	if last >= 0 {
		return kept, last + 1
	}
	return kept, len(kept)
}

// insertAt returns entries with e inserted at pos.
func insertAt(entries []MetaEntry, pos int, e MetaEntry) []MetaEntry {
	entries = append(entries, MetaEntry{})
	copy(entries[pos+1:], entries[pos:])
	entries[pos] = e
	return entries
}
