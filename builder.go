// builder.go: assembling the annotated CallStack of a Context.
//
// Steps:
//  1. Reconcile the store against the snapshot: whole frames for a live
//     stack, file and line for an error trace. Stale entries are pruned.
//  2. Walk the snapshot; turn each stored entry into a typed Meta and track
//     the last application frame and the frame whose call caught the error.
//  3. Attach the synthesized Meta as frame copies: LastApplicationFrame,
//     ExceptionThrown on the innermost frame and ExceptionCaught on the
//     catching frame, on the line of the catching call.
package xgxcontext

// assemble builds c's CallStack from snapshot (oldest first).
func (c *Context) assemble(store *MetaCallStack, cfg Config, snapshot []FrameDescriptor) error {
	if c.err != nil {
		store.PruneAgainstTrace(snapshot)
	} else {
		store.Prune(snapshot)
	}

	frames := make([]Frame, 0, len(snapshot))
	lastApp, caught := -1, -1
	var catching CallMeta

	for i, d := range snapshot {
		f := Frame{
			desc:        d,
			projectFile: cfg.projectFile(d.File),
			application: cfg.isApplicationFile(d.File),
			last:        i == len(snapshot)-1,
		}
		if cfg.Enabled {
			for _, e := range store.meta[i] {
				m, err := c.materialize(e, cfg)
				if err != nil {
					return err
				}
				f.meta = append(f.meta, m)
				if cm, ok := m.(CallMeta); ok {
					c.known = append(c.known, cm.Known...)
					if cm.CaughtHere && !f.caughtHere {
						f.caughtHere = true
						catching = cm
					}
				}
			}
		}
		if f.application {
			lastApp = i
		}
		if f.caughtHere {
			caught = i
		}
		frames = append(frames, f)
	}
	c.known = normalizeStrings(c.known...)

	if cfg.Enabled {
		if lastApp >= 0 {
			f := frames[lastApp]
			frames[lastApp] = f.withMeta(LastApplicationFrameMeta{Location: frameLocation(f)}, false, true)
		}
		if c.err != nil && len(frames) > 0 {
			top := len(frames) - 1
			f := frames[top]
			frames[top] = f.withMeta(ExceptionThrownMeta{Location: frameLocation(f)}, true, false)
		}
		if c.err != nil && caught >= 0 {
			f := frames[caught]
			loc := frameLocation(f)
			loc.Line = catching.Line
			frames[caught] = f.withMeta(ExceptionCaughtMeta{Location: loc}, false, false)
		}
	}

	c.callStack = newCallStack(frames)
	c.worth = cfg.Enabled && worthReporting(c.callStack)
	return nil
}

// materialize turns a stored entry into its Meta variant.
func (c *Context) materialize(e MetaEntry, cfg Config) (Meta, error) {
	loc := locationOf(e.Frame, cfg.projectFile(e.Frame.File))
	switch e.Kind {
	case KindContext:
		return ContextMeta{Location: loc, Value: e.Value}, nil
	case KindCallMarker:
		return CallMeta{
			Location:   loc,
			CaughtHere: c.err != nil && e.Identifier == c.catcher,
			Known:      knownFrom(e.Value),
		}, nil
	default:
		return nil, errInvalidMetaKind(e.Kind)
	}
}

func frameLocation(f Frame) Location {
	return locationOf(f.desc, f.projectFile)
}

// worthReporting is false when the only Meta present are at most one
// ExceptionThrown and at most one LastApplicationFrame: such a stack says
// nothing beyond "an error happened here".
func worthReporting(cs CallStack) bool {
	counts := make(map[MetaKind]int)
	for _, m := range cs.Meta() {
		counts[m.Kind()]++
	}
	for kind, n := range counts {
		switch kind {
		case MetaExceptionThrown, MetaLastApplicationFrame:
			if n > 1 {
				return true
			}
		default:
			return true
		}
	}
	return false
}
