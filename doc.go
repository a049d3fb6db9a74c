// doc.go: package documentation for xgx-context
//
// Package xgxcontext attaches diagnostic values to live stack frames and
// replays them, frame by frame, when an error surfaces.
//
// # Recording
//
// A Session owns the store for one execution context (a request, a job, a
// CLI run). Calling code records values against its own frame:
//
//	s := xgxcontext.NewSession(xgxcontext.DefaultConfig())
//	defer s.End()
//
//	_ = s.Add("importing", map[string]any{"file": name})
//
// Values recorded again from the same line of the same frame replace the
// earlier ones, so a loop does not pile up entries. Values recorded in frames
// that have since returned are pruned the next time the store looks at the
// stack.
//
// # Catching
//
// Session.Call runs a function under a call marker. When it fails the
// error's Context is built:
//
//	c, err := s.Call(func() error { return importFile(name) }, "import-known")
//	if err != nil {
//		log.Printf("%+v", c)
//	}
//
// The Context's CallStack lists every frame of the error's trace, oldest
// first, with the recorded values attached to the frames that still exist,
// plus synthesized markers for the raise site, the catching call and the
// innermost application frame. StackTrace is the same stack innermost first.
//
// # Where do traces come from?
//
//	+------------------------------+-------------------------------------------+
//	| Error                        | Trace used                                |
//	+------------------------------+-------------------------------------------+
//	| New / Errorf / WithStack     | captured at the call                      |
//	| Wrap                         | captured unless the chain has one         |
//	| any StackTracer in the chain | the deepest one                           |
//	| any RawTracer in the chain   | host frames, normalized                   |
//	| anything else                | the live stack where the Context is built |
//	+------------------------------+-------------------------------------------+
//
// # Known limitation
//
// Frames are matched by position, file, function and line. Two invocations
// of the same function, method or closure from one line cannot be told
// apart, so values recorded by the first may be attributed to the second.
//
// # Adapters
//
// Subpackages carry the integrations: config (TOML/YAML/env loading and
// reload), slogctx (structured logging), otelctx (trace ids and span events)
// and metrics (Prometheus counters).
package xgxcontext
