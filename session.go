// session.go: the per-execution-context handle.
//
// A Session owns one MetaCallStack and everything else that lives for one
// request, job or CLI run: trace identifiers, the Contexts remembered for
// errors and the catcher counter. Create one per execution context, pass it
// explicitly or through context.Context, and End it when the work is done.
//
// A Session follows a single call stack; it is not safe for concurrent use.
package xgxcontext

import (
	"context"
	"maps"
	"slices"

	"github.com/google/uuid"
)

// Session is the handle calling code records meta-data through.
type Session struct {
	id       string
	cfg      Config
	stack    *MetaCallStack
	obs      Observer
	traceIDs map[string]any

	remembered map[any]*Context
	order      []any
	catchers   int64
}

// Option configures a Session.
type Option func(*Session)

// WithObserver installs o to receive store and Context notifications.
func WithObserver(o Observer) Option {
	return func(s *Session) {
		if o != nil {
			s.obs = o
		}
	}
}

// WithTraceIdentifiers seeds the Session's trace identifiers.
func WithTraceIdentifiers(ids map[string]any) Option {
	return func(s *Session) { maps.Copy(s.traceIDs, ids) }
}

// NewSession returns a Session using cfg.
func NewSession(cfg Config, opts ...Option) *Session {
	s := &Session{
		id:         uuid.NewString(),
		cfg:        cfg,
		obs:        nopObserver{},
		traceIDs:   make(map[string]any),
		remembered: make(map[any]*Context),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.stack = newMetaCallStack(s.obs)
	return s
}

// ID returns the Session's unique id.
func (s *Session) ID() string { return s.id }

// Config returns the Session's settings.
func (s *Session) Config() Config { return s.cfg }

// MetaCallStack returns the Session's store.
func (s *Session) MetaCallStack() *MetaCallStack { return s.stack }

type sessionKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the Session carried by ctx, or nil.
func SessionFrom(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}

// Record stores values of kind against the caller's frame, or the frame
// framesBack calls further out. Entries of removeKindsAtTop are first
// dropped from that frame. Recording is a no-op when the Session is
// disabled, but framesBack is still checked against the stack.
//
// framesBack must be ≥ 0 and smaller than the stack depth.
func (s *Session) Record(kind string, id Identifier, values []any, framesBack int, removeKindsAtTop ...string) error {
	return s.record(1, kind, id, values, framesBack, removeKindsAtTop)
}

// record takes the live stack starting skip frames above its caller.
func (s *Session) record(skip int, kind string, id Identifier, values []any, framesBack int, removeKindsAtTop []string) error {
	frames, err := stepBack(resolveFrames(callers(skip+1)), framesBack)
	if err != nil {
		return err
	}
	if !s.cfg.Enabled {
		return nil
	}
	s.stack.Push(normalizeRuntime(frames), kind, id, values, removeKindsAtTop...)
	return nil
}

// Add records context values against the caller's frame. A call marker left
// in that frame by an earlier Session.Call is removed.
func (s *Session) Add(values ...any) error {
	return s.record(1, KindContext, NoID, values, 0, []string{KindCallMarker})
}

// Replace overwrites previously recorded values of kind with identifier id.
// It is a no-op when nothing matches.
func (s *Session) Replace(kind string, id Identifier, value any) {
	if !s.cfg.Enabled {
		return
	}
	s.stack.Replace(kind, id, value)
}

// TraceIdentifier stores a trace identifier under name; an empty name uses
// "trace_id".
func (s *Session) TraceIdentifier(id any, name string) {
	if name == "" {
		name = "trace_id"
	}
	s.traceIDs[name] = id
}

// TraceIdentifiers returns a copy of the trace identifiers.
func (s *Session) TraceIdentifiers() map[string]any { return maps.Clone(s.traceIDs) }

// NewCatcher returns a fresh catcher identifier.
func (s *Session) NewCatcher() Identifier {
	s.catchers++
	return IntID(s.catchers)
}

// BuildHere builds a Context from the live stack at the caller, or
// framesBack calls further out. The level is left to the reporter and
// neither report nor rethrow is set.
func (s *Session) BuildHere(framesBack int) (*Context, error) {
	frames, err := stepBack(resolveFrames(callers(1)), framesBack)
	if err != nil {
		return nil, err
	}
	c := &Context{
		source:   SourceHere,
		catcher:  NoID,
		traceIDs: s.TraceIdentifiers(),
		channels: s.cfg.pickChannels(false),
	}
	if err := c.assemble(s.stack, s.cfg, normalizeRuntime(frames)); err != nil {
		return nil, err
	}
	s.obs.ContextBuilt(c)
	return c, nil
}

// BuildFromError builds a Context for err, which was caught by the call
// identified by catcher (NoID when unknown). isKnown selects the "known"
// channel and level settings.
//
// The trace comes from the deepest StackTracer in err's chain, else the
// deepest RawTracer, else the live stack at the caller.
func (s *Session) BuildFromError(err error, isKnown bool, catcher Identifier) (*Context, error) {
	return s.buildFromError(1, err, isKnown, catcher)
}

func (s *Session) buildFromError(skip int, err error, isKnown bool, catcher Identifier) (*Context, error) {
	level, lerr := s.cfg.pickLevel(isKnown)
	if lerr != nil {
		return nil, lerr
	}
	c := &Context{
		source:   SourceError,
		err:      err,
		catcher:  catcher,
		traceIDs: s.TraceIdentifiers(),
		channels: s.cfg.pickChannels(isKnown),
		level:    level,
		report:   s.cfg.report(),
	}
	if aerr := c.assemble(s.stack, s.cfg, s.errorSnapshot(skip+1, err)); aerr != nil {
		return nil, aerr
	}
	s.obs.ContextBuilt(c)
	return c, nil
}

func (s *Session) errorSnapshot(skip int, err error) []FrameDescriptor {
	if pcs := traceOf(err); pcs != nil {
		return normalizePCs(pcs)
	}
	if file, line, frames, ok := rawTraceOf(err); ok {
		return s.stack.Normalize(file, line, frames)
	}
	return normalizePCs(callers(skip + 1))
}

// ErrorContext returns the Context remembered for err, building and
// remembering a new one when there is none.
func (s *Session) ErrorContext(err error) (*Context, error) {
	if key, ok := errKey(err); ok {
		if c, found := s.remembered[key]; found {
			return c, nil
		}
	}
	c, berr := s.buildFromError(1, err, false, NoID)
	if berr != nil {
		return nil, berr
	}
	s.Remember(err, c)
	return c, nil
}

// Remember associates c with err. Errors without a usable identity are not
// remembered.
func (s *Session) Remember(err error, c *Context) {
	key, ok := errKey(err)
	if !ok || c == nil {
		return
	}
	if _, dup := s.remembered[key]; dup {
		s.order = slices.DeleteFunc(s.order, func(k any) bool { return k == key })
	}
	s.remembered[key] = c
	s.order = append(s.order, key)
}

// Forget drops the Context remembered for err.
func (s *Session) Forget(err error) {
	key, ok := errKey(err)
	if !ok {
		return
	}
	delete(s.remembered, key)
	s.order = slices.DeleteFunc(s.order, func(k any) bool { return k == key })
}

// Latest returns the most recently remembered Context, or nil.
func (s *Session) Latest() *Context {
	if len(s.order) == 0 {
		return nil
	}
	return s.remembered[s.order[len(s.order)-1]]
}

// End discards everything the Session holds. The Session may be reused.
func (s *Session) End() {
	s.stack.Reset()
	s.traceIDs = make(map[string]any)
	s.remembered = make(map[any]*Context)
	s.order = nil
}
