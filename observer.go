package xgxcontext

// Observer receives notifications about store and Context activity. Adapters
// (slogctx, metrics) implement it; every method must return quickly and must
// not call back into the Session.
type Observer interface {
	// MetaRecorded is called after count values of kind were stored.
	MetaRecorded(kind string, count int)
	// MetaPruned is called after count stale entries were dropped.
	MetaPruned(count int)
	// ContextBuilt is called once per Context, after its CallStack exists.
	ContextBuilt(c *Context)
}

type nopObserver struct{}

func (nopObserver) MetaRecorded(string, int) {}
func (nopObserver) MetaPruned(int)           {}
func (nopObserver) ContextBuilt(*Context)    {}

// Observers fans notifications out to every non-nil observer, in order.
func Observers(obs ...Observer) Observer {
	out := make(multiObserver, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

type multiObserver []Observer

func (m multiObserver) MetaRecorded(kind string, count int) {
	for _, o := range m {
		o.MetaRecorded(kind, count)
	}
}

func (m multiObserver) MetaPruned(count int) {
	for _, o := range m {
		o.MetaPruned(count)
	}
}

func (m multiObserver) ContextBuilt(c *Context) {
	for _, o := range m {
		o.ContextBuilt(c)
	}
}
