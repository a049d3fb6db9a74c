// Package metrics exports xgxcontext activity as Prometheus metrics.
//
// A Collector is an xgxcontext.Observer; pass it to a Session with
// xgxcontext.WithObserver. One Collector may be shared by any number of
// Sessions.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	xgxcontext "github.com/xgx-io/xgx-context"
)

const namespace = "xgxcontext"

// Collector counts recorded values, pruned entries and built Contexts.
type Collector struct {
	recorded *prometheus.CounterVec
	pruned   prometheus.Counter
	contexts *prometheus.CounterVec
	frames   prometheus.Histogram
}

var _ xgxcontext.Observer = (*Collector)(nil)

// New creates a Collector and registers its metrics with reg. A nil reg
// means prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collector{
		// recorded counts stored values by kind
		recorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "meta_recorded_total",
			Help:      "Values recorded into the meta call stack, by kind",
		}, []string{"kind"}),

		// pruned counts entries dropped because their frames returned
		pruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "meta_pruned_total",
			Help:      "Stale meta entries pruned from the meta call stack",
		}),

		// contexts counts built Contexts by source and reporting worth
		contexts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contexts_built_total",
			Help:      "Contexts built, by source and whether they are worth reporting",
		}, []string{"source", "worth_reporting"}),

		// frames tracks the depth of built call stacks
		frames: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "context_frames",
			Help:      "Frames in the call stack of a built Context",
			Buckets:   prometheus.ExponentialBuckets(4, 2, 7), // 4 to 256
		}),
	}

	all := []prometheus.Collector{c.recorded, c.pruned, c.contexts, c.frames}
	for i, m := range all {
		if err := reg.Register(m); err != nil {
			// leave the registerer as it was
			for _, done := range all[:i] {
				reg.Unregister(done)
			}
			return nil, xgxcontext.Wrap(err, "registering xgxcontext metrics").
				Code(xgxcontext.CodeInitialization)
		}
	}
	return c, nil
}

func (c *Collector) MetaRecorded(kind string, count int) {
	c.recorded.WithLabelValues(kind).Add(float64(count))
}

func (c *Collector) MetaPruned(count int) {
	c.pruned.Add(float64(count))
}

func (c *Collector) ContextBuilt(ctx *xgxcontext.Context) {
	c.contexts.WithLabelValues(string(ctx.Source()), strconv.FormatBool(ctx.WorthReporting())).Inc()
	c.frames.Observe(float64(ctx.CallStack().Len()))
}
