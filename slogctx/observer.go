package slogctx

import (
	"context"
	"log/slog"

	xgxcontext "github.com/xgx-io/xgx-context"
)

// Observer debug-logs store and Context activity.
type Observer struct {
	logger *slog.Logger
}

var _ xgxcontext.Observer = (*Observer)(nil)

// NewObserver returns an Observer writing to logger, or to slog.Default when
// logger is nil.
func NewObserver(logger *slog.Logger) *Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Observer{logger: logger.With("component", "xgxcontext")}
}

func (o *Observer) MetaRecorded(kind string, count int) {
	o.logger.Debug("meta recorded", "kind", kind, "count", count)
}

func (o *Observer) MetaPruned(count int) {
	o.logger.Debug("meta pruned", "count", count)
}

func (o *Observer) ContextBuilt(c *xgxcontext.Context) {
	if !o.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	o.logger.Debug("context built",
		"source", string(c.Source()),
		"frames", c.CallStack().Len(),
		"worth_reporting", c.WorthReporting())
}
