// Package otelctx connects xgxcontext to OpenTelemetry tracing.
//
// Bind copies the active span's trace and span ids into a Session so every
// Context it builds can be correlated with the trace. Annotate goes the other
// way and writes a Context onto a span: one event per MetaGroup, the error
// as an exception event and an error status.
package otelctx

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	xgxcontext "github.com/xgx-io/xgx-context"
)

// Names the identifiers are stored under in a Session.
const (
	TraceIDName = "otel.trace_id"
	SpanIDName  = "otel.span_id"
)

// MetaGroupEvent names the span events Annotate adds.
const MetaGroupEvent = "xgxcontext.meta_group"

// TraceIdentifiers returns the ids of the span carried by ctx, or nil when
// ctx carries no valid span context.
func TraceIdentifiers(ctx context.Context) map[string]any {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}
	return map[string]any{
		TraceIDName: sc.TraceID().String(),
		SpanIDName:  sc.SpanID().String(),
	}
}

// Bind stores the ids of ctx's span in s and reports whether there were any.
func Bind(ctx context.Context, s *xgxcontext.Session) bool {
	ids := TraceIdentifiers(ctx)
	for name, id := range ids {
		s.TraceIdentifier(id, name)
	}
	return len(ids) > 0
}

// Annotate writes c onto span. Spans that are not recording are left alone.
func Annotate(span trace.Span, c *xgxcontext.Context) {
	if c == nil || span == nil || !span.IsRecording() {
		return
	}

	for _, g := range c.CallStack().MetaGroups() {
		span.AddEvent(MetaGroupEvent, trace.WithAttributes(groupAttributes(g)...))
	}

	span.SetAttributes(
		attribute.String("xgx.source", string(c.Source())),
		attribute.StringSlice("xgx.channels", c.Channels()),
		attribute.Bool("xgx.worth_reporting", c.WorthReporting()),
	)
	if known := c.KnownIssues(); len(known) > 0 {
		span.SetAttributes(attribute.StringSlice("xgx.known_issues", known))
	}

	err := c.Err()
	if err == nil {
		return
	}
	var opts []trace.EventOption
	if l := c.Level(); l != xgxcontext.LevelNone {
		opts = append(opts, trace.WithAttributes(attribute.String("xgx.level", string(l))))
	}
	if code := xgxcontext.CodeOf(err); code != "" {
		opts = append(opts, trace.WithAttributes(attribute.String("error.code", string(code))))
	}
	span.RecordError(err, opts...)
	span.SetStatus(codes.Error, err.Error())
}

// Report annotates the span carried by ctx.
func Report(ctx context.Context, c *xgxcontext.Context) {
	Annotate(trace.SpanFromContext(ctx), c)
}

func groupAttributes(g xgxcontext.MetaGroup) []attribute.KeyValue {
	var kinds, values []string
	for _, k := range g.Kinds() {
		kinds = append(kinds, k.String())
	}
	for _, m := range g.Meta() {
		if cm, ok := m.(xgxcontext.ContextMeta); ok {
			values = append(values, fmt.Sprint(cm.Value))
		}
	}

	attrs := []attribute.KeyValue{
		attribute.String("code.filepath", g.ProjectFile),
		attribute.Int("code.lineno", g.Line),
		attribute.String("code.function", g.Function),
		attribute.StringSlice("xgx.kinds", kinds),
	}
	if len(values) > 0 {
		attrs = append(attrs, attribute.StringSlice("xgx.values", values))
	}
	if g.ExceptionThrownHere() {
		attrs = append(attrs, attribute.Bool("xgx.thrown_here", true))
	}
	if g.ExceptionCaughtHere() {
		attrs = append(attrs, attribute.Bool("xgx.caught_here", true))
	}
	return attrs
}
